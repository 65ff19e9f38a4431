package kernel

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// Coordinate represents a position value on the service-area grid.
// Valid coordinates range from LocationMin to LocationMax inclusive.
type Coordinate int16

const (
	// LocationMin is the minimum valid coordinate on either axis.
	LocationMin Coordinate = 1
	// LocationMax is the maximum valid coordinate on either axis.
	LocationMax Coordinate = 100
)

// ErrLocationIsNotConstructed is returned when attempting to use an
// improperly initialized Location. Locations must be created using
// NewLocation or NewRandomLocation.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or NewRandomLocation constructors")

// Location is an immutable point on the service-area grid with validated
// coordinates. It is used for the shop pickup point and delivery partner
// positions when resolving assignments by proximity.
type Location struct {
	x Coordinate
	y Coordinate

	guard guard.ConstructorGuard
}

// NewLocation creates a Location after validating both coordinates are
// within [LocationMin, LocationMax].
func NewLocation(x Coordinate, y Coordinate) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setX(x), loc.setY(y)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// NewRandomLocation creates a Location with random in-bounds coordinates.
// Useful in tests and seed data.
func NewRandomLocation() (Location, error) {
	span := int(LocationMax - LocationMin + 1)
	x := Coordinate(rand.IntN(span)) + LocationMin //nolint:gosec // not a credential
	y := Coordinate(rand.IntN(span)) + LocationMin //nolint:gosec // not a credential
	return NewLocation(x, y)
}

// Validate returns ErrLocationIsNotConstructed for a zero-value Location.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

// X returns the X coordinate.
func (l Location) X() Coordinate {
	return l.x
}

// Y returns the Y coordinate.
func (l Location) Y() Coordinate {
	return l.y
}

// String returns "Location(x,y)". It implements fmt.Stringer.
func (l Location) String() string {
	return fmt.Sprintf("Location(%d,%d)", l.x, l.y)
}

// IsEqual reports whether two locations share the same coordinates. Both
// locations must be properly constructed.
func (l Location) IsEqual(other Location) (bool, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return l == other, nil
}

// Distance calculates the Manhattan distance |x1-x2| + |y1-y2| between two
// locations. The metric is deterministic, which the assignment resolver
// relies on for reproducible nearest-partner selection.
func (l Location) Distance(other Location) (int, error) {
	if err := errors.Join(l.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	return abs(int(l.x)-int(other.x)) + abs(int(l.y)-int(other.y)), nil
}

func (l *Location) setX(x Coordinate) error {
	if x < LocationMin || x > LocationMax {
		return errs.NewValueIsOutOfRangeError("x", x, LocationMin, LocationMax)
	}
	l.x = x
	return nil
}

func (l *Location) setY(y Coordinate) error {
	if y < LocationMin || y > LocationMax {
		return errs.NewValueIsOutOfRangeError("y", y, LocationMin, LocationMax)
	}
	l.y = y
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
