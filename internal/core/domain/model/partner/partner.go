package partner

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when attempting to create a partner without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrPartnerIsNotConstructed is returned when using an improperly initialized Partner.
	ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner constructor")
)

// Partner represents a delivery partner on the service grid.
//
// Business rules:
//   - Must have a valid UUID and a non-empty name
//   - Only available partners are considered for assignment
//   - lastIdleAt records when the partner last became free and is the
//     fairness tiebreaker between equally distant candidates
type Partner struct {
	// id uniquely identifies the partner
	id kernel.UUID
	// name is the human-readable name of the partner
	name string
	// phone is the partner's contact number
	phone string
	// pushTarget addresses the partner's device for notifications
	pushTarget string
	// location is the partner's current position on the service grid
	location kernel.Location
	// available reports whether the partner can take new orders
	available bool
	// lastIdleAt is when the partner last became free
	lastIdleAt time.Time
	// version supports optimistic locking in persistence
	version int
	// guard ensures the partner was properly constructed
	guard guard.ConstructorGuard
}

// NewPartner creates a new Partner at the given location. New partners
// start available with lastIdleAt set to now, placing them at the back of
// the fairness queue among partners idle longer.
func NewPartner(id kernel.UUID, name, phone, pushTarget string, location kernel.Location, now time.Time) (*Partner, error) {
	p := &Partner{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setLocation(location),
	); err != nil {
		return nil, err
	}

	p.phone = phone
	p.pushTarget = pushTarget
	p.available = true
	p.lastIdleAt = now

	return p, nil
}

// RestorePartner reconstructs a Partner from persistence.
func RestorePartner(
	id kernel.UUID, name, phone, pushTarget string, location kernel.Location,
	available bool, lastIdleAt time.Time, version int,
) (*Partner, error) {
	p, err := NewPartner(id, name, phone, pushTarget, location, lastIdleAt)
	if err != nil {
		return nil, err
	}

	if version < 0 {
		return nil, errs.NewVersionIsInvalidErrorWithCause("version")
	}

	p.available = available
	p.version = version
	return p, nil
}

// Validate ensures the Partner was created through NewPartner.
func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

// IsEqual compares two partners by their unique identifiers.
func (p *Partner) IsEqual(other *Partner) bool {
	return other != nil && p.id.IsEqual(other.id)
}

// ID returns the partner's unique identifier.
func (p *Partner) ID() kernel.UUID {
	return p.id
}

// Name returns the partner's name.
func (p *Partner) Name() string {
	return p.name
}

// Phone returns the partner's contact number.
func (p *Partner) Phone() string {
	return p.phone
}

// PushTarget returns the partner's device address for notifications.
func (p *Partner) PushTarget() string {
	return p.pushTarget
}

// Location returns the partner's current grid position.
func (p *Partner) Location() kernel.Location {
	return p.location
}

// IsAvailable reports whether the partner can take new orders.
func (p *Partner) IsAvailable() bool {
	return p.available
}

// LastIdleAt returns when the partner last became free.
func (p *Partner) LastIdleAt() time.Time {
	return p.lastIdleAt
}

// Version returns the optimistic locking version.
func (p *Partner) Version() int {
	return p.version
}

// MarkBusy takes the partner out of the assignment pool.
func (p *Partner) MarkBusy() {
	p.available = false
}

// MarkIdle returns the partner to the pool and records the idle time,
// which resets their position in the fairness queue.
func (p *Partner) MarkIdle(now time.Time) {
	p.available = true
	p.lastIdleAt = now
}

// MoveTo updates the partner's grid position.
func (p *Partner) MoveTo(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}

// setID validates and sets the partner's identifier.
func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

// setName validates and sets the partner's name.
func (p *Partner) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

// setLocation validates and sets the partner's position.
func (p *Partner) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}
