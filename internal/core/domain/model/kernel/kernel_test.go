package kernel_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	t.Run("new_uuid_is_valid_and_unique", func(t *testing.T) {
		// When
		a := kernel.NewUUID()
		b := kernel.NewUUID()

		// Then
		require.NoError(t, a.Validate())
		require.NoError(t, b.Validate())
		assert.False(t, a.IsEqual(b))
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var id kernel.UUID
		require.ErrorIs(t, id.Validate(), errs.ErrValueIsRequired)
	})

	t.Run("round_trips_through_string", func(t *testing.T) {
		// Given
		id := kernel.NewUUID()

		// When
		parsed, err := kernel.UUIDFromString(id.String())

		// Then
		require.NoError(t, err)
		assert.True(t, id.IsEqual(parsed))
	})

	t.Run("rejects_malformed_strings", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
	})
}

func TestLocation(t *testing.T) {
	t.Run("creates_valid_location", func(t *testing.T) {
		// When
		loc, err := kernel.NewLocation(5, 7)

		// Then
		require.NoError(t, err)
		assert.Equal(t, kernel.Coordinate(5), loc.X())
		assert.Equal(t, kernel.Coordinate(7), loc.Y())
	})

	t.Run("rejects_out_of_bounds_coordinates", func(t *testing.T) {
		cases := []struct {
			x, y kernel.Coordinate
		}{
			{0, 5},
			{5, 0},
			{kernel.LocationMax + 1, 5},
			{5, kernel.LocationMax + 1},
		}
		for _, tc := range cases {
			_, err := kernel.NewLocation(tc.x, tc.y)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
	})

	t.Run("zero_value_fails_validation", func(t *testing.T) {
		var loc kernel.Location
		require.Error(t, loc.Validate())
	})

	t.Run("manhattan_distance_is_symmetric", func(t *testing.T) {
		// Given
		a, _ := kernel.NewLocation(1, 1)
		b, _ := kernel.NewLocation(4, 5)

		// When
		ab, err := a.Distance(b)
		require.NoError(t, err)
		ba, err := b.Distance(a)
		require.NoError(t, err)

		// Then
		assert.Equal(t, 7, ab)
		assert.Equal(t, ab, ba)
	})

	t.Run("random_location_is_in_bounds", func(t *testing.T) {
		for range 100 {
			loc, err := kernel.NewRandomLocation()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, loc.X(), kernel.LocationMin)
			assert.LessOrEqual(t, loc.X(), kernel.LocationMax)
			assert.GreaterOrEqual(t, loc.Y(), kernel.LocationMin)
			assert.LessOrEqual(t, loc.Y(), kernel.LocationMax)
		}
	})
}

func TestMoney(t *testing.T) {
	t.Run("rejects_negative_amounts", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("arithmetic", func(t *testing.T) {
		// Given
		a := kernel.MustMoney(50000)
		b := kernel.MustMoney(5000)

		// Then
		assert.Equal(t, int64(55000), a.Add(b).Paise())

		diff, err := a.Sub(b)
		require.NoError(t, err)
		assert.Equal(t, int64(45000), diff.Paise())

		_, err = b.Sub(a)
		require.Error(t, err, "negative results are invalid")
	})

	t.Run("renders_rupees", func(t *testing.T) {
		assert.Equal(t, "₹125.50", kernel.MustMoney(12550).String())
		assert.Equal(t, "₹0.00", kernel.Money{}.String())
	})
}
