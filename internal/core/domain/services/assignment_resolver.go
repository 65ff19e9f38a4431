package services

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
)

// ErrNoPartnersAvailable is returned when no partner can take the order.
// This is a recoverable condition: the order stays in the assignment pool
// and the sweep retries later.
var ErrNoPartnersAvailable = errors.New("no delivery partners available")

// AssignmentResolver is a domain service that picks the delivery partner
// for a home delivery order.
//
// Selection is fully deterministic:
//   - nearest available partner by Manhattan distance to the shop
//   - ties broken by the earliest lastIdleAt (longest waiting wins)
//   - remaining ties broken by partner id ascending
//
// Determinism makes resolution replayable: given the same pool, the same
// partner is chosen, so a retried command cannot flap between partners.
type AssignmentResolver struct{}

// NewAssignmentResolver creates a new AssignmentResolver.
func NewAssignmentResolver() AssignmentResolver {
	return AssignmentResolver{}
}

// Resolve picks the best partner for the order and opens an Assignment.
// The chosen partner is marked busy and recorded on the order.
//
// Returns ErrNoPartnersAvailable when the pool is empty or holds no
// available partner, leaving the order untouched.
func (r AssignmentResolver) Resolve(
	o *order.Order, pool []*partner.Partner, assignmentID kernel.UUID, now time.Time,
) (*partner.Assignment, *partner.Partner, error) {
	if err := o.Validate(); err != nil {
		return nil, nil, err
	}

	best, err := r.findBestPartner(o.ShopLocation(), pool)
	if err != nil {
		return nil, nil, err
	}

	assignment, err := partner.NewAssignment(assignmentID, o.ID(), best.ID(), now)
	if err != nil {
		return nil, nil, err
	}

	if err := o.AssignPartner(best.ID()); err != nil {
		return nil, nil, err
	}

	best.MarkBusy()
	return assignment, best, nil
}

func (r AssignmentResolver) findBestPartner(
	shop kernel.Location, pool []*partner.Partner,
) (*partner.Partner, error) {
	var (
		best     *partner.Partner
		bestDist int
	)

	for _, candidate := range pool {
		if err := candidate.Validate(); err != nil {
			return nil, err
		}
		if !candidate.IsAvailable() {
			continue
		}

		dist, err := candidate.Location().Distance(shop)
		if err != nil {
			return nil, err
		}
		if best == nil || r.beats(candidate, dist, best, bestDist) {
			best = candidate
			bestDist = dist
		}
	}

	if best == nil {
		return nil, ErrNoPartnersAvailable
	}
	return best, nil
}

// beats reports whether the challenger outranks the incumbent under the
// distance, idle-time, id ordering.
func (r AssignmentResolver) beats(
	challenger *partner.Partner, challengerDist int,
	incumbent *partner.Partner, incumbentDist int,
) bool {
	if challengerDist != incumbentDist {
		return challengerDist < incumbentDist
	}
	if !challenger.LastIdleAt().Equal(incumbent.LastIdleAt()) {
		return challenger.LastIdleAt().Before(incumbent.LastIdleAt())
	}
	return challenger.ID().String() < incumbent.ID().String()
}
