// Package commands contains the engine's write operations. Every order
// step follows the same shape: serialize on the order, load, run the
// state machine, persist, then carry out the returned side effects.
// Side effects run after commit and never roll a committed transition
// back.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command
// handlers. Narrow compositions let each handler declare exactly the
// repositories it touches.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a
	// transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// PartnerRepoFactory provides access to the partner repository within
	// a transaction.
	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	// AssignmentRepoFactory provides access to the assignment repository
	// within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// SummaryLogFactory provides access to the summary log within a
	// transaction.
	SummaryLogFactory interface {
		SummaryLog() ports.SummaryLog
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW manages transactions across orders, partners and assignments.
	// Used by every step that can touch the assignment side.
	UoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		AssignmentRepoFactory
	}

	// UoWFactory creates unit of work instances for cross-aggregate
	// operations.
	UoWFactory interface {
		Create() UoW
	}

	// SummaryUoW manages transactions for the daily summary batch.
	SummaryUoW interface {
		TxManager
		OrderRepoFactory
		SummaryLogFactory
	}

	// SummaryUoWFactory creates summary unit of work instances.
	SummaryUoWFactory interface {
		Create() SummaryUoW
	}
)
