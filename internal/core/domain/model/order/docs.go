// Package order provides the Order aggregate root and the state machine
// governing its fulfillment lifecycle, from placement through handoff
// verification to completion.
//
// The package includes:
//   - Order: the aggregate root holding identity, monetary breakdown,
//     payment state, handoff credentials, and the append-only timeline
//   - Status: a state machine enforcing the legal lifecycle transitions
//   - Event: the tagged set of lifecycle events applied via Transition
//   - SideEffect: descriptions of the actions a successful transition
//     requires (credential issuance, partner assignment, notifications,
//     invoicing); effects are described here and executed by the
//     application layer so the machine stays deterministic
//   - HandoffCredential: one-time numeric codes proving physical possession
//     at a handoff point
//
// Key business rules:
//   - Status only moves along the defined transition table; illegal events
//     leave the order untouched
//   - Re-applying an event that would land on the current status is a
//     no-op success, supporting at-least-once delivery of upstream events
//   - Exactly one active credential exists per (order, purpose); consuming
//     it is one-way and a wrong code never invalidates the right one
//   - total = subtotal - discount + deliveryFee at all times, and
//     self-pickup orders carry no delivery fee
package order
