// Package partner contains the delivery partner side of fulfillment: the
// Partner aggregate describing an available courier on the service grid,
// and the Assignment aggregate tracking one partner's responsibility for
// one order.
//
// A partner is a candidate for assignment while marked available. Fairness
// between equally distant partners uses the time each went idle: the one
// waiting longest wins. An order has at most one active assignment; a
// declined or swept assignment is cancelled and the order returns to the
// pool.
package partner
