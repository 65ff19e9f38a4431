// Package services contains stateless domain services: logic that spans
// aggregates and therefore belongs to neither.
//
// AssignmentResolver picks the delivery partner for an order.
// SummaryCalculator turns a day's worth of finished orders into the
// figures a shop owner sees in the evening summary.
package services
