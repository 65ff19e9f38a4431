// Package kernel provides core domain primitives shared across the
// fulfillment domain model.
//
// The package includes:
//   - UUID: a value object for unique identifiers with validation and comparison
//   - Location: a value object representing coordinates on the service-area
//     grid, used for shop/partner proximity
//   - Money: a non-negative monetary amount held in paise
//
// These primitives enforce domain invariants at construction time, are
// immutable, and are safe for concurrent use.
package kernel
