// Package kernel holds the value objects shared by every aggregate of the auction service.
//
// The package includes:
//   - UUID: identifier of users, orders, bids, memos and every other persisted record
//   - Money: a two-decimal amount backed by shopspring/decimal, stored as integer cents
//
// Both types are immutable. Their zero values are recognisable (a nil UUID fails Validate,
// a zero Money is a legitimate amount) so aggregates can validate them in constructors.
package kernel
