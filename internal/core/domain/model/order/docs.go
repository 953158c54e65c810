// Package order provides the Order aggregate and its lifecycle state machine.
//
// The package includes:
//   - Order: the aggregate root, the only writer of order status and lifecycle timestamps
//   - Item: a line of the order with the unit price captured at placement time
//   - Pricing: the price breakdown computed before placement
//   - Status: PLACED -> AWAITING_BIDS -> READY_FOR_DELIVERY -> OUT_FOR_DELIVERY -> DELIVERED
//
// Key business rules:
//   - Item prices are snapshots and never change after placement
//   - Only the assigned delivery worker may pick up or deliver the order
//   - Transitions never skip a state and never go backwards
//   - A delivered order is immutable
package order
