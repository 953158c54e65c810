// Package auction models the time-boxed delivery auction of an order.
//
// A Window is opened when an order starts awaiting bids and is closed exactly once,
// either when the quorum of bids is reached or when its duration elapses. Bids are
// append-only; at most one of them is ever marked selected, by a manager assignment.
package auction
