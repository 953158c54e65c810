// Package errs provides the typed errors shared by every layer of the auction service.
//
// Each error type follows the same shape:
//   - a sentinel error variable (e.g. ErrStateConflict)
//   - a struct carrying the details of the failure
//   - constructor functions
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The sentinels double as the failure taxonomy the HTTP adapter maps to status codes:
//   - ErrValueIsInvalid, ErrValueIsOutOfRange, ErrValueIsRequired: validation failures
//   - ErrPermissionDenied: a caller without the required role
//   - ErrStateConflict, ErrVersionIsInvalid: the subject is not in the expected state
//   - ErrResourceUnavailable: an item, delivery worker or balance cannot serve the request
//   - ErrExternalFailure: the payment gateway (or another collaborator) failed
//   - ErrObjectNotFound: a missing record
//
// Domain packages declare named errors (order.ErrNotAssigned, auction.ErrWindowClosed, ...)
// as values of these types so callers can match either the specific error or its class.
package errs
