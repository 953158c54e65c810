// Package discipline models the cascade of consequences triggered by warnings,
// complaint rulings and performance reviews.
//
// A cascade is a queue of Effect values. Applying one effect may enqueue more: a
// warning on a customer can yield RevokeVIP or TerminateCustomer, terminating yields a
// refund and a blacklist entry, a second demotion yields FireEmployee. The decision
// rules live here as pure functions; the application layer applies the effects inside
// one transaction.
//
// Role dispatch uses the Subject tagged union instead of branching on role strings.
package discipline
