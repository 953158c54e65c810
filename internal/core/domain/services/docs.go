// Package services provides the domain policies of the auction service that do not
// belong to a single aggregate.
//
// The package includes:
//   - PriceCalculator: subtotal, VIP discount, taxes, delivery fee and rounded total
//   - BidSelector: validates a manager's bid choice and enforces the override memo rule
//   - DeliveryDispatcher: picks a delivery worker when an auction received no bids
//   - RatingAggregator: weighted averages and the rating-abuse signal
//   - EmployeeEvaluator: demotion and bonus triggers
//   - VIPPolicy: VIP upgrade eligibility
//
// All services are pure: they read aggregates and return decisions, the command
// handlers persist the results.
package services
