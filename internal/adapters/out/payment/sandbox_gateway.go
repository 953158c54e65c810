// Package payment holds the payment gateway adapters.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
)

var _ ports.PaymentGateway = &SandboxGateway{}

// SandboxGateway accepts every charge and refund and keeps a per-customer tally of
// money moved. Customers registered with Decline have every operation refused.
type SandboxGateway struct {
	mu       sync.Mutex
	charged  map[kernel.UUID]kernel.Money
	refunded map[kernel.UUID]kernel.Money
	declined map[kernel.UUID]bool
	logger   *slog.Logger
}

func NewSandboxGateway(logger *slog.Logger) *SandboxGateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &SandboxGateway{
		charged:  make(map[kernel.UUID]kernel.Money),
		refunded: make(map[kernel.UUID]kernel.Money),
		declined: make(map[kernel.UUID]bool),
		logger:   logger.With("component", "payment_sandbox"),
	}
}

// Decline makes every later operation for the customer fail.
func (g *SandboxGateway) Decline(customerID kernel.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.declined[customerID] = true
}

func (g *SandboxGateway) Charge(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error {
	if err := g.check(ctx, customerID, amount); err != nil {
		return err
	}

	g.mu.Lock()
	g.charged[customerID] = g.charged[customerID].Add(amount)
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "charge accepted", "customer_id", customerID.String(), "amount", amount.String())
	return nil
}

func (g *SandboxGateway) Refund(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error {
	if err := g.check(ctx, customerID, amount); err != nil {
		return err
	}

	g.mu.Lock()
	g.refunded[customerID] = g.refunded[customerID].Add(amount)
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "refund accepted", "customer_id", customerID.String(), "amount", amount.String())
	return nil
}

// Charged returns the total charged to the customer so far.
func (g *SandboxGateway) Charged(customerID kernel.UUID) kernel.Money {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.charged[customerID]
}

func (g *SandboxGateway) Refunded(customerID kernel.UUID) kernel.Money {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refunded[customerID]
}

func (g *SandboxGateway) check(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("sandbox: amount must be positive, got %s", amount)
	}

	g.mu.Lock()
	declined := g.declined[customerID]
	g.mu.Unlock()
	if declined {
		g.logger.WarnContext(ctx, "operation declined", "customer_id", customerID.String())
		return fmt.Errorf("sandbox: card declined for customer %s", customerID)
	}
	return nil
}
