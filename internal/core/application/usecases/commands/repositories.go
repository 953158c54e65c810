// Package commands contains the business operations that modify system state. Every
// handler follows the same shape: validate the command, open a unit of work, load
// aggregates, apply domain rules, persist, commit, and only then talk to the outside
// world (timers, notifications).
package commands

import (
	"context"

	"auctiondelivery/internal/core/ports"
)

// Unit of Work interfaces for command handlers.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	UserRepoFactory interface {
		UserRepository() ports.UserRepository
	}

	InboxFactory interface {
		ManagerInbox() ports.ManagerInbox
	}

	// InboxUoW is enough for acknowledging manager inbox messages.
	InboxUoW interface {
		TxManager
		UserRepoFactory
		InboxFactory
	}

	InboxUoWFactory interface {
		Create() InboxUoW
	}

	// UoW spans every aggregate; most commands touch orders, balances and accounts
	// together, and the discipline cascade may reach any of them.
	//
	// Example:
	//   uow := factory.Create()
	//   if err := uow.Begin(ctx); err != nil {
	//       return err
	//   }
	//   defer func() { _ = uow.Rollback(ctx) }()
	//
	//   o, err := uow.OrderRepository().Get(ctx, orderID)
	//   // ... apply domain rules
	//   return uow.Commit(ctx)
	UoW interface {
		ports.UnitOfWork
	}

	UoWFactory interface {
		Create() UoW
	}
)
