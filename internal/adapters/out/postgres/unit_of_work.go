// Package postgres provides the GORM-based Unit of Work. Every repository handed out by a
// unit of work is bound to its transaction once Begin has been called, so a command's
// writes, including a whole discipline cascade, commit or roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.LedgerRepository().DebitCustomer(ctx, customerID, total); err != nil {
//	    return err
//	}
//	if err := uow.OrderRepository().Add(ctx, o); err != nil {
//	    return err
//	}
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance belongs to one goroutine; concurrent commands create their own.
package postgres

import (
	"context"

	"auctiondelivery/internal/adapters/out/postgres/accountrepo"
	"auctiondelivery/internal/adapters/out/postgres/auctionrepo"
	"auctiondelivery/internal/adapters/out/postgres/catalogrepo"
	"auctiondelivery/internal/adapters/out/postgres/feedbackrepo"
	"auctiondelivery/internal/adapters/out/postgres/inboxrepo"
	"auctiondelivery/internal/adapters/out/postgres/ledgerrepo"
	"auctiondelivery/internal/adapters/out/postgres/orderrepo"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"

	"gorm.io/gorm"
)

// Models lists every persisted DTO, in dependency order. Tests migrate with it; production
// schemas come from the goose migrations.
func Models() []any {
	return []any{
		&accountrepo.UserDTO{},
		&accountrepo.CustomerDTO{},
		&accountrepo.EmployeeDTO{},
		&accountrepo.WarningDTO{},
		&accountrepo.BlacklistEntryDTO{},
		&catalogrepo.MenuItemDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&auctionrepo.BidDTO{},
		&auctionrepo.WindowDTO{},
		&ledgerrepo.TransactionDTO{},
		&feedbackrepo.RatingDTO{},
		&feedbackrepo.RaterFlagDTO{},
		&feedbackrepo.ComplaintDTO{},
		&feedbackrepo.ComplimentDTO{},
		&feedbackrepo.MemoDTO{},
		&feedbackrepo.KnowledgeEntryDTO{},
		&feedbackrepo.KnowledgeRatingDTO{},
		&inboxrepo.MessageDTO{},
	}
}

// trackedAggregate is an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates one UnitOfWork per business operation.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and records the aggregates written
// through it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it twice does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. After a successful Commit it returns
// gorm.ErrInvalidTransaction, which deferred rollbacks ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// conn is the transaction when one is active, the plain connection otherwise.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) BidRepository() ports.BidRepository {
	return auctionrepo.NewGormBidRepository(uow.conn())
}

func (uow *GormUnitOfWork) BiddingWindowRepository() ports.BiddingWindowRepository {
	return auctionrepo.NewGormWindowRepository(uow.conn())
}

func (uow *GormUnitOfWork) UserRepository() ports.UserRepository {
	return accountrepo.NewGormUserRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return accountrepo.NewGormCustomerRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) EmployeeRepository() ports.EmployeeRepository {
	return accountrepo.NewGormEmployeeRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) WarningRepository() ports.WarningRepository {
	return accountrepo.NewGormWarningRepository(uow.conn())
}

func (uow *GormUnitOfWork) BlacklistRepository() ports.BlacklistRepository {
	return accountrepo.NewGormBlacklistRepository(uow.conn())
}

func (uow *GormUnitOfWork) LedgerRepository() ports.LedgerRepository {
	return ledgerrepo.NewGormLedgerRepository(uow.conn())
}

func (uow *GormUnitOfWork) RatingRepository() ports.RatingRepository {
	return feedbackrepo.NewGormRatingRepository(uow.conn())
}

func (uow *GormUnitOfWork) ComplaintRepository() ports.ComplaintRepository {
	return feedbackrepo.NewGormComplaintRepository(uow.conn())
}

func (uow *GormUnitOfWork) ComplimentRepository() ports.ComplimentRepository {
	return feedbackrepo.NewGormComplimentRepository(uow.conn())
}

func (uow *GormUnitOfWork) MemoRepository() ports.MemoRepository {
	return feedbackrepo.NewGormMemoRepository(uow.conn())
}

func (uow *GormUnitOfWork) KnowledgeRepository() ports.KnowledgeRepository {
	return feedbackrepo.NewGormKnowledgeRepository(uow.conn())
}

func (uow *GormUnitOfWork) ManagerInbox() ports.ManagerInbox {
	return inboxrepo.NewGormManagerInbox(uow.conn())
}

// TrackAggregate registers an aggregate written within this unit of work.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns the ids of the aggregates written so far.
func (uow *GormUnitOfWork) TrackedAggregates() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(uow.trackedAggregates))
	for _, t := range uow.trackedAggregates {
		ids = append(ids, t.ID)
	}
	return ids
}
