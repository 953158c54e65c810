package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Every repository it hands out is bound
// to the transaction started by Begin.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	BidRepository() BidRepository
	BiddingWindowRepository() BiddingWindowRepository
	UserRepository() UserRepository
	CustomerRepository() CustomerRepository
	EmployeeRepository() EmployeeRepository
	WarningRepository() WarningRepository
	BlacklistRepository() BlacklistRepository
	LedgerRepository() LedgerRepository
	RatingRepository() RatingRepository
	ComplaintRepository() ComplaintRepository
	ComplimentRepository() ComplimentRepository
	MemoRepository() MemoRepository
	KnowledgeRepository() KnowledgeRepository
	ManagerInbox() ManagerInbox
}
