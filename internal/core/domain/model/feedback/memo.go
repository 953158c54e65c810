package feedback

import (
	"strings"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// ErrMemoRequired is returned when a manager action that needs a justification has none.
var ErrMemoRequired = errs.NewValueIsRequiredError("memo_text")

// MemoType classifies manager memos.
type MemoType string

const (
	MemoDeliveryBidOverride MemoType = "DELIVERY_BID_OVERRIDE"
	MemoPerformanceDemote   MemoType = "PERFORMANCE_DEMOTE"
	MemoPerformanceBonus    MemoType = "PERFORMANCE_BONUS"
	MemoTermination         MemoType = "TERMINATION"
)

// Memo is the written justification of a manager decision. ManagerID is nil for memos
// written by the system itself (firing after too many warnings).
type Memo struct {
	ID         kernel.UUID
	ManagerID  *kernel.UUID
	EmployeeID *kernel.UUID
	OrderID    *kernel.UUID
	Type       MemoType
	Content    string
	CreatedAt  time.Time
}

func NewMemo(
	memoType MemoType,
	managerID, employeeID, orderID *kernel.UUID,
	content string,
	at time.Time,
) (Memo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Memo{}, ErrMemoRequired
	}
	return Memo{
		ID:         kernel.NewUUID(),
		ManagerID:  managerID,
		EmployeeID: employeeID,
		OrderID:    orderID,
		Type:       memoType,
		Content:    content,
		CreatedAt:  at,
	}, nil
}
