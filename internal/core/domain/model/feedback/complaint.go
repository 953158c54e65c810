package feedback

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// ErrComplaintHandled is returned when resolving a complaint twice.
var ErrComplaintHandled = errs.NewStateConflictError("complaint", "already handled")

// ComplaintStatus is PENDING until a manager upholds or dismisses the complaint.
type ComplaintStatus string

const (
	ComplaintPending   ComplaintStatus = "PENDING"
	ComplaintUpheld    ComplaintStatus = "UPHELD"
	ComplaintDismissed ComplaintStatus = "DISMISSED"
)

// Decision is a manager's ruling on a complaint.
type Decision string

const (
	Uphold  Decision = "UPHOLD"
	Dismiss Decision = "DISMISS"
)

func (d Decision) Validate() error {
	if d != Uphold && d != Dismiss {
		return errs.NewValueIsInvalidErrorWithCause("decision", fmt.Errorf("%q is not UPHOLD or DISMISS", string(d)))
	}
	return nil
}

// Complaint is filed by one user against another.
type Complaint struct {
	ID            kernel.UUID
	FromID        kernel.UUID
	AgainstID     kernel.UUID
	TargetType    string
	ComplaintType string
	Description   string
	OrderID       *kernel.UUID
	Status        ComplaintStatus
	Weight        int
	ManagerID     *kernel.UUID
	DecisionNote  string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

func NewComplaint(
	fromID, againstID kernel.UUID,
	targetType, complaintType, description string,
	orderID *kernel.UUID,
	filerIsVIP bool,
	at time.Time,
) (*Complaint, error) {
	if err := errors.Join(fromID.Validate(), againstID.Validate()); err != nil {
		return nil, err
	}
	if fromID.IsEqual(againstID) {
		return nil, errs.NewValueIsInvalidErrorWithCause("against_user_id", errors.New("cannot complain about yourself"))
	}
	if strings.TrimSpace(complaintType) == "" {
		return nil, errs.NewValueIsRequiredError("complaint_type")
	}
	return &Complaint{
		ID:            kernel.NewUUID(),
		FromID:        fromID,
		AgainstID:     againstID,
		TargetType:    strings.ToUpper(strings.TrimSpace(targetType)),
		ComplaintType: complaintType,
		Description:   description,
		OrderID:       orderID,
		Status:        ComplaintPending,
		Weight:        WeightFor(filerIsVIP),
		CreatedAt:     at,
	}, nil
}

// Resolve records the manager's decision. Only pending complaints can be resolved.
func (c *Complaint) Resolve(managerID kernel.UUID, decision Decision, note string, at time.Time) error {
	if err := decision.Validate(); err != nil {
		return err
	}
	if c.Status != ComplaintPending {
		return ErrComplaintHandled
	}
	c.ManagerID = &managerID
	c.DecisionNote = note
	c.ResolvedAt = &at
	if decision == Uphold {
		c.Status = ComplaintUpheld
	} else {
		c.Status = ComplaintDismissed
	}
	return nil
}

// Compliment is positive feedback that offsets complaints in employee evaluation.
type Compliment struct {
	ID        kernel.UUID
	FromID    kernel.UUID
	ToID      kernel.UUID
	Comment   string
	OrderID   *kernel.UUID
	CreatedAt time.Time
}

func NewCompliment(fromID, toID kernel.UUID, comment string, orderID *kernel.UUID, at time.Time) (Compliment, error) {
	if err := errors.Join(fromID.Validate(), toID.Validate()); err != nil {
		return Compliment{}, err
	}
	return Compliment{
		ID:        kernel.NewUUID(),
		FromID:    fromID,
		ToID:      toID,
		Comment:   comment,
		OrderID:   orderID,
		CreatedAt: at,
	}, nil
}
