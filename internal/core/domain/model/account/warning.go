package account

import (
	"fmt"
	"strings"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// WarningSource names what produced a warning.
type WarningSource string

const (
	WarningFromOrder     WarningSource = "ORDER"
	WarningFromComplaint WarningSource = "COMPLAINT"
	WarningFromManager   WarningSource = "MANAGER"
)

func (s WarningSource) Validate() error {
	switch s {
	case WarningFromOrder, WarningFromComplaint, WarningFromManager:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("source", fmt.Errorf("%q is not a warning source", string(s)))
	}
}

// Warning is an append-only audit record; the count on User is the discipline signal.
type Warning struct {
	ID        kernel.UUID
	UserID    kernel.UUID
	Source    WarningSource
	Reason    string
	CreatedAt time.Time
}

func NewWarning(userID kernel.UUID, source WarningSource, reason string, at time.Time) (Warning, error) {
	if err := userID.Validate(); err != nil {
		return Warning{}, err
	}
	if err := source.Validate(); err != nil {
		return Warning{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return Warning{}, errs.NewValueIsRequiredError("reason")
	}
	return Warning{ID: kernel.NewUUID(), UserID: userID, Source: source, Reason: reason, CreatedAt: at}, nil
}

// BlacklistEntry bars a contact from registering again.
type BlacklistEntry struct {
	ID        kernel.UUID
	Email     string
	Phone     string
	CreatedAt time.Time
}

func NewBlacklistEntry(email, phone string, at time.Time) (BlacklistEntry, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return BlacklistEntry{}, errs.NewValueIsRequiredError("email or phone")
	}
	return BlacklistEntry{ID: kernel.NewUUID(), Email: email, Phone: phone, CreatedAt: at}, nil
}
