// Package feedbackrepo persists ratings, rater abuse flags, complaints, compliments,
// manager memos and the knowledge base.
package feedbackrepo

import (
	"time"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type RatingDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_rating_order_rater;not null"`
	RaterID        uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_rating_order_rater;index;not null"`
	DeliveryID     *uuid.UUID `gorm:"type:uuid;index"`
	FoodRating     int        `gorm:"not null"`
	DeliveryRating int        `gorm:"not null"`
	Weight         int        `gorm:"not null"`
	Comment        string     `gorm:"type:text"`
	CreatedAt      time.Time  `gorm:"not null"`
}

func (RatingDTO) TableName() string {
	return "ratings"
}

type RaterFlagDTO struct {
	RaterID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	AbuseCount int       `gorm:"not null"`
	FlaggedAt  time.Time `gorm:"not null"`
}

func (RaterFlagDTO) TableName() string {
	return "rater_flags"
}

type ComplaintDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FromID        uuid.UUID  `gorm:"type:uuid;index;not null"`
	AgainstID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	TargetType    string     `gorm:"type:varchar(32)"`
	ComplaintType string     `gorm:"type:varchar(64);not null"`
	Description   string     `gorm:"type:text"`
	OrderID       *uuid.UUID `gorm:"type:uuid"`
	Status        string     `gorm:"type:varchar(16);index;not null"`
	Weight        int        `gorm:"not null"`
	ManagerID     *uuid.UUID `gorm:"type:uuid"`
	DecisionNote  string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"not null"`
	ResolvedAt    *time.Time
}

func (ComplaintDTO) TableName() string {
	return "complaints"
}

type ComplimentDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FromID    uuid.UUID  `gorm:"type:uuid;not null"`
	ToID      uuid.UUID  `gorm:"type:uuid;index;not null"`
	Comment   string     `gorm:"type:text"`
	OrderID   *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null"`
}

func (ComplimentDTO) TableName() string {
	return "compliments"
}

type MemoDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ManagerID  *uuid.UUID `gorm:"type:uuid"`
	EmployeeID *uuid.UUID `gorm:"type:uuid;index"`
	OrderID    *uuid.UUID `gorm:"type:uuid;index"`
	MemoType   string     `gorm:"type:varchar(32);not null"`
	Content    string     `gorm:"type:text;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
}

func (MemoDTO) TableName() string {
	return "manager_memos"
}

type KnowledgeEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Question  string    `gorm:"type:text;not null"`
	Answer    string    `gorm:"type:text"`
	AvgRating float64   `gorm:"not null;default:0"`
	FlagCount int       `gorm:"not null;default:0"`
	IsActive  bool      `gorm:"not null;default:true"`
	UpdatedAt time.Time
}

func (KnowledgeEntryDTO) TableName() string {
	return "knowledge_entries"
}

type KnowledgeRatingDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EntryID   uuid.UUID `gorm:"type:uuid;index;not null"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Value     int       `gorm:"not null"`
	Weight    int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (KnowledgeRatingDTO) TableName() string {
	return "knowledge_ratings"
}

func ratingToDomain(dto RatingDTO) (feedback.Rating, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return feedback.Rating{}, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return feedback.Rating{}, err
	}
	raterID, err := kernel.UUIDFromGoogle(dto.RaterID)
	if err != nil {
		return feedback.Rating{}, err
	}
	deliveryID, err := kernel.OptionalUUIDFromGoogle(dto.DeliveryID)
	if err != nil {
		return feedback.Rating{}, err
	}
	return feedback.Rating{
		ID:             id,
		OrderID:        orderID,
		RaterID:        raterID,
		DeliveryID:     deliveryID,
		FoodRating:     dto.FoodRating,
		DeliveryRating: dto.DeliveryRating,
		Weight:         dto.Weight,
		Comment:        dto.Comment,
		CreatedAt:      dto.CreatedAt,
	}, nil
}

func ratingsToDomain(dtos []RatingDTO) ([]feedback.Rating, error) {
	out := make([]feedback.Rating, 0, len(dtos))
	for _, dto := range dtos {
		r, err := ratingToDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func complaintFromDomain(c *feedback.Complaint) ComplaintDTO {
	return ComplaintDTO{
		ID:            c.ID.Bytes(),
		FromID:        c.FromID.Bytes(),
		AgainstID:     c.AgainstID.Bytes(),
		TargetType:    c.TargetType,
		ComplaintType: c.ComplaintType,
		Description:   c.Description,
		OrderID:       kernel.OptionalUUIDToGoogle(c.OrderID),
		Status:        string(c.Status),
		Weight:        c.Weight,
		ManagerID:     kernel.OptionalUUIDToGoogle(c.ManagerID),
		DecisionNote:  c.DecisionNote,
		CreatedAt:     c.CreatedAt.UTC(),
		ResolvedAt:    c.ResolvedAt,
	}
}

func complaintToDomain(dto ComplaintDTO) (*feedback.Complaint, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	fromID, err := kernel.UUIDFromGoogle(dto.FromID)
	if err != nil {
		return nil, err
	}
	againstID, err := kernel.UUIDFromGoogle(dto.AgainstID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.OptionalUUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	managerID, err := kernel.OptionalUUIDFromGoogle(dto.ManagerID)
	if err != nil {
		return nil, err
	}
	return &feedback.Complaint{
		ID:            id,
		FromID:        fromID,
		AgainstID:     againstID,
		TargetType:    dto.TargetType,
		ComplaintType: dto.ComplaintType,
		Description:   dto.Description,
		OrderID:       orderID,
		Status:        feedback.ComplaintStatus(dto.Status),
		Weight:        dto.Weight,
		ManagerID:     managerID,
		DecisionNote:  dto.DecisionNote,
		CreatedAt:     dto.CreatedAt,
		ResolvedAt:    dto.ResolvedAt,
	}, nil
}

func memoToDomain(dto MemoDTO) (feedback.Memo, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return feedback.Memo{}, err
	}
	managerID, err := kernel.OptionalUUIDFromGoogle(dto.ManagerID)
	if err != nil {
		return feedback.Memo{}, err
	}
	employeeID, err := kernel.OptionalUUIDFromGoogle(dto.EmployeeID)
	if err != nil {
		return feedback.Memo{}, err
	}
	orderID, err := kernel.OptionalUUIDFromGoogle(dto.OrderID)
	if err != nil {
		return feedback.Memo{}, err
	}
	return feedback.Memo{
		ID:         id,
		ManagerID:  managerID,
		EmployeeID: employeeID,
		OrderID:    orderID,
		Type:       feedback.MemoType(dto.MemoType),
		Content:    dto.Content,
		CreatedAt:  dto.CreatedAt,
	}, nil
}
