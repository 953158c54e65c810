package feedbackrepo

import (
	"context"
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRatingRepository implements ports.RatingRepository.
type GormRatingRepository struct {
	db *gorm.DB
}

func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

func (r *GormRatingRepository) Add(ctx context.Context, rating feedback.Rating) error {
	dto := RatingDTO{
		ID:             rating.ID.Bytes(),
		OrderID:        rating.OrderID.Bytes(),
		RaterID:        rating.RaterID.Bytes(),
		DeliveryID:     kernel.OptionalUUIDToGoogle(rating.DeliveryID),
		FoodRating:     rating.FoodRating,
		DeliveryRating: rating.DeliveryRating,
		Weight:         rating.Weight,
		Comment:        rating.Comment,
		CreatedAt:      rating.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormRatingRepository) ExistsForOrder(ctx context.Context, orderID, raterID kernel.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RatingDTO{}).
		Where("order_id = ? AND rater_id = ?", orderID.Bytes(), raterID.Bytes()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormRatingRepository) ListForDelivery(ctx context.Context, deliveryID kernel.UUID) ([]feedback.Rating, error) {
	var dtos []RatingDTO
	err := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return ratingsToDomain(dtos)
}

func (r *GormRatingRepository) ListForChef(ctx context.Context, chefID kernel.UUID) ([]feedback.Rating, error) {
	var dtos []RatingDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT r.*
		FROM ratings r
		WHERE EXISTS (
			SELECT 1 FROM order_items oi
			WHERE oi.order_id = r.order_id AND oi.chef_id = ?
		)
		ORDER BY r.created_at
	`, chefID.Bytes()).Scan(&dtos).Error
	if err != nil {
		return nil, err
	}
	return ratingsToDomain(dtos)
}

func (r *GormRatingRepository) ListByRater(ctx context.Context, raterID kernel.UUID) ([]feedback.Rating, error) {
	var dtos []RatingDTO
	err := r.db.WithContext(ctx).
		Where("rater_id = ?", raterID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return ratingsToDomain(dtos)
}

func (r *GormRatingRepository) FlagRater(ctx context.Context, raterID kernel.UUID, abuseCount int) error {
	dto := RaterFlagDTO{RaterID: raterID.Bytes(), AbuseCount: abuseCount, FlaggedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "rater_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"abuse_count"}),
		}).
		Create(&dto).Error
}

// GormComplaintRepository implements ports.ComplaintRepository.
type GormComplaintRepository struct {
	db *gorm.DB
}

func NewGormComplaintRepository(db *gorm.DB) *GormComplaintRepository {
	return &GormComplaintRepository{db: db}
}

func (r *GormComplaintRepository) Add(ctx context.Context, complaint *feedback.Complaint) error {
	dto := complaintFromDomain(complaint)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormComplaintRepository) Get(ctx context.Context, id kernel.UUID) (*feedback.Complaint, error) {
	var dto ComplaintDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("complaint", id.String())
		}
		return nil, err
	}
	return complaintToDomain(dto)
}

// Update only resolves pending complaints, so two managers cannot both rule on one.
func (r *GormComplaintRepository) Update(ctx context.Context, complaint *feedback.Complaint) error {
	dto := complaintFromDomain(complaint)
	result := r.db.WithContext(ctx).
		Model(&ComplaintDTO{}).
		Where("id = ? AND status = ?", dto.ID, string(feedback.ComplaintPending)).
		Updates(map[string]any{
			"status":        dto.Status,
			"manager_id":    dto.ManagerID,
			"decision_note": dto.DecisionNote,
			"resolved_at":   dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return feedback.ErrComplaintHandled
	}
	return nil
}

func (r *GormComplaintRepository) HasPendingAgainst(ctx context.Context, userID kernel.UUID) (bool, error) {
	n, err := r.countAgainst(ctx, userID, feedback.ComplaintPending)
	return n > 0, err
}

func (r *GormComplaintRepository) CountUpheldAgainst(ctx context.Context, userID kernel.UUID) (int, error) {
	return r.countAgainst(ctx, userID, feedback.ComplaintUpheld)
}

func (r *GormComplaintRepository) countAgainst(ctx context.Context, userID kernel.UUID, status feedback.ComplaintStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ComplaintDTO{}).
		Where("against_id = ? AND status = ?", userID.Bytes(), string(status)).
		Count(&count).Error
	return int(count), err
}

// GormComplimentRepository implements ports.ComplimentRepository.
type GormComplimentRepository struct {
	db *gorm.DB
}

func NewGormComplimentRepository(db *gorm.DB) *GormComplimentRepository {
	return &GormComplimentRepository{db: db}
}

func (r *GormComplimentRepository) Add(ctx context.Context, c feedback.Compliment) error {
	dto := ComplimentDTO{
		ID:        c.ID.Bytes(),
		FromID:    c.FromID.Bytes(),
		ToID:      c.ToID.Bytes(),
		Comment:   c.Comment,
		OrderID:   kernel.OptionalUUIDToGoogle(c.OrderID),
		CreatedAt: c.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormComplimentRepository) CountFor(ctx context.Context, userID kernel.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ComplimentDTO{}).Where("to_id = ?", userID.Bytes()).Count(&count).Error
	return int(count), err
}

// GormMemoRepository implements ports.MemoRepository.
type GormMemoRepository struct {
	db *gorm.DB
}

func NewGormMemoRepository(db *gorm.DB) *GormMemoRepository {
	return &GormMemoRepository{db: db}
}

func (r *GormMemoRepository) Add(ctx context.Context, m feedback.Memo) error {
	dto := MemoDTO{
		ID:         m.ID.Bytes(),
		ManagerID:  kernel.OptionalUUIDToGoogle(m.ManagerID),
		EmployeeID: kernel.OptionalUUIDToGoogle(m.EmployeeID),
		OrderID:    kernel.OptionalUUIDToGoogle(m.OrderID),
		MemoType:   string(m.Type),
		Content:    m.Content,
		CreatedAt:  m.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormMemoRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]feedback.Memo, error) {
	var dtos []MemoDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID.Bytes()).Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}
	memos := make([]feedback.Memo, 0, len(dtos))
	for _, dto := range dtos {
		m, err := memoToDomain(dto)
		if err != nil {
			return nil, err
		}
		memos = append(memos, m)
	}
	return memos, nil
}

// GormKnowledgeRepository implements ports.KnowledgeRepository.
type GormKnowledgeRepository struct {
	db *gorm.DB
}

func NewGormKnowledgeRepository(db *gorm.DB) *GormKnowledgeRepository {
	return &GormKnowledgeRepository{db: db}
}

// AddEntry stores a new entry. Authoring belongs to another service; it exists for
// seeding and tests.
func (r *GormKnowledgeRepository) AddEntry(ctx context.Context, e *feedback.KnowledgeEntry) error {
	dto := KnowledgeEntryDTO{
		ID:        e.ID.Bytes(),
		Question:  e.Question,
		AvgRating: e.AvgRating,
		FlagCount: e.FlagCount,
		IsActive:  e.IsActive,
		UpdatedAt: e.UpdatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormKnowledgeRepository) GetEntry(ctx context.Context, id kernel.UUID) (*feedback.KnowledgeEntry, error) {
	var dto KnowledgeEntryDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("knowledge entry", id.String())
		}
		return nil, err
	}
	entryID, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return &feedback.KnowledgeEntry{
		ID:        entryID,
		Question:  dto.Question,
		AvgRating: dto.AvgRating,
		FlagCount: dto.FlagCount,
		IsActive:  dto.IsActive,
		UpdatedAt: dto.UpdatedAt,
	}, nil
}

func (r *GormKnowledgeRepository) UpdateEntry(ctx context.Context, e *feedback.KnowledgeEntry) error {
	result := r.db.WithContext(ctx).
		Model(&KnowledgeEntryDTO{}).
		Where("id = ?", e.ID.Bytes()).
		Updates(map[string]any{
			"avg_rating": e.AvgRating,
			"flag_count": e.FlagCount,
			"is_active":  e.IsActive,
			"updated_at": e.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("knowledge entry", e.ID.String())
	}
	return nil
}

func (r *GormKnowledgeRepository) AddRating(ctx context.Context, kr feedback.KnowledgeRating) error {
	dto := KnowledgeRatingDTO{
		ID:        kr.ID.Bytes(),
		EntryID:   kr.EntryID.Bytes(),
		UserID:    kr.UserID.Bytes(),
		Value:     kr.Value,
		Weight:    kr.Weight,
		CreatedAt: kr.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormKnowledgeRepository) ListRatings(ctx context.Context, entryID kernel.UUID) ([]feedback.KnowledgeRating, error) {
	var dtos []KnowledgeRatingDTO
	if err := r.db.WithContext(ctx).Where("entry_id = ?", entryID.Bytes()).Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}
	out := make([]feedback.KnowledgeRating, 0, len(dtos))
	for _, dto := range dtos {
		id, err := kernel.UUIDFromGoogle(dto.ID)
		if err != nil {
			return nil, err
		}
		eid, err := kernel.UUIDFromGoogle(dto.EntryID)
		if err != nil {
			return nil, err
		}
		uid, err := kernel.UUIDFromGoogle(dto.UserID)
		if err != nil {
			return nil, err
		}
		out = append(out, feedback.KnowledgeRating{
			ID: id, EntryID: eid, UserID: uid, Value: dto.Value, Weight: dto.Weight, CreatedAt: dto.CreatedAt,
		})
	}
	return out, nil
}
