// Package reputation keeps the rating statistics of chefs, delivery workers and
// knowledge-base entries current, detects rating abuse and evaluates employees. It never
// disciplines anyone itself: it returns effects for the discipline engine to apply.
package reputation

import (
	"context"
	"fmt"
	"log/slog"

	"auctiondelivery/internal/core/domain/model/account"
	effects "auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
)

// Workspace is the part of a unit of work the engine reads and writes.
type Workspace interface {
	RatingRepository() ports.RatingRepository
	EmployeeRepository() ports.EmployeeRepository
	ComplaintRepository() ports.ComplaintRepository
	ComplimentRepository() ports.ComplimentRepository
	KnowledgeRepository() ports.KnowledgeRepository
	ManagerInbox() ports.ManagerInbox
}

type Engine struct {
	aggregator services.RatingAggregator
	evaluator  services.EmployeeEvaluator
	clock      ports.Clock
	logger     *slog.Logger
}

func NewEngine(aggregator services.RatingAggregator, clock ports.Clock, logger *slog.Logger) (*Engine, error) {
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		aggregator: aggregator,
		evaluator:  services.NewEmployeeEvaluator(),
		clock:      clock,
		logger:     logger.With("component", "reputation"),
	}, nil
}

// Result carries what a recomputation produced for the caller to act on.
type Result struct {
	Effects       []effects.Effect
	Notifications []ports.Notification
	Evaluation    services.Evaluation
}

// UpdateEmployeeStats recomputes the weighted averages of every chef in the order and of
// its delivery worker, checks the rater for abuse, and evaluates the delivery worker.
func (e *Engine) UpdateEmployeeStats(ctx context.Context, ws Workspace, o *order.Order, raterID kernel.UUID) (Result, error) {
	var res Result
	now := e.clock.Now()

	for _, chefID := range o.ChefIDs() {
		ratings, err := ws.RatingRepository().ListForChef(ctx, chefID)
		if err != nil {
			return res, err
		}
		if err = e.storeStats(ctx, ws, chefID, services.FoodScores(ratings)); err != nil {
			return res, err
		}
	}

	if deliveryID := o.DeliveryID(); deliveryID != nil {
		ratings, err := ws.RatingRepository().ListForDelivery(ctx, *deliveryID)
		if err != nil {
			return res, err
		}
		if err = e.storeStats(ctx, ws, *deliveryID, services.DeliveryScores(ratings)); err != nil {
			return res, err
		}
	}

	abuse, err := e.checkAbuse(ctx, ws, raterID)
	if err != nil {
		return res, err
	}
	res.Notifications = append(res.Notifications, abuse...)

	if deliveryID := o.DeliveryID(); deliveryID != nil {
		evaluated, err := e.EvaluateEmployee(ctx, ws, *deliveryID)
		if err != nil {
			return res, err
		}
		res.Effects = evaluated.Effects
		res.Evaluation = evaluated.Evaluation
	}

	e.logger.InfoContext(ctx, "employee stats updated",
		"order_id", o.ID().String(), "chefs", len(o.ChefIDs()), "at", now)
	return res, nil
}

func (e *Engine) storeStats(ctx context.Context, ws Workspace, employeeID kernel.UUID, scores []services.WeightedScore) error {
	employee, err := ws.EmployeeRepository().Get(ctx, employeeID)
	if err != nil {
		return err
	}
	agg := e.aggregator.WeightedAverage(scores)
	employee.UpdateRatingStats(agg.Average, agg.Count, e.clock.Now())
	return ws.EmployeeRepository().Update(ctx, employee)
}

// checkAbuse flags the rater when their double-one ratings exceed the threshold. The
// flag is a signal for managers; nothing is enforced automatically.
func (e *Engine) checkAbuse(ctx context.Context, ws Workspace, raterID kernel.UUID) ([]ports.Notification, error) {
	ratings, err := ws.RatingRepository().ListByRater(ctx, raterID)
	if err != nil {
		return nil, err
	}
	count := e.aggregator.AbuseCount(ratings)
	if !e.aggregator.IsAbuser(count) {
		return nil, nil
	}
	if err = ws.RatingRepository().FlagRater(ctx, raterID, count); err != nil {
		return nil, err
	}

	body := map[string]any{"rater_id": raterID.String(), "abusive_ratings": count}
	msg := ports.NewInboxMessage(ports.InboxAbuseFlag, raterID, body, e.clock.Now())
	if err = ws.ManagerInbox().Post(ctx, msg); err != nil {
		return nil, err
	}
	e.logger.WarnContext(ctx, "rater flagged for abuse", "rater_id", raterID.String(), "count", count)
	return []ports.Notification{{Audience: ports.AudienceManagers, Event: "rating_abuse", Payload: body}}, nil
}

// EvaluateEmployee reviews an employee from a fresh read of their ratings, upheld
// complaints and compliments. Each trigger that holds yields one recommendation.
func (e *Engine) EvaluateEmployee(ctx context.Context, ws Workspace, employeeID kernel.UUID) (Result, error) {
	employee, err := ws.EmployeeRepository().Get(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}
	if employee.IsFired() {
		return Result{Evaluation: services.Evaluation{Skipped: true}}, nil
	}

	var scores []services.WeightedScore
	switch employee.Role() {
	case account.RoleChef:
		ratings, err := ws.RatingRepository().ListForChef(ctx, employeeID)
		if err != nil {
			return Result{}, err
		}
		scores = services.FoodScores(ratings)
	default:
		ratings, err := ws.RatingRepository().ListForDelivery(ctx, employeeID)
		if err != nil {
			return Result{}, err
		}
		scores = services.DeliveryScores(ratings)
	}

	upheld, err := ws.ComplaintRepository().CountUpheldAgainst(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}
	compliments, err := ws.ComplimentRepository().CountFor(ctx, employeeID)
	if err != nil {
		return Result{}, err
	}

	ev := e.evaluator.Evaluate(e.aggregator.WeightedAverage(scores), upheld, compliments)
	res := Result{Evaluation: ev}
	if ev.Skipped {
		return res, nil
	}
	summary := fmt.Sprintf("avg %.2f, upheld complaints %d, compliments %d, net complaints %d",
		ev.Average, ev.Complaints, ev.Compliments, ev.NetComplaints)
	if ev.Demote {
		res.Effects = append(res.Effects, effects.RecommendAction{EmployeeID: employeeID, Action: effects.Demote, Summary: summary})
	}
	if ev.Bonus {
		res.Effects = append(res.Effects, effects.RecommendAction{EmployeeID: employeeID, Action: effects.Bonus, Summary: summary})
	}
	return res, nil
}

// RateAnswer stores a knowledge-base rating and recomputes the entry. A zero rating
// deactivates the entry regardless of its average.
func (e *Engine) RateAnswer(ctx context.Context, ws Workspace, rating feedback.KnowledgeRating) (*feedback.KnowledgeEntry, error) {
	repo := ws.KnowledgeRepository()
	entry, err := repo.GetEntry(ctx, rating.EntryID)
	if err != nil {
		return nil, err
	}
	if err = repo.AddRating(ctx, rating); err != nil {
		return nil, err
	}
	ratings, err := repo.ListRatings(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	scores, flags := services.KnowledgeScores(ratings)
	agg := e.aggregator.WeightedAverage(scores)
	entry.ApplyRecomputation(agg.Average, flags, rating.Value, e.clock.Now())
	if err = repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}
	if !entry.IsActive {
		e.logger.InfoContext(ctx, "knowledge entry deactivated", "entry_id", entry.ID.String())
	}
	return entry, nil
}
