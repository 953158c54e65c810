package http

import (
	"net/http"

	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/application/usecases/queries"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var _ ServerInterface = &Server{}

// Handlers groups the use cases the HTTP API exposes.
type Handlers struct {
	PlaceOrder       *commands.PlaceOrderCommandHandler
	SubmitBid        *commands.SubmitBidCommandHandler
	CloseBidding     *commands.CloseBiddingCommandHandler
	AssignDelivery   *commands.AssignDeliveryCommandHandler
	UpdateStatus     *commands.UpdateOrderStatusCommandHandler
	RateOrder        *commands.SubmitOrderRatingCommandHandler
	AddDeposit       *commands.AddDepositCommandHandler
	CloseAccount     *commands.CloseCustomerAccountCommandHandler
	CheckVIP         *commands.CheckVIPUpgradeCommandHandler
	FileComplaint    *commands.FileComplaintCommandHandler
	ResolveComplaint *commands.ResolveComplaintCommandHandler
	FileCompliment   *commands.FileComplimentCommandHandler
	AddWarning       *commands.AddWarningCommandHandler
	Performance      *commands.ApplyDemotionOrBonusCommandHandler
	Evaluate         *commands.EvaluateEmployeeCommandHandler
	RateAnswer       *commands.RateAnswerCommandHandler
	AckInbox         *commands.AckInboxMessageCommandHandler

	ActiveOrders queries.GetActiveOrdersQueryHandler
	OrderDetails queries.GetOrderDetailsQueryHandler
	RankedBids   queries.GetRankedBidsQueryHandler
	Inbox        queries.ListManagerInboxQueryHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	caller, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body PlaceOrderRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	lines := make([]commands.CartLine, 0, len(body.Items))
	for _, line := range body.Items {
		itemID, err := kernel.UUIDFromGoogle(line.ItemID)
		if err != nil {
			return writeError(ctx, err)
		}
		lines = append(lines, commands.CartLine{ItemID: itemID, Quantity: line.Quantity})
	}

	cmd, err := commands.NewPlaceOrderCommand(caller, lines)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := s.h.PlaceOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, PlaceOrderResponse{OrderID: orderID.Bytes()})
}

// ListActiveOrders handles GET /api/v1/orders/active.
func (s *Server) ListActiveOrders(ctx echo.Context, params ListActiveOrdersParams) error {
	var status *order.Status
	if params.Status != nil {
		parsed, err := order.ParseStatus(*params.Status)
		if err != nil {
			return writeError(ctx, err)
		}
		status = &parsed
	}

	query, err := queries.NewGetActiveOrdersQuery(status)
	if err != nil {
		return writeError(ctx, err)
	}
	orders, err := s.h.ActiveOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]ActiveOrder, len(orders))
	for i, o := range orders {
		response[i] = ActiveOrder{
			ID:         o.ID.Bytes(),
			CustomerID: o.CustomerID.Bytes(),
			DeliveryID: kernel.OptionalUUIDToGoogle(o.DeliveryID),
			Status:     o.Status,
			CreatedAt:  o.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetOrderDetailsQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}

	details, err := s.h.OrderDetails.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := Order{
		ID:             details.ID.Bytes(),
		CustomerID:     details.CustomerID.Bytes(),
		DeliveryID:     kernel.OptionalUUIDToGoogle(details.DeliveryID),
		Status:         details.Status,
		TotalPrice:     details.TotalPrice.String(),
		DiscountRate:   details.DiscountRate,
		IsFreeDelivery: details.IsFreeDelivery,
		DeliveryFee:    details.DeliveryFee.String(),
		CreatedAt:      details.CreatedAt,
		PickedUpAt:     details.PickedUpAt,
		DeliveredAt:    details.DeliveredAt,
		Items:          make([]OrderLine, len(details.Items)),
	}
	for i, line := range details.Items {
		response.Items[i] = OrderLine{
			ItemID:    line.ItemID.Bytes(),
			ChefID:    line.ChefID.Bytes(),
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice.String(),
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetRankedBids handles GET /api/v1/orders/{orderId}/bids.
func (s *Server) GetRankedBids(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	query, err := queries.NewGetRankedBidsQuery(id)
	if err != nil {
		return writeError(ctx, err)
	}

	ranked, err := s.h.RankedBids.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := RankedBids{
		OrderID:     ranked.OrderID.Bytes(),
		Deadline:    ranked.Deadline,
		Closed:      ranked.Closed,
		CloseReason: ranked.CloseReason,
		Bids:        make([]RankedBid, len(ranked.Bids)),
	}
	for i, bid := range ranked.Bids {
		response.Bids[i] = RankedBid{
			BidID:      bid.BidID.Bytes(),
			DeliveryID: bid.DeliveryID.Bytes(),
			Amount:     bid.Amount.String(),
			ETAMinutes: bid.ETAMinutes,
			CreatedAt:  bid.CreatedAt,
			IsSelected: bid.IsSelected,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SubmitBid handles POST /api/v1/orders/{orderId}/bids.
func (s *Server) SubmitBid(ctx echo.Context, orderID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body SubmitBidRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	amount, err := kernel.MoneyFromString(body.Amount)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSubmitBidCommand(caller, id, amount, body.ETAMinutes)
	if err != nil {
		return writeError(ctx, err)
	}
	result, err := s.h.SubmitBid.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, SubmitBidResponse{
		BidID:        result.BidID.Bytes(),
		BidCount:     result.BidCount,
		WindowClosed: result.ClosedWindow,
	})
}

// CloseBidding handles POST /api/v1/orders/{orderId}/bidding/close. Closing an already
// closed window is not an error; the response says whether this call closed it.
func (s *Server) CloseBidding(ctx echo.Context, orderID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewManualCloseBiddingCommand(caller, id)
	if err != nil {
		return writeError(ctx, err)
	}
	closed, err := s.h.CloseBidding.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CloseBiddingResponse{Closed: closed})
}

// AssignDelivery handles POST /api/v1/orders/{orderId}/assignment.
func (s *Server) AssignDelivery(ctx echo.Context, orderID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body AssignDeliveryRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	bidID, err := kernel.OptionalUUIDFromGoogle(body.BidID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAssignDeliveryCommand(caller, id, bidID, body.Memo)
	if err != nil {
		return writeError(ctx, err)
	}
	deliveryID, err := s.h.AssignDelivery.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, AssignDeliveryResponse{DeliveryID: deliveryID.Bytes()})
}

// UpdateOrderStatus handles POST /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body UpdateStatusRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(caller, id, status)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.UpdateStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RateOrder handles POST /api/v1/orders/{orderId}/rating.
func (s *Server) RateOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body RateOrderRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewSubmitOrderRatingCommand(caller, id, body.FoodRating, body.DeliveryRating, body.Comment)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.RateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AddDeposit handles POST /api/v1/deposits.
func (s *Server) AddDeposit(ctx echo.Context) error {
	caller, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body DepositRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	amount, err := kernel.MoneyFromString(body.Amount)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAddDepositCommand(caller, amount)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.AddDeposit.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CloseCustomerAccount handles POST /api/v1/customers/{customerId}/close.
func (s *Server) CloseCustomerAccount(ctx echo.Context, customerID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, customerID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCloseCustomerAccountCommand(caller, id)
	if err != nil {
		return writeError(ctx, err)
	}
	refunded, err := s.h.CloseAccount.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, CloseAccountResponse{Refunded: refunded.String()})
}

// CheckVIPUpgrade handles POST /api/v1/customers/{customerId}/vip-check.
func (s *Server) CheckVIPUpgrade(ctx echo.Context, customerID openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(customerID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewCheckVIPUpgradeCommand(id)
	if err != nil {
		return writeError(ctx, err)
	}
	upgraded, err := s.h.CheckVIP.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, VIPCheckResponse{Upgraded: upgraded})
}

// FileComplaint handles POST /api/v1/complaints.
func (s *Server) FileComplaint(ctx echo.Context) error {
	caller, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body FileComplaintRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	againstID, err := kernel.UUIDFromGoogle(body.AgainstID)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := kernel.OptionalUUIDFromGoogle(body.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewFileComplaintCommand(caller, againstID, body.TargetType, body.ComplaintType,
		body.Description, orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	complaintID, err := s.h.FileComplaint.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: complaintID.Bytes()})
}

// ResolveComplaint handles POST /api/v1/complaints/{complaintId}/resolution.
func (s *Server) ResolveComplaint(ctx echo.Context, complaintID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, complaintID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body ResolveComplaintRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewResolveComplaintCommand(caller, id, body.Decision, body.Note, body.IsCritical)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.ResolveComplaint.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FileCompliment handles POST /api/v1/compliments.
func (s *Server) FileCompliment(ctx echo.Context) error {
	caller, err := callerID(ctx)
	if err != nil {
		return writeError(ctx, err)
	}

	var body FileComplimentRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}
	toID, err := kernel.UUIDFromGoogle(body.ToID)
	if err != nil {
		return writeError(ctx, err)
	}
	orderID, err := kernel.OptionalUUIDFromGoogle(body.OrderID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewFileComplimentCommand(caller, toID, body.Comment, orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	complimentID, err := s.h.FileCompliment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreatedResponse{ID: complimentID.Bytes()})
}

// AddWarning handles POST /api/v1/users/{userId}/warnings.
func (s *Server) AddWarning(ctx echo.Context, userID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, userID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body AddWarningRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAddWarningCommand(caller, id, body.Reason)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.AddWarning.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ApplyPerformanceAction handles POST /api/v1/employees/{employeeId}/performance.
func (s *Server) ApplyPerformanceAction(ctx echo.Context, employeeID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, employeeID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body PerformanceRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewApplyDemotionOrBonusCommand(caller, id, body.Action, body.Memo)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.Performance.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// EvaluateEmployee handles POST /api/v1/employees/{employeeId}/evaluation.
func (s *Server) EvaluateEmployee(ctx echo.Context, employeeID openapi_types.UUID) error {
	id, err := kernel.UUIDFromGoogle(employeeID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewEvaluateEmployeeCommand(id)
	if err != nil {
		return writeError(ctx, err)
	}
	evaluation, err := s.h.Evaluate.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, Evaluation{
		Skipped:       evaluation.Skipped,
		Average:       evaluation.Average,
		Complaints:    evaluation.Complaints,
		Compliments:   evaluation.Compliments,
		NetComplaints: evaluation.NetComplaints,
		Demote:        evaluation.Demote,
		Bonus:         evaluation.Bonus,
	})
}

// RateAnswer handles POST /api/v1/knowledge/{entryId}/ratings.
func (s *Server) RateAnswer(ctx echo.Context, entryID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, entryID)
	if err != nil {
		return writeError(ctx, err)
	}

	var body RateAnswerRequest
	if err := bindAndValidate(ctx, &body); err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewRateAnswerCommand(caller, id, *body.Rating)
	if err != nil {
		return writeError(ctx, err)
	}
	entry, err := s.h.RateAnswer.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, KnowledgeEntry{
		ID:        entry.ID.Bytes(),
		AvgRating: entry.AvgRating,
		FlagCount: entry.FlagCount,
		IsActive:  entry.IsActive,
	})
}

// ListInbox handles GET /api/v1/inbox.
func (s *Server) ListInbox(ctx echo.Context, params ListInboxParams) error {
	includeAcked := params.IncludeAcked != nil && *params.IncludeAcked
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListManagerInboxQuery(includeAcked, limit)
	if err != nil {
		return writeError(ctx, err)
	}
	entries, err := s.h.Inbox.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]InboxMessage, len(entries))
	for i, entry := range entries {
		response[i] = InboxMessage{
			ID:        entry.ID.Bytes(),
			Kind:      entry.Kind,
			SubjectID: entry.SubjectID.Bytes(),
			Body:      entry.Body,
			CreatedAt: entry.CreatedAt,
			AckedAt:   entry.AckedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AckInboxMessage handles POST /api/v1/inbox/{messageId}/ack.
func (s *Server) AckInboxMessage(ctx echo.Context, messageID openapi_types.UUID) error {
	caller, id, err := callerAnd(ctx, messageID)
	if err != nil {
		return writeError(ctx, err)
	}

	cmd, err := commands.NewAckInboxMessageCommand(caller, id)
	if err != nil {
		return writeError(ctx, err)
	}
	if err := s.h.AckInbox.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// callerAnd resolves the authenticated caller together with a path id.
func callerAnd(ctx echo.Context, pathID openapi_types.UUID) (kernel.UUID, kernel.UUID, error) {
	caller, err := callerID(ctx)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	id, err := kernel.UUIDFromGoogle(pathID)
	if err != nil {
		return kernel.UUID{}, kernel.UUID{}, err
	}
	return caller, id, nil
}
