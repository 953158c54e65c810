package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type CartLine struct {
	ItemID   openapi_types.UUID `json:"item_id" validate:"required"`
	Quantity int                `json:"quantity" validate:"gte=1"`
}

type PlaceOrderRequest struct {
	Items []CartLine `json:"items" validate:"required,min=1,dive"`
}

type PlaceOrderResponse struct {
	OrderID openapi_types.UUID `json:"order_id"`
}

type OrderLine struct {
	ItemID    openapi_types.UUID `json:"item_id"`
	ChefID    openapi_types.UUID `json:"chef_id"`
	Quantity  int                `json:"quantity"`
	UnitPrice string             `json:"unit_price"`
}

type Order struct {
	ID             openapi_types.UUID  `json:"id"`
	CustomerID     openapi_types.UUID  `json:"customer_id"`
	DeliveryID     *openapi_types.UUID `json:"delivery_id,omitempty"`
	Status         string              `json:"status"`
	TotalPrice     string              `json:"total_price"`
	DiscountRate   string              `json:"discount_rate"`
	IsFreeDelivery bool                `json:"is_free_delivery"`
	DeliveryFee    string              `json:"delivery_fee"`
	CreatedAt      time.Time           `json:"created_at"`
	PickedUpAt     *time.Time          `json:"picked_up_at,omitempty"`
	DeliveredAt    *time.Time          `json:"delivered_at,omitempty"`
	Items          []OrderLine         `json:"items"`
}

type SubmitBidRequest struct {
	Amount     string `json:"amount" validate:"required,numeric"`
	ETAMinutes int    `json:"eta_minutes" validate:"gte=1"`
}

type SubmitBidResponse struct {
	BidID        openapi_types.UUID `json:"bid_id"`
	BidCount     int                `json:"bid_count"`
	WindowClosed bool               `json:"window_closed"`
}

type RankedBid struct {
	BidID      openapi_types.UUID `json:"bid_id"`
	DeliveryID openapi_types.UUID `json:"delivery_id"`
	Amount     string             `json:"amount"`
	ETAMinutes int                `json:"eta_minutes"`
	CreatedAt  time.Time          `json:"created_at"`
	IsSelected bool               `json:"is_selected"`
}

type RankedBids struct {
	OrderID     openapi_types.UUID `json:"order_id"`
	Deadline    time.Time          `json:"deadline"`
	Closed      bool               `json:"closed"`
	CloseReason string             `json:"close_reason,omitempty"`
	Bids        []RankedBid        `json:"bids"`
}

type CloseBiddingResponse struct {
	Closed bool `json:"closed"`
}

type AssignDeliveryRequest struct {
	BidID *openapi_types.UUID `json:"bid_id,omitempty"`
	Memo  string              `json:"memo"`
}

type AssignDeliveryResponse struct {
	DeliveryID openapi_types.UUID `json:"delivery_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RateOrderRequest struct {
	FoodRating     int    `json:"food_rating" validate:"gte=1,lte=5"`
	DeliveryRating int    `json:"delivery_rating" validate:"gte=1,lte=5"`
	Comment        string `json:"comment"`
}

type DepositRequest struct {
	Amount string `json:"amount" validate:"required,numeric"`
}

type CloseAccountResponse struct {
	Refunded string `json:"refunded"`
}

type VIPCheckResponse struct {
	Upgraded bool `json:"upgraded"`
}

type FileComplaintRequest struct {
	AgainstID     openapi_types.UUID  `json:"against_id" validate:"required"`
	TargetType    string              `json:"target_type"`
	ComplaintType string              `json:"complaint_type" validate:"required"`
	Description   string              `json:"description"`
	OrderID       *openapi_types.UUID `json:"order_id,omitempty"`
}

type ResolveComplaintRequest struct {
	Decision   string `json:"decision" validate:"required,oneof=UPHOLD DISMISS"`
	Note       string `json:"note"`
	IsCritical bool   `json:"is_critical"`
}

type FileComplimentRequest struct {
	ToID    openapi_types.UUID  `json:"to_id" validate:"required"`
	Comment string              `json:"comment"`
	OrderID *openapi_types.UUID `json:"order_id,omitempty"`
}

type CreatedResponse struct {
	ID openapi_types.UUID `json:"id"`
}

type AddWarningRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type PerformanceRequest struct {
	Action string `json:"action" validate:"required,oneof=DEMOTE BONUS"`
	Memo   string `json:"memo" validate:"required"`
}

type Evaluation struct {
	Skipped       bool    `json:"skipped"`
	Average       float64 `json:"average"`
	Complaints    int     `json:"complaints"`
	Compliments   int     `json:"compliments"`
	NetComplaints int     `json:"net_complaints"`
	Demote        bool    `json:"demote"`
	Bonus         bool    `json:"bonus"`
}

type RateAnswerRequest struct {
	Rating *int `json:"rating" validate:"required,gte=0,lte=5"`
}

type KnowledgeEntry struct {
	ID        openapi_types.UUID `json:"id"`
	AvgRating float64            `json:"avg_rating"`
	FlagCount int                `json:"flag_count"`
	IsActive  bool               `json:"is_active"`
}

type InboxMessage struct {
	ID        openapi_types.UUID `json:"id"`
	Kind      string             `json:"kind"`
	SubjectID openapi_types.UUID `json:"subject_id"`
	Body      map[string]any     `json:"body"`
	CreatedAt time.Time          `json:"created_at"`
	AckedAt   *time.Time         `json:"acked_at,omitempty"`
}

type ActiveOrder struct {
	ID         openapi_types.UUID  `json:"id"`
	CustomerID openapi_types.UUID  `json:"customer_id"`
	DeliveryID *openapi_types.UUID `json:"delivery_id,omitempty"`
	Status     string              `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

type ListActiveOrdersParams struct {
	Status *string `form:"status" json:"status,omitempty"`
}

type ListInboxParams struct {
	IncludeAcked *bool `form:"include_acked" json:"include_acked,omitempty"`
	Limit        *int  `form:"limit" json:"limit,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /api/v1/orders)
	PlaceOrder(ctx echo.Context) error
	// (GET /api/v1/orders/active)
	ListActiveOrders(ctx echo.Context, params ListActiveOrdersParams) error
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /api/v1/orders/{orderId}/bids)
	GetRankedBids(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/bids)
	SubmitBid(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/bidding/close)
	CloseBidding(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/assignment)
	AssignDelivery(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/status)
	UpdateOrderStatus(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/orders/{orderId}/rating)
	RateOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /api/v1/deposits)
	AddDeposit(ctx echo.Context) error
	// (POST /api/v1/customers/{customerId}/close)
	CloseCustomerAccount(ctx echo.Context, customerID openapi_types.UUID) error
	// (POST /api/v1/customers/{customerId}/vip-check)
	CheckVIPUpgrade(ctx echo.Context, customerID openapi_types.UUID) error
	// (POST /api/v1/complaints)
	FileComplaint(ctx echo.Context) error
	// (POST /api/v1/complaints/{complaintId}/resolution)
	ResolveComplaint(ctx echo.Context, complaintID openapi_types.UUID) error
	// (POST /api/v1/compliments)
	FileCompliment(ctx echo.Context) error
	// (POST /api/v1/users/{userId}/warnings)
	AddWarning(ctx echo.Context, userID openapi_types.UUID) error
	// (POST /api/v1/employees/{employeeId}/performance)
	ApplyPerformanceAction(ctx echo.Context, employeeID openapi_types.UUID) error
	// (POST /api/v1/employees/{employeeId}/evaluation)
	EvaluateEmployee(ctx echo.Context, employeeID openapi_types.UUID) error
	// (POST /api/v1/knowledge/{entryId}/ratings)
	RateAnswer(ctx echo.Context, entryID openapi_types.UUID) error
	// (GET /api/v1/inbox)
	ListInbox(ctx echo.Context, params ListInboxParams) error
	// (POST /api/v1/inbox/{messageId}/ack)
	AckInboxMessage(ctx echo.Context, messageID openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindUUIDParam(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

func (w *ServerInterfaceWrapper) withUUID(name string, call func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id, err := bindUUIDParam(ctx, name)
		if err != nil {
			return err
		}
		return call(ctx, id)
	}
}

// ListActiveOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListActiveOrders(ctx echo.Context) error {
	var params ListActiveOrdersParams

	err := runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	return w.Handler.ListActiveOrders(ctx, params)
}

// ListInbox converts echo context to params.
func (w *ServerInterfaceWrapper) ListInbox(ctx echo.Context) error {
	var params ListInboxParams

	err := runtime.BindQueryParameter("form", true, false, "include_acked", ctx.QueryParams(), &params.IncludeAcked)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter include_acked: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.ListInbox(ctx, params)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/api/v1/orders", si.PlaceOrder)
	router.GET(baseURL+"/api/v1/orders/active", w.ListActiveOrders)
	router.GET(baseURL+"/api/v1/orders/:orderId", w.withUUID("orderId", si.GetOrder))
	router.GET(baseURL+"/api/v1/orders/:orderId/bids", w.withUUID("orderId", si.GetRankedBids))
	router.POST(baseURL+"/api/v1/orders/:orderId/bids", w.withUUID("orderId", si.SubmitBid))
	router.POST(baseURL+"/api/v1/orders/:orderId/bidding/close", w.withUUID("orderId", si.CloseBidding))
	router.POST(baseURL+"/api/v1/orders/:orderId/assignment", w.withUUID("orderId", si.AssignDelivery))
	router.POST(baseURL+"/api/v1/orders/:orderId/status", w.withUUID("orderId", si.UpdateOrderStatus))
	router.POST(baseURL+"/api/v1/orders/:orderId/rating", w.withUUID("orderId", si.RateOrder))
	router.POST(baseURL+"/api/v1/deposits", si.AddDeposit)
	router.POST(baseURL+"/api/v1/customers/:customerId/close", w.withUUID("customerId", si.CloseCustomerAccount))
	router.POST(baseURL+"/api/v1/customers/:customerId/vip-check", w.withUUID("customerId", si.CheckVIPUpgrade))
	router.POST(baseURL+"/api/v1/complaints", si.FileComplaint)
	router.POST(baseURL+"/api/v1/complaints/:complaintId/resolution", w.withUUID("complaintId", si.ResolveComplaint))
	router.POST(baseURL+"/api/v1/compliments", si.FileCompliment)
	router.POST(baseURL+"/api/v1/users/:userId/warnings", w.withUUID("userId", si.AddWarning))
	router.POST(baseURL+"/api/v1/employees/:employeeId/performance", w.withUUID("employeeId", si.ApplyPerformanceAction))
	router.POST(baseURL+"/api/v1/employees/:employeeId/evaluation", w.withUUID("employeeId", si.EvaluateEmployee))
	router.POST(baseURL+"/api/v1/knowledge/:entryId/ratings", w.withUUID("entryId", si.RateAnswer))
	router.GET(baseURL+"/api/v1/inbox", w.ListInbox)
	router.POST(baseURL+"/api/v1/inbox/:messageId/ack", w.withUUID("messageId", si.AckInboxMessage))
}
