package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// Server exposes the fulfillment API over HTTP. It translates requests
// into commands and queries and maps domain errors onto status codes.
type Server struct {
	placeOrderHandler        commands.PlaceOrderCommandHandler
	stepHandler              commands.OrderStepCommandHandler
	respondAssignmentHandler commands.RespondAssignmentCommandHandler

	getOrderHandler    queries.GetOrderQueryHandler
	getAwaitingHandler queries.GetAwaitingAssignmentQueryHandler
}

// NewServer creates the HTTP server facade.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	stepHandler commands.OrderStepCommandHandler,
	respondAssignmentHandler commands.RespondAssignmentCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getAwaitingHandler queries.GetAwaitingAssignmentQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:        placeOrderHandler,
		stepHandler:              stepHandler,
		respondAssignmentHandler: respondAssignmentHandler,
		getOrderHandler:          getOrderHandler,
		getAwaitingHandler:       getAwaitingHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/awaiting-assignment", s.GetAwaitingAssignment)
	api.GET("/orders/by-number/:number", s.GetOrderByNumber)
	api.GET("/orders/:id", s.GetOrder)

	api.POST("/orders/:id/accept", s.AcceptOrder)
	api.POST("/orders/:id/reject", s.RejectOrder)
	api.POST("/orders/:id/start-preparing", s.StartPreparing)
	api.POST("/orders/:id/ready", s.MarkReady)
	api.POST("/orders/:id/verify-pickup", s.VerifyPickup)
	api.POST("/orders/:id/handover", s.HandoverSelfPickup)
	api.POST("/orders/:id/verify-delivery", s.VerifyDelivery)
	api.POST("/orders/:id/fail-delivery", s.FailDelivery)
	api.POST("/orders/:id/confirm-return", s.ConfirmReturn)
	api.POST("/orders/:id/cancel", s.CancelOrder)

	api.POST("/assignments/:id/respond", s.RespondAssignment)
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	params, err := req.toParams()
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	cmd, err := commands.NewPlaceOrderCommand(params)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	flow, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, flowResponseOf(flow))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id")
	}

	query, err := queries.NewGetOrderQueryByID(id)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseOf(view))
}

// GetOrderByNumber handles GET /api/v1/orders/by-number/:number.
func (s *Server) GetOrderByNumber(ctx echo.Context) error {
	query, err := queries.NewGetOrderQueryByNumber(ctx.Param("number"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseOf(view))
}

// GetAwaitingAssignment handles GET /api/v1/orders/awaiting-assignment.
func (s *Server) GetAwaitingAssignment(ctx echo.Context) error {
	query := queries.NewGetAwaitingAssignmentQuery()

	pool, err := s.getAwaitingHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err)
	}

	response := make([]AwaitingOrderResponse, len(pool))
	for i, member := range pool {
		response[i] = AwaitingOrderResponse{
			ID:       member.ID.String(),
			Number:   member.Number,
			Status:   member.Status,
			ShopName: member.ShopName,
			ShopLocation: LocationResponse{
				X: int(member.ShopLocation.X()),
				Y: int(member.ShopLocation.Y()),
			},
			PlacedAt: member.PlacedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// AcceptOrder handles POST /api/v1/orders/:id/accept.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	var req AcceptOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewAcceptOrderCommand(id, req.EstimatedTime)
	})
}

// RejectOrder handles POST /api/v1/orders/:id/reject.
func (s *Server) RejectOrder(ctx echo.Context) error {
	var req ReasonRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewRejectOrderCommand(id, req.Reason)
	})
}

// StartPreparing handles POST /api/v1/orders/:id/start-preparing.
func (s *Server) StartPreparing(ctx echo.Context) error {
	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewStartPreparingCommand(id)
	})
}

// MarkReady handles POST /api/v1/orders/:id/ready.
func (s *Server) MarkReady(ctx echo.Context) error {
	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewMarkReadyCommand(id)
	})
}

// VerifyPickup handles POST /api/v1/orders/:id/verify-pickup.
func (s *Server) VerifyPickup(ctx echo.Context) error {
	var req CodeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewVerifyPickupCommand(id, req.Code)
	})
}

// HandoverSelfPickup handles POST /api/v1/orders/:id/handover.
func (s *Server) HandoverSelfPickup(ctx echo.Context) error {
	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewHandoverSelfPickupCommand(id)
	})
}

// VerifyDelivery handles POST /api/v1/orders/:id/verify-delivery.
func (s *Server) VerifyDelivery(ctx echo.Context) error {
	var req CodeRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewVerifyDeliveryCommand(id, req.Code)
	})
}

// FailDelivery handles POST /api/v1/orders/:id/fail-delivery.
func (s *Server) FailDelivery(ctx echo.Context) error {
	var req ReasonRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewFailDeliveryCommand(id, req.Reason)
	})
}

// ConfirmReturn handles POST /api/v1/orders/:id/confirm-return.
func (s *Server) ConfirmReturn(ctx echo.Context) error {
	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewConfirmReturnCommand(id)
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	var req CancelOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	return s.runStep(ctx, func(id kernel.UUID) (commands.StepCommand, error) {
		return commands.NewCancelOrderCommand(id, req.Reason, req.RequestedBy)
	})
}

// RespondAssignment handles POST /api/v1/assignments/:id/respond.
func (s *Server) RespondAssignment(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid assignment id")
	}

	var req RespondAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewRespondAssignmentCommand(id, req.Accept, req.Reason)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	if err := s.respondAssignmentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return mapError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// runStep is the shared path of every lifecycle step endpoint: parse the
// order id, build the command, execute, answer with the flow status. A
// step that succeeded but left the flow blocked answers 202 so callers
// can tell "done, keep going" from "done, wait".
func (s *Server) runStep(ctx echo.Context, build func(kernel.UUID) (commands.StepCommand, error)) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "invalid order id")
	}

	cmd, err := build(id)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	}

	flow, err := s.stepHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err)
	}

	status := http.StatusOK
	if !flow.CanProceed && flow.NextStep != "" {
		status = http.StatusAccepted
	}

	return ctx.JSON(status, flowResponseOf(flow))
}

// mapError translates command and query failures into HTTP status codes.
func mapError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrInvalidCredential):
		return errorJSON(ctx, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrAlreadyTerminal),
		errors.Is(err, order.ErrNoPartnerAssigned),
		errors.Is(err, partner.ErrAssignmentNotActionable),
		errors.Is(err, ports.ErrConcurrentModification):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, "internal error")
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}
