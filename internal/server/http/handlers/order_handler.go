package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/mkurbatov/craftmarket/internal/domain/errors"
	"github.com/mkurbatov/craftmarket/internal/domain/model"
	"github.com/mkurbatov/craftmarket/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	buyerID := CurrentAccountID(c)

	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.PlaceOrder(c.Request.Context(), buyerID, req.CartLines(), req.Address(), req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrEmptyCart), errors.Is(err, domainErrors.ErrInvalidQuantity):
			c.Status(http.StatusUnprocessableEntity)
		case errors.Is(err, domainErrors.ErrInsufficientBalance):
			c.Status(http.StatusPaymentRequired)
		case errors.Is(err, domainErrors.ErrInsufficientStock), errors.Is(err, domainErrors.ErrConcurrentModification):
			c.Status(http.StatusConflict)
		case errors.Is(err, domainErrors.ErrItemNotFound), errors.Is(err, domainErrors.ErrSellerNotFound), errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.NewOrderResponse(order))
}

// Mine handles GET /api/orders/mine.
func (h *OrderHandler) Mine(c *gin.Context) {
	buyerID := CurrentAccountID(c)
	orders, err := h.facade.OrdersForBuyer(c.Request.Context(), buyerID)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// ListForSeller handles GET /api/orders (seller only).
func (h *OrderHandler) ListForSeller(c *gin.Context) {
	shop := CurrentShop(c)
	orders, err := h.facade.OrdersForSeller(c.Request.Context(), shop)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, toOrderResponses(orders))
}

// Get handles GET /api/orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.Order(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Pay handles PUT /api/orders/:id/payment.
func (h *OrderHandler) Pay(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.MarkPaid(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domainErrors.ErrOrderNotFound) {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

// Deliver handles PUT /api/orders/:id/deliver.
func (h *OrderHandler) Deliver(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.facade.MarkDelivered(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrOrderNotFound):
			c.Status(http.StatusNotFound)
		case errors.Is(err, domainErrors.ErrInvalidStateTransition):
			c.Status(http.StatusConflict)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}
	c.JSON(http.StatusOK, dto.NewOrderResponse(order))
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Status(http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func toOrderResponses(orders []model.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for i := range orders {
		response = append(response, dto.NewOrderResponse(&orders[i]))
	}
	return response
}
