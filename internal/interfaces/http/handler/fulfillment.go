package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/application/fulfillment"
	"github.com/storefront/backend/internal/domain/order"
)

// FulfillmentHandler handles order item fulfillment API endpoints
type FulfillmentHandler struct {
	BaseHandler
	service *fulfillment.Service
}

// NewFulfillmentHandler creates a new FulfillmentHandler
func NewFulfillmentHandler(service *fulfillment.Service) *FulfillmentHandler {
	return &FulfillmentHandler{service: service}
}

// RegisterRoutes registers fulfillment routes
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/fulfillment")
	group.POST("/items/:id/ship", h.ShipItem)
	group.POST("/items/:id/cancel", h.CancelItem)
	group.POST("/items/:id/refund", h.RefundItem)
	group.PUT("/orders/:id/state", h.UpdateOrderState)
	group.PUT("/orders/:id/shipping", h.UpdateShipping)
}

// ShipItemRequest represents a request to ship an order item
// @Description Request body for shipping an order item
type ShipItemRequest struct {
	Quantity        *int64   `json:"quantity" binding:"omitempty,gt=0" example:"2"`
	SalesTax        *float64 `json:"sales_tax" binding:"omitempty,gte=0" example:"1.64"`
	TrackingNumber  string   `json:"tracking_number" example:"1Z999AA10123456784"`
	TrackingCarrier string   `json:"tracking_carrier" binding:"omitempty,carrier" example:"ups"`
}

// CancelItemRequest represents a request to cancel an order item
// @Description Request body for cancelling an order item
type CancelItemRequest struct {
	Quantity *int64 `json:"quantity" binding:"omitempty,gt=0" example:"1"`
}

// RefundItemRequest represents a request to refund a shipped order item
// @Description Request body for refunding an order item
type RefundItemRequest struct {
	Quantity       *int64   `json:"quantity" binding:"omitempty,gt=0" example:"1"`
	AmountRefunded *float64 `json:"amount_refunded" binding:"omitempty,gte=0" example:"19.99"`
	TaxRefunded    *float64 `json:"tax_refunded" binding:"omitempty,gte=0" example:"1.64"`
}

// UpdateOrderStateRequest represents a request to set an order's state
// @Description Request body for updating the order fulfillment state
type UpdateOrderStateRequest struct {
	State string `json:"state" binding:"required" example:"shipped"`
}

// UpdateShippingRequest represents a request to replace shipping charges
// @Description Request body for replacing the order's shipping charge and its tax
type UpdateShippingRequest struct {
	Amount         float64 `json:"amount" binding:"gte=0" example:"5.00"`
	SalesTaxAmount float64 `json:"sales_tax_amount" binding:"gte=0" example:"0.41"`
}

// ItemFulfillmentResponse reports the item affected by a fulfillment operation.
// When a quantity below the item's total is fulfilled, the item is split and
// the returned ID is the carved-off portion's.
// @Description Item fulfillment operation result
type ItemFulfillmentResponse struct {
	ItemID string `json:"item_id" example:"550e8400-e29b-41d4-a716-446655440020"`
}

// OrderFulfillmentResponse reports the order affected by an order-level operation
// @Description Order fulfillment operation result
type OrderFulfillmentResponse struct {
	OrderID string `json:"order_id" example:"550e8400-e29b-41d4-a716-446655440010"`
}

// ShipItem godoc
// @Summary      Ship an order item
// @Description  Mark a quantity of an order item as shipped, optionally recording tracking and tax
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        id path string true "Order Item ID" format(uuid)
// @Param        request body ShipItemRequest true "Ship request"
// @Success      200 {object} dto.Response{data=ItemFulfillmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fulfillment/items/{id}/ship [post]
func (h *FulfillmentHandler) ShipItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req ShipItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := fulfillment.ShipRequest{
		ItemID:          itemID,
		Quantity:        req.Quantity,
		TrackingNumber:  req.TrackingNumber,
		TrackingCarrier: req.TrackingCarrier,
	}
	if req.SalesTax != nil {
		tax := decimal.NewFromFloat(*req.SalesTax)
		appReq.ItemSalesTax = &tax
	}

	resultID, err := h.service.Ship(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ItemFulfillmentResponse{ItemID: resultID.String()})
}

// CancelItem godoc
// @Summary      Cancel an order item
// @Description  Cancel a quantity of an order item, zeroing its prices
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        id path string true "Order Item ID" format(uuid)
// @Param        request body CancelItemRequest true "Cancel request"
// @Success      200 {object} dto.Response{data=ItemFulfillmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fulfillment/items/{id}/cancel [post]
func (h *FulfillmentHandler) CancelItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req CancelItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resultID, err := h.service.Cancel(c.Request.Context(), fulfillment.CancelRequest{
		ItemID:   itemID,
		Quantity: req.Quantity,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ItemFulfillmentResponse{ItemID: resultID.String()})
}

// RefundItem godoc
// @Summary      Refund an order item
// @Description  Refund a quantity of a shipped order item. Amount defaults to the refunded portion's total
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        id path string true "Order Item ID" format(uuid)
// @Param        request body RefundItemRequest true "Refund request"
// @Success      200 {object} dto.Response{data=ItemFulfillmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fulfillment/items/{id}/refund [post]
func (h *FulfillmentHandler) RefundItem(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return
	}

	var req RefundItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := fulfillment.RefundRequest{
		ItemID:   itemID,
		Quantity: req.Quantity,
	}
	if req.AmountRefunded != nil {
		amount := decimal.NewFromFloat(*req.AmountRefunded)
		appReq.AmountRefunded = &amount
	}
	if req.TaxRefunded != nil {
		tax := decimal.NewFromFloat(*req.TaxRefunded)
		appReq.TaxAmountRefunded = &tax
	}

	resultID, err := h.service.Refund(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ItemFulfillmentResponse{ItemID: resultID.String()})
}

// UpdateOrderState godoc
// @Summary      Update order state
// @Description  Transition the order to a new fulfillment state
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body UpdateOrderStateRequest true "State update request"
// @Success      200 {object} dto.Response{data=OrderFulfillmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fulfillment/orders/{id}/state [put]
func (h *FulfillmentHandler) UpdateOrderState(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req UpdateOrderStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	id, err := h.service.UpdateOrderState(c.Request.Context(), orderID, order.State(req.State))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, OrderFulfillmentResponse{OrderID: id.String()})
}

// UpdateShipping godoc
// @Summary      Replace shipping charges
// @Description  Replace the order's shipping charge and shipping tax adjustments
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body UpdateShippingRequest true "Shipping update request"
// @Success      200 {object} dto.Response{data=OrderFulfillmentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /fulfillment/orders/{id}/shipping [put]
func (h *FulfillmentHandler) UpdateShipping(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req UpdateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	id, err := h.service.UpdateShipping(c.Request.Context(), fulfillment.UpdateShippingRequest{
		OrderID:        orderID,
		Amount:         decimal.NewFromFloat(req.Amount),
		SalesTaxAmount: decimal.NewFromFloat(req.SalesTaxAmount),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, OrderFulfillmentResponse{OrderID: id.String()})
}
