package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/application/fulfillment"
	apptax "github.com/storefront/backend/internal/application/tax"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/promotion"
)

// TaxHandler handles tax evaluation API endpoints
type TaxHandler struct {
	BaseHandler
	repo         order.Repository
	scope        fulfillment.TransactionScope
	guard        fulfillment.OrderGuard
	orchestrator *apptax.Orchestrator
}

// NewTaxHandler creates a new TaxHandler
func NewTaxHandler(repo order.Repository, scope fulfillment.TransactionScope, guard fulfillment.OrderGuard, orchestrator *apptax.Orchestrator) *TaxHandler {
	if guard == nil {
		guard = fulfillment.NoopGuard{}
	}
	return &TaxHandler{
		repo:         repo,
		scope:        scope,
		guard:        guard,
		orchestrator: orchestrator,
	}
}

// RegisterRoutes registers tax routes
func (h *TaxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/tax")
	group.POST("/orders/:id/evaluate", h.EvaluateOrder)
}

// EvaluateTaxRequest represents a request to evaluate an order's tax
// @Description Request body for tax evaluation with the promotions in effect
type EvaluateTaxRequest struct {
	Offers []OfferInput `json:"offers"`
}

// OfferInput represents a promotion offer applied to the order
// @Description Promotion offer in effect during tax evaluation
type OfferInput struct {
	Code       string   `json:"code" binding:"required,min=1,max=50" example:"SUMMER10"`
	Label      string   `json:"label" example:"Summer sale"`
	Kind       string   `json:"kind" binding:"required" example:"order_fixed"`
	Amount     *float64 `json:"amount" binding:"omitempty,gte=0" example:"10.00"`
	Percentage *float64 `json:"percentage" binding:"omitempty,gte=0,lte=1" example:"0.10"`
}

// ItemTaxResponse represents one item's evaluated tax
// @Description Evaluated tax for a single order item
type ItemTaxResponse struct {
	ItemID string `json:"item_id" example:"550e8400-e29b-41d4-a716-446655440020"`
	Amount string `json:"amount" example:"1.64"`
}

// EvaluateTaxResponse represents the evaluated tax for an order
// @Description Tax evaluation result
type EvaluateTaxResponse struct {
	OrderID string            `json:"order_id" example:"550e8400-e29b-41d4-a716-446655440010"`
	Items   []ItemTaxResponse `json:"items"`
	Total   string            `json:"total" example:"3.28"`
}

// EvaluateOrder godoc
// @Summary      Evaluate order tax
// @Description  Compute per-item sales tax for the order and store it as tax adjustments
// @Tags         tax
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body EvaluateTaxRequest true "Evaluation request"
// @Success      200 {object} dto.Response{data=EvaluateTaxResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /tax/orders/{id}/evaluate [post]
func (h *TaxHandler) EvaluateOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req EvaluateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	offers := make([]promotion.Offer, 0, len(req.Offers))
	for _, in := range req.Offers {
		kind := promotion.OfferKind(in.Kind)
		if !kind.IsValid() {
			h.BadRequest(c, "Unknown offer kind: "+in.Kind)
			return
		}
		offer := promotion.Offer{
			Code:  in.Code,
			Label: in.Label,
			Kind:  kind,
		}
		if in.Amount != nil {
			offer.Amount = decimal.NewFromFloat(*in.Amount)
		}
		if in.Percentage != nil {
			offer.Percentage = decimal.NewFromFloat(*in.Percentage)
		}
		offers = append(offers, offer)
	}

	ctx := c.Request.Context()
	o, err := h.repo.FindByID(ctx, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	release, err := h.guard.Acquire(ctx, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	defer release()

	result, err := h.orchestrator.Evaluate(ctx, o, offers)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	err = h.scope.Execute(ctx, func(repo order.Repository) error {
		current, err := repo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := apptax.ApplyToOrder(current, result); err != nil {
			return err
		}
		return repo.Save(ctx, current)
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := EvaluateTaxResponse{
		OrderID: orderID.String(),
		Items:   make([]ItemTaxResponse, 0, len(result)),
		Total:   result.Total().StringFixed(2),
	}
	for _, item := range o.Items {
		amount, ok := result[item.ID]
		if !ok {
			continue
		}
		resp.Items = append(resp.Items, ItemTaxResponse{
			ItemID: item.ID.String(),
			Amount: amount.StringFixed(2),
		})
	}

	h.Success(c, resp)
}
