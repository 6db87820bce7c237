package fulfillment

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipRequest marks a quantity of a line item as shipped. Quantity
// defaults to the item's full quantity. TrackingNumber and
// TrackingCarrier must be supplied together.
type ShipRequest struct {
	ItemID          uuid.UUID
	Quantity        *int64
	ItemSalesTax    *decimal.Decimal
	TrackingNumber  string
	TrackingCarrier string
}

// CancelRequest cancels a quantity of a line item
type CancelRequest struct {
	ItemID   uuid.UUID
	Quantity *int64
}

// RefundRequest refunds a quantity of a shipped line item.
// AmountRefunded defaults to the refunded portion's full total.
type RefundRequest struct {
	ItemID            uuid.UUID
	Quantity          *int64
	AmountRefunded    *decimal.Decimal
	TaxAmountRefunded *decimal.Decimal
}

// UpdateShippingRequest replaces the order's shipment cost and shipment
// tax adjustments.
type UpdateShippingRequest struct {
	OrderID        uuid.UUID
	Amount         decimal.Decimal
	SalesTaxAmount decimal.Decimal
}
