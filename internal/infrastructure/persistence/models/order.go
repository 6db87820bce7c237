package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AddressColumns flattens an address value object into table columns
type AddressColumns struct {
	CountryCode        string `gorm:"size:2"`
	AdministrativeArea string `gorm:"size:100"`
	Locality           string `gorm:"size:100"`
	PostalCode         string `gorm:"size:20"`
	Line1              string `gorm:"size:200"`
	Line2              string `gorm:"size:200"`
	GivenName          string `gorm:"size:100"`
	FamilyName         string `gorm:"size:100"`
}

// ToDomain converts the columns to an address value object, or nil when
// no country code is stored
func (a AddressColumns) ToDomain() *valueobject.Address {
	if a.CountryCode == "" {
		return nil
	}
	addr, err := valueobject.NewAddress(a.CountryCode, a.AdministrativeArea, a.Locality, a.PostalCode, a.Line1, a.Line2, a.GivenName, a.FamilyName)
	if err != nil {
		return nil
	}
	return &addr
}

// addressColumnsFromDomain flattens an address value object
func addressColumnsFromDomain(addr *valueobject.Address) AddressColumns {
	if addr == nil {
		return AddressColumns{}
	}
	return AddressColumns{
		CountryCode:        addr.CountryCode(),
		AdministrativeArea: addr.AdministrativeArea(),
		Locality:           addr.Locality(),
		PostalCode:         addr.PostalCode(),
		Line1:              addr.AddressLine1(),
		Line2:              addr.AddressLine2(),
		GivenName:          addr.GivenName(),
		FamilyName:         addr.FamilyName(),
	}
}

// OrderModel is the persistence model for order.Order
type OrderModel struct {
	BaseModel
	OrderNumber     string            `gorm:"size:50;not null;uniqueIndex"`
	StoreID         string            `gorm:"size:100;index"`
	Currency        string            `gorm:"size:3;not null"`
	Email           string            `gorm:"size:255"`
	State           string            `gorm:"size:20;not null;index"`
	BillingAddress  AddressColumns    `gorm:"embedded;embeddedPrefix:billing_"`
	ShippingAddress AddressColumns    `gorm:"embedded;embeddedPrefix:shipping_"`
	Items           []LineItemModel   `gorm:"foreignKey:OrderID"`
	Adjustments     []AdjustmentModel `gorm:"foreignKey:OrderID"`
	PlacedAt        *time.Time
}

// TableName returns the table name for OrderModel
func (OrderModel) TableName() string {
	return "orders"
}

// LineItemModel is the persistence model for order.LineItem
type LineItemModel struct {
	BaseModel
	OrderID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName       string          `gorm:"size:255;not null"`
	SKU               string          `gorm:"size:100"`
	UnitPrice         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AdjustedUnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity          int64           `gorm:"not null"`
	State             string          `gorm:"size:20"`
	TrackingNumber    string          `gorm:"size:100"`
	TrackingCarrier   string          `gorm:"size:20"`
	SalesTax          decimal.Decimal `gorm:"type:numeric(12,2)"`
	AmountRefunded    decimal.Decimal `gorm:"type:numeric(12,2)"`
	SalesTaxRefunded  decimal.Decimal `gorm:"type:numeric(12,2)"`
}

// TableName returns the table name for LineItemModel
func (LineItemModel) TableName() string {
	return "order_items"
}

// AdjustmentModel is the persistence model for order.Adjustment
type AdjustmentModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID   uuid.UUID       `gorm:"type:uuid"`
	Type     string          `gorm:"size:20;not null"`
	Label    string          `gorm:"size:100"`
	Amount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Included bool
	Locked   bool
}

// TableName returns the table name for AdjustmentModel
func (AdjustmentModel) TableName() string {
	return "order_adjustments"
}

// OrderFromDomain converts a domain order to its persistence model
func OrderFromDomain(o *order.Order) *OrderModel {
	model := &OrderModel{
		OrderNumber:     o.OrderNumber,
		StoreID:         o.StoreID,
		Currency:        string(o.Currency),
		Email:           o.Email,
		State:           string(o.State),
		BillingAddress:  addressColumnsFromDomain(o.BillingAddress),
		ShippingAddress: addressColumnsFromDomain(o.ShippingAddress),
		PlacedAt:        o.PlacedAt,
	}
	model.FromDomainBaseEntity(o.BaseEntity)

	model.Items = make([]LineItemModel, 0, len(o.Items))
	for _, item := range o.Items {
		model.Items = append(model.Items, lineItemFromDomain(item))
	}
	model.Adjustments = make([]AdjustmentModel, 0, len(o.Adjustments))
	for _, adj := range o.Adjustments {
		model.Adjustments = append(model.Adjustments, AdjustmentModel{
			ID:       uuid.New(),
			OrderID:  o.ID,
			ItemID:   adj.ItemID,
			Type:     string(adj.Type),
			Label:    adj.Label,
			Amount:   adj.Amount,
			Included: adj.Included,
			Locked:   adj.Locked,
		})
	}
	return model
}

// ToDomain converts the persistence model back to a domain order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		BaseEntity:      m.BaseModel.ToDomain(),
		OrderNumber:     m.OrderNumber,
		StoreID:         m.StoreID,
		Currency:        valueobject.Currency(m.Currency),
		Email:           m.Email,
		State:           order.State(m.State),
		BillingAddress:  m.BillingAddress.ToDomain(),
		ShippingAddress: m.ShippingAddress.ToDomain(),
		PlacedAt:        m.PlacedAt,
	}
	o.Items = make([]*order.LineItem, 0, len(m.Items))
	for i := range m.Items {
		o.Items = append(o.Items, m.Items[i].ToDomain())
	}
	o.Adjustments = make([]order.Adjustment, 0, len(m.Adjustments))
	for _, adj := range m.Adjustments {
		o.Adjustments = append(o.Adjustments, order.Adjustment{
			Type:     order.AdjustmentType(adj.Type),
			Label:    adj.Label,
			Amount:   adj.Amount,
			ItemID:   adj.ItemID,
			Included: adj.Included,
			Locked:   adj.Locked,
		})
	}
	return o
}

func lineItemFromDomain(item *order.LineItem) LineItemModel {
	model := LineItemModel{
		OrderID:           item.OrderID,
		ProductName:       item.ProductName,
		SKU:               item.SKU,
		UnitPrice:         item.UnitPrice,
		AdjustedUnitPrice: item.AdjustedUnitPrice,
		Quantity:          item.Quantity,
		State:             string(item.State),
		SalesTax:          item.SalesTax,
		AmountRefunded:    item.AmountRefunded,
		SalesTaxRefunded:  item.SalesTaxRefunded,
	}
	model.FromDomainBaseEntity(item.BaseEntity)
	if item.Tracking != nil {
		model.TrackingNumber = item.Tracking.Number
		model.TrackingCarrier = string(item.Tracking.Carrier)
	}
	return model
}

// ToDomain converts the persistence model back to a domain line item
func (m *LineItemModel) ToDomain() *order.LineItem {
	item := &order.LineItem{
		BaseEntity:        m.BaseModel.ToDomain(),
		OrderID:           m.OrderID,
		ProductName:       m.ProductName,
		SKU:               m.SKU,
		UnitPrice:         m.UnitPrice,
		AdjustedUnitPrice: m.AdjustedUnitPrice,
		Quantity:          m.Quantity,
		State:             order.ItemState(m.State),
		SalesTax:          m.SalesTax,
		AmountRefunded:    m.AmountRefunded,
		SalesTaxRefunded:  m.SalesTaxRefunded,
	}
	if m.TrackingNumber != "" {
		item.Tracking = &order.Tracking{
			Number:  m.TrackingNumber,
			Carrier: order.TrackingCarrier(m.TrackingCarrier),
		}
	}
	return item
}
