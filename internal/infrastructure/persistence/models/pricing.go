package models

import (
	"time"

	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingTierModel is the persistence model for the PricingTier entity.
type PricingTierModel struct {
	BaseModel
	Name           string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Description    string          `gorm:"type:text"`
	MinDiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	MaxDiscountPct decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PricingTierModel) TableName() string {
	return "pricing_tiers"
}

// ToDomain converts the persistence model to a domain PricingTier entity.
func (m *PricingTierModel) ToDomain() *pricing.PricingTier {
	return &pricing.PricingTier{
		BaseEntity:     m.BaseModel.ToDomain(),
		Name:           m.Name,
		Description:    m.Description,
		MinDiscountPct: m.MinDiscountPct,
		MaxDiscountPct: m.MaxDiscountPct,
	}
}

// FromDomain populates the persistence model from a domain PricingTier entity.
func (m *PricingTierModel) FromDomain(t *pricing.PricingTier) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.Name = t.Name
	m.Description = t.Description
	m.MinDiscountPct = t.MinDiscountPct
	m.MaxDiscountPct = t.MaxDiscountPct
}

// RetailerModel is the persistence model for the Retailer aggregate root.
type RetailerModel struct {
	AggregateModel
	Name          string                 `gorm:"type:varchar(200);not null"`
	ContactPerson string                 `gorm:"type:varchar(100)"`
	Email         string                 `gorm:"type:varchar(200)"`
	Phone         string                 `gorm:"type:varchar(50)"`
	Address       string                 `gorm:"type:text"`
	PricingTierID *uuid.UUID             `gorm:"type:uuid;index"`
	Status        pricing.RetailerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (RetailerModel) TableName() string {
	return "retailers"
}

// ToDomain converts the persistence model to a domain Retailer entity.
func (m *RetailerModel) ToDomain() *pricing.Retailer {
	return &pricing.Retailer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		ContactPerson:     m.ContactPerson,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		PricingTierID:     m.PricingTierID,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Retailer entity.
func (m *RetailerModel) FromDomain(r *pricing.Retailer) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.ContactPerson = r.ContactPerson
	m.Email = r.Email
	m.Phone = r.Phone
	m.Address = r.Address
	m.PricingTierID = r.PricingTierID
	m.Status = r.Status
}

// RetailerPricingModel is the persistence model for a retailer pricing override.
type RetailerPricingModel struct {
	BaseModel
	RetailerID        uuid.UUID        `gorm:"type:uuid;not null;index:idx_retailer_pricing_active,priority:1"`
	ProductID         *uuid.UUID       `gorm:"type:uuid;index"`
	PricingTierID     *uuid.UUID       `gorm:"type:uuid"`
	CustomPrice       *decimal.Decimal `gorm:"type:decimal(18,4)"`
	CustomDiscountPct *decimal.Decimal `gorm:"type:decimal(5,2)"`
	EffectiveFrom     time.Time        `gorm:"not null"`
	EffectiveTo       *time.Time
	IsActive          bool `gorm:"not null;index:idx_retailer_pricing_active,priority:2"`
}

// TableName returns the table name for GORM
func (RetailerPricingModel) TableName() string {
	return "retailer_pricing"
}

// ToDomain converts the persistence model to a domain RetailerPricing entity.
func (m *RetailerPricingModel) ToDomain() *pricing.RetailerPricing {
	return &pricing.RetailerPricing{
		BaseEntity:        m.BaseModel.ToDomain(),
		RetailerID:        m.RetailerID,
		ProductID:         m.ProductID,
		PricingTierID:     m.PricingTierID,
		CustomPrice:       m.CustomPrice,
		CustomDiscountPct: m.CustomDiscountPct,
		EffectiveFrom:     m.EffectiveFrom,
		EffectiveTo:       m.EffectiveTo,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain RetailerPricing entity.
func (m *RetailerPricingModel) FromDomain(p *pricing.RetailerPricing) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.RetailerID = p.RetailerID
	m.ProductID = p.ProductID
	m.PricingTierID = p.PricingTierID
	m.CustomPrice = p.CustomPrice
	m.CustomDiscountPct = p.CustomDiscountPct
	m.EffectiveFrom = p.EffectiveFrom
	m.EffectiveTo = p.EffectiveTo
	m.IsActive = p.IsActive
}

// PricingRuleModel is the persistence model for the PricingRule aggregate root.
type PricingRuleModel struct {
	AggregateModel
	Name                string           `gorm:"type:varchar(200);not null"`
	ProductID           *uuid.UUID       `gorm:"type:uuid;index"`
	RetailerID          *uuid.UUID       `gorm:"type:uuid;index"`
	ExpiryThresholdDays *int
	ExpiryDiscountPct   decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	VolumeMinQuantity   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	VolumeDiscountPct   decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	StartsAt            *time.Time
	EndsAt              *time.Time
	IsActive            bool `gorm:"not null;index"`
	Priority            int  `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (PricingRuleModel) TableName() string {
	return "pricing_rules"
}

// ToDomain converts the persistence model to a domain PricingRule entity.
func (m *PricingRuleModel) ToDomain() *pricing.PricingRule {
	return &pricing.PricingRule{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Name:                m.Name,
		ProductID:           m.ProductID,
		RetailerID:          m.RetailerID,
		ExpiryThresholdDays: m.ExpiryThresholdDays,
		ExpiryDiscountPct:   m.ExpiryDiscountPct,
		VolumeMinQuantity:   m.VolumeMinQuantity,
		VolumeDiscountPct:   m.VolumeDiscountPct,
		StartsAt:            m.StartsAt,
		EndsAt:              m.EndsAt,
		IsActive:            m.IsActive,
		Priority:            m.Priority,
	}
}

// FromDomain populates the persistence model from a domain PricingRule entity.
func (m *PricingRuleModel) FromDomain(r *pricing.PricingRule) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Name = r.Name
	m.ProductID = r.ProductID
	m.RetailerID = r.RetailerID
	m.ExpiryThresholdDays = r.ExpiryThresholdDays
	m.ExpiryDiscountPct = r.ExpiryDiscountPct
	m.VolumeMinQuantity = r.VolumeMinQuantity
	m.VolumeDiscountPct = r.VolumeDiscountPct
	m.StartsAt = r.StartsAt
	m.EndsAt = r.EndsAt
	m.IsActive = r.IsActive
	m.Priority = r.Priority
}
