package persistence

import (
	"context"
	"errors"

	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRetailerRepository implements RetailerRepository using GORM
type GormRetailerRepository struct {
	db *gorm.DB
}

// NewGormRetailerRepository creates a new GormRetailerRepository
func NewGormRetailerRepository(db *gorm.DB) *GormRetailerRepository {
	return &GormRetailerRepository{db: db}
}

// FindByID finds a retailer by its ID
func (r *GormRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Retailer, error) {
	var model models.RetailerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a retailer
func (r *GormRetailerRepository) Save(ctx context.Context, retailer *pricing.Retailer) error {
	model := &models.RetailerModel{}
	model.FromDomain(retailer)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormTierRepository implements TierRepository using GORM
type GormTierRepository struct {
	db *gorm.DB
}

// NewGormTierRepository creates a new GormTierRepository
func NewGormTierRepository(db *gorm.DB) *GormTierRepository {
	return &GormTierRepository{db: db}
}

// FindByID finds a tier by its ID
func (r *GormTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingTier, error) {
	var model models.PricingTierModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every tier ordered by name
func (r *GormTierRepository) FindAll(ctx context.Context) ([]pricing.PricingTier, error) {
	var tierModels []models.PricingTierModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&tierModels).Error; err != nil {
		return nil, err
	}
	tiers := make([]pricing.PricingTier, len(tierModels))
	for i := range tierModels {
		tiers[i] = *tierModels[i].ToDomain()
	}
	return tiers, nil
}

// Save creates or updates a tier
func (r *GormTierRepository) Save(ctx context.Context, tier *pricing.PricingTier) error {
	model := &models.PricingTierModel{}
	model.FromDomain(tier)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormRetailerPricingRepository implements RetailerPricingRepository using GORM
type GormRetailerPricingRepository struct {
	db *gorm.DB
}

// NewGormRetailerPricingRepository creates a new GormRetailerPricingRepository
func NewGormRetailerPricingRepository(db *gorm.DB) *GormRetailerPricingRepository {
	return &GormRetailerPricingRepository{db: db}
}

// FindActiveByRetailer returns the active overrides of a retailer. The effective
// window is checked by the caller at pricing time.
func (r *GormRetailerPricingRepository) FindActiveByRetailer(ctx context.Context, retailerID uuid.UUID) ([]pricing.RetailerPricing, error) {
	var overrideModels []models.RetailerPricingModel
	if err := r.db.WithContext(ctx).
		Where("retailer_id = ? AND is_active = ?", retailerID, true).
		Order("effective_from DESC").
		Find(&overrideModels).Error; err != nil {
		return nil, err
	}
	overrides := make([]pricing.RetailerPricing, len(overrideModels))
	for i := range overrideModels {
		overrides[i] = *overrideModels[i].ToDomain()
	}
	return overrides, nil
}

// Save creates or updates an override
func (r *GormRetailerPricingRepository) Save(ctx context.Context, override *pricing.RetailerPricing) error {
	model := &models.RetailerPricingModel{}
	model.FromDomain(override)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormPricingRuleRepository implements RuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

// FindActive returns all rules flagged active, highest priority first
func (r *GormPricingRuleRepository) FindActive(ctx context.Context) ([]pricing.PricingRule, error) {
	var ruleModels []models.PricingRuleModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority DESC, created_at ASC").
		Find(&ruleModels).Error; err != nil {
		return nil, err
	}
	rules := make([]pricing.PricingRule, len(ruleModels))
	for i := range ruleModels {
		rules[i] = *ruleModels[i].ToDomain()
	}
	return rules, nil
}

// FindByID finds a rule by its ID
func (r *GormPricingRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	var model models.PricingRuleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a rule
func (r *GormPricingRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	model := &models.PricingRuleModel{}
	model.FromDomain(rule)
	return r.db.WithContext(ctx).Save(model).Error
}

var (
	_ pricing.RetailerRepository        = (*GormRetailerRepository)(nil)
	_ pricing.TierRepository            = (*GormTierRepository)(nil)
	_ pricing.RetailerPricingRepository = (*GormRetailerPricingRepository)(nil)
	_ pricing.RuleRepository            = (*GormPricingRuleRepository)(nil)
)
