package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

// Ingredient is a priced stock item. Balance and WeightedAvgCost are a
// materialized cache of the movement ledger fold; they are never edited
// directly and can always be rebuilt by replaying stock_movements
// (see RebuildIngredientStock).
type Ingredient struct {
	ID              int             `gorm:"primary_key" json:"id"`
	CompanyId       string          `gorm:"index;not null" json:"company_id" binding:"required"`
	Name            string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Type            IngredientType  `gorm:"type:enum('RAW','PROCESSED','MERCHANDISE');default:RAW" json:"type"`
	BaseUnit        string          `gorm:"size:20;not null" json:"base_unit" binding:"required"`
	YieldFactor     decimal.Decimal `gorm:"type:decimal(20,4);default:1" json:"yield_factor"`
	WeightedAvgCost decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"weighted_avg_cost"`
	Balance         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"balance"`
	IsActive        *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewIngredient struct {
	Name     string         `json:"name" binding:"required"`
	Type     IngredientType `json:"type" binding:"required"`
	BaseUnit string         `json:"base_unit" binding:"required"`
	// YieldFactor defaults to 1 when omitted. A supplied value must lie in
	// (0,1]; an explicit zero is rejected, not defaulted.
	YieldFactor *decimal.Decimal `json:"yield_factor"`
}

// resolveYieldFactor validates the (0,1] bound and applies the default for an
// absent value.
func resolveYieldFactor(input *decimal.Decimal) (decimal.Decimal, error) {
	one := decimal.NewFromInt(1)
	if input == nil {
		return one, nil
	}
	if !input.IsPositive() || input.GreaterThan(one) {
		return decimal.Zero, newValidationError("yield factor must be in (0,1]")
	}
	return *input, nil
}

// validate input for both create & update. (id = 0 for create)
func (input *NewIngredient) validate(ctx context.Context, companyId string, id int) error {
	if err := utils.ValidateUnique[Ingredient](ctx, companyId, "name", input.Name, id); err != nil {
		return err
	}
	if _, err := ParseIngredientType(string(input.Type)); err != nil {
		return newValidationError("invalid ingredient type %q", input.Type)
	}
	if _, err := resolveYieldFactor(input.YieldFactor); err != nil {
		return err
	}
	return nil
}

func CreateIngredient(ctx context.Context, input *NewIngredient) (*Ingredient, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId, 0); err != nil {
		return nil, err
	}
	yieldFactor, err := resolveYieldFactor(input.YieldFactor)
	if err != nil {
		return nil, err
	}

	ingredient := Ingredient{
		CompanyId:   companyId,
		Name:        input.Name,
		Type:        input.Type,
		BaseUnit:    input.BaseUnit,
		YieldFactor: yieldFactor,
		IsActive:    utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, err
	}
	// invalidate cached catalog list
	_ = utils.InvalidateRedisModel[Ingredient](companyId, ingredient.ID)

	return &ingredient, nil
}

// UpdateIngredient changes catalog fields only. Balance and WeightedAvgCost
// are derived from the ledger and cannot be set here.
func UpdateIngredient(ctx context.Context, id int, input *NewIngredient) (*Ingredient, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId, id); err != nil {
		return nil, err
	}
	yieldFactor, err := resolveYieldFactor(input.YieldFactor)
	if err != nil {
		return nil, err
	}
	ingredient, err := utils.FetchModel[Ingredient](ctx, companyId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(ingredient).Updates(map[string]interface{}{
		"Name":        input.Name,
		"Type":        input.Type,
		"BaseUnit":    input.BaseUnit,
		"YieldFactor": yieldFactor,
	}).Error; err != nil {
		return nil, err
	}
	_ = utils.InvalidateRedisModel[Ingredient](companyId, id)

	return ingredient, nil
}

func GetIngredient(ctx context.Context, id int) (*Ingredient, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	return utils.FetchModel[Ingredient](ctx, companyId, id)
}

// ListIngredients reads the cached catalog, falling back to the database.
func ListIngredients(ctx context.Context) ([]*Ingredient, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	results, err := utils.RetrieveRedisList[Ingredient](companyId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Ingredient](ctx, companyId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Ingredient](results, companyId); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// IngredientStock is the balance/WAC pair exposed to callers.
type IngredientStock struct {
	IngredientId    int             `json:"ingredient_id"`
	Balance         decimal.Decimal `json:"balance"`
	WeightedAvgCost decimal.Decimal `json:"weighted_avg_cost"`
}

// GetIngredientStock returns the materialized balance/WAC for an ingredient.
// The ledger remains authoritative; the cached fold is kept in sync on every
// append and reproducible via RebuildIngredientStock.
func GetIngredientStock(ctx context.Context, id int) (*IngredientStock, error) {
	ingredient, err := GetIngredient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &IngredientStock{
		IngredientId:    ingredient.ID,
		Balance:         ingredient.Balance,
		WeightedAvgCost: ingredient.WeightedAvgCost,
	}, nil
}
