package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

// Modifier is an add-on an order item can carry (extra cheese, double shot).
// A modifier may consume ingredient stock of its own, independent of the
// product's recipe.
type Modifier struct {
	ID           int             `gorm:"primary_key" json:"id"`
	CompanyId    string          `gorm:"index;not null" json:"company_id" binding:"required"`
	Name         string          `gorm:"size:100;not null" json:"name" binding:"required"`
	ExtraPrice   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"extra_price"`
	IngredientId *int            `json:"ingredient_id"`
	Quantity     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	IsActive     *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewModifier struct {
	Name         string          `json:"name" binding:"required"`
	ExtraPrice   decimal.Decimal `json:"extra_price"`
	IngredientId *int            `json:"ingredient_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// validate input for both create & update. (id = 0 for create)
func (input *NewModifier) validate(ctx context.Context, companyId string, id int) error {
	if err := utils.ValidateUnique[Modifier](ctx, companyId, "name", input.Name, id); err != nil {
		return err
	}
	if input.IngredientId != nil {
		if err := utils.ValidateResourceId[Ingredient](ctx, companyId, *input.IngredientId); err != nil {
			return errors.New("modifier ingredient not found")
		}
		if input.Quantity.IsZero() || input.Quantity.IsNegative() {
			return newValidationError("modifier quantity must be positive when an ingredient is set")
		}
	}
	return nil
}

func CreateModifier(ctx context.Context, input *NewModifier) (*Modifier, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId, 0); err != nil {
		return nil, err
	}

	modifier := Modifier{
		CompanyId:    companyId,
		Name:         input.Name,
		ExtraPrice:   input.ExtraPrice,
		IngredientId: input.IngredientId,
		Quantity:     input.Quantity,
		IsActive:     utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&modifier).Error; err != nil {
		return nil, err
	}
	_ = utils.InvalidateRedisModel[Modifier](companyId, modifier.ID)

	return &modifier, nil
}

func ListModifiers(ctx context.Context) ([]*Modifier, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	results, err := utils.RetrieveRedisList[Modifier](companyId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Modifier](ctx, companyId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Modifier](results, companyId); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// fetchModifierCatalog loads the company's modifiers keyed by id, for the
// recipe resolver.
func fetchModifierCatalog(ctx context.Context, companyId string) (map[int]*Modifier, error) {
	db := config.GetDB()
	var modifiers []*Modifier
	if err := db.WithContext(ctx).Where("company_id = ?", companyId).Find(&modifiers).Error; err != nil {
		return nil, err
	}
	catalog := make(map[int]*Modifier, len(modifiers))
	for _, m := range modifiers {
		catalog[m.ID] = m
	}
	return catalog, nil
}
