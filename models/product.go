package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/shopspring/decimal"
)

// Product is a sellable menu item. Catalog management (categories, images,
// menus) lives in the admin service; the core only needs pricing and the
// recipe/merchandise linkage to resolve consumption.
type Product struct {
	ID        int             `gorm:"primary_key" json:"id"`
	CompanyId string          `gorm:"index;not null" json:"company_id" binding:"required"`
	Name      string          `gorm:"size:100;not null" json:"name" binding:"required"`
	Sku       string          `gorm:"size:100" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"price"`
	// ReferenceUnitCost is a manually entered standalone cost used by costing
	// when no recipe/ledger cost is available.
	ReferenceUnitCost *decimal.Decimal `gorm:"type:decimal(20,4)" json:"reference_unit_cost"`
	// MerchandiseIngredientId links a recipe-less merchandise product 1:1 to
	// its own MERCHANDISE-type ingredient, whose stock is decremented on sale.
	MerchandiseIngredientId *int      `json:"merchandise_ingredient_id"`
	IsActive                *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt               time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewProduct struct {
	Name                    string           `json:"name" binding:"required"`
	Sku                     string           `json:"sku"`
	Price                   decimal.Decimal  `json:"price"`
	ReferenceUnitCost       *decimal.Decimal `json:"reference_unit_cost"`
	MerchandiseIngredientId *int             `json:"merchandise_ingredient_id"`
}

func (input *NewProduct) validate(ctx context.Context, companyId string, id int) error {
	if err := utils.ValidateUnique[Product](ctx, companyId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return newValidationError("price must not be negative")
	}
	if input.MerchandiseIngredientId != nil {
		ingredient, err := utils.FetchModel[Ingredient](ctx, companyId, *input.MerchandiseIngredientId)
		if err != nil {
			return errors.New("merchandise ingredient not found")
		}
		if ingredient.Type != IngredientTypeMerchandise {
			return newValidationError("ingredient %q is not MERCHANDISE type", ingredient.Name)
		}
	}
	return nil
}

func CreateProduct(ctx context.Context, input *NewProduct) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := input.validate(ctx, companyId, 0); err != nil {
		return nil, err
	}

	product := Product{
		CompanyId:               companyId,
		Name:                    input.Name,
		Sku:                     input.Sku,
		Price:                   input.Price,
		ReferenceUnitCost:       input.ReferenceUnitCost,
		MerchandiseIngredientId: input.MerchandiseIngredientId,
		IsActive:                utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	_ = utils.InvalidateRedisModel[Product](companyId, product.ID)

	return &product, nil
}

func GetProduct(ctx context.Context, id int) (*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	cached, err := utils.RetrieveRedis[Product](id)
	if err == nil && cached != nil && cached.CompanyId == companyId {
		return cached, nil
	}
	product, err := utils.FetchModel[Product](ctx, companyId, id)
	if err != nil {
		return nil, err
	}
	_ = utils.StoreRedis[Product](product, product.ID)
	return product, nil
}

func ListProducts(ctx context.Context) ([]*Product, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	results, err := utils.RetrieveRedisList[Product](companyId)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results, err = utils.FetchAllModels[Product](ctx, companyId)
		if err != nil {
			return nil, err
		}
		if err := utils.StoreRedisList[Product](results, companyId); err != nil {
			return nil, err
		}
	}
	return results, nil
}
