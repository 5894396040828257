package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/google/uuid"
)

type Company struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primary_key" json:"id"`
	Name            string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Email           string    `gorm:"size:100" json:"email"`
	PrimaryBranchId int       `json:"primary_branch_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCompany struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

type Branch struct {
	ID        int       `gorm:"primary_key" json:"id"`
	CompanyId string    `gorm:"index;not null" json:"company_id" binding:"required"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	Name string `json:"name" binding:"required"`
}

// CreateCompany provisions a tenant with its primary branch.
func CreateCompany(ctx context.Context, input *NewCompany) (*Company, error) {
	db := config.GetDB()

	company := Company{
		ID:    uuid.New(),
		Name:  input.Name,
		Email: input.Email,
	}

	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&company).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	branch := Branch{
		CompanyId: company.ID.String(),
		Name:      "Main Branch",
		IsActive:  utils.NewTrue(),
	}
	if err := tx.WithContext(ctx).Create(&branch).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	company.PrimaryBranchId = branch.ID
	if err := tx.WithContext(ctx).Model(&company).Update("PrimaryBranchId", branch.ID).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	if err := utils.ValidateUnique[Branch](ctx, companyId, "name", input.Name, 0); err != nil {
		return nil, err
	}

	db := config.GetDB()
	branch := Branch{
		CompanyId: companyId,
		Name:      input.Name,
		IsActive:  utils.NewTrue(),
	}
	if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func GetBranches(ctx context.Context) ([]*Branch, error) {
	companyId, ok := utils.GetCompanyIdFromContext(ctx)
	if !ok || companyId == "" {
		return nil, errors.New("company id is required")
	}
	return utils.FetchAllModels[Branch](ctx, companyId)
}
