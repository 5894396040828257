package main

import (
	"context"
	"flag"
	"log"
	"os"

	"bitbucket.org/mmdatafocus/resto_backend/config"
	"bitbucket.org/mmdatafocus/resto_backend/models"
	"bitbucket.org/mmdatafocus/resto_backend/utils"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// inventory-rebuild replays the stock movement ledger and rewrites each
// ingredient's cached balance and weighted average cost. Run it after manual
// data repair or when a cache is suspected to have drifted from the ledger.
func main() {
	_ = godotenv.Load()

	companyId := flag.String("company-id", "", "company to rebuild (required)")
	ingredientId := flag.Int("ingredient-id", 0, "rebuild a single ingredient (optional, all when omitted)")
	flag.Parse()

	if *companyId == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := config.GetLogger()
	config.ConnectDatabaseWithRetry()

	ctx := utils.SetCompanyIdInContext(context.Background(), *companyId)
	// ledger replay must see every row regardless of request scoping
	ctx = utils.SetSkipTenantScopeInContext(ctx, true)

	db := config.GetDB()

	var ingredientIds []int
	if *ingredientId > 0 {
		ingredientIds = []int{*ingredientId}
	} else {
		err := db.WithContext(ctx).Model(&models.Ingredient{}).
			Where("company_id = ?", *companyId).
			Order("id").
			Pluck("id", &ingredientIds).Error
		if err != nil {
			log.Fatal(err)
		}
	}

	rebuilt := 0
	for _, id := range ingredientIds {
		tx := db.Begin()
		stock, err := models.RebuildIngredientStock(tx.WithContext(ctx), *companyId, id)
		if err != nil {
			tx.Rollback()
			config.LogError(logger, "cmd", "inventory-rebuild", "rebuild failed", id, err)
			os.Exit(1)
		}
		if err := tx.Commit().Error; err != nil {
			log.Fatal(err)
		}
		logger.WithFields(logrus.Fields{
			"ingredient_id": stock.IngredientId,
			"balance":       stock.Balance.String(),
			"wac":           stock.WeightedAvgCost.String(),
		}).Info("ingredient rebuilt")
		rebuilt++
	}

	logger.WithFields(logrus.Fields{"count": rebuilt}).Info("inventory rebuild complete")
}
