package models

import (
	"log"

	"bitbucket.org/mmdatafocus/resto_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Company{}, &Branch{},
		&Ingredient{}, &StockMovement{},
		&Product{}, &Modifier{},
		&Recipe{}, &RecipeItem{},
		&Order{}, &OrderItem{}, &OrderItemRemovedIngredient{}, &OrderItemModifier{},
		&OrderStockCommit{}, &OrderItemConsumption{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
