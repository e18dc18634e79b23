package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"bistro/m/internal/api"
	"bistro/m/internal/config"
	"bistro/m/internal/database"
	"bistro/m/internal/inventory"
	"bistro/m/internal/migrations"
	"bistro/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	seed.LoadIngredients(db, "assets/ingredients.csv")

	core := inventory.New(db)
	handler := api.New(db, core, cfg.Secret)

	log.Printf("Bistro back-office server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
