package main

import (
	"log"
	"time"

	"github.com/broconnector/gmw-map/internal/db"
	"github.com/broconnector/gmw-map/internal/seeds"
	"github.com/broconnector/gmw-map/internal/wells"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	wells.Init()

	if err := seeds.SeedAll(db.DB, time.Now()); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
