package auth

import (
	"log"

	"github.com/broconnector/gmw-map/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "map_auth"); err != nil {
		log.Fatal("Failed to ensure schema map_auth: ", err)
	}

	if err := db.DB.AutoMigrate(&User{}, &Session{}); err != nil {
		log.Fatal("Failed to auto-migrate tables", err)
	}
}
