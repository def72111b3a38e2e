package mapstate

import (
	"log"

	"github.com/broconnector/gmw-map/internal/db"
)

func Init() {
	if err := db.EnsureSchema(db.DB, "gmw_map"); err != nil {
		log.Fatal("Failed to ensure schema gmw_map: ", err)
	}

	if err := db.DB.AutoMigrate(&ViewState{}); err != nil {
		log.Fatal("Failed to auto-migrate view states: ", err)
	}
	log.Println("Map state module initialized")
}
