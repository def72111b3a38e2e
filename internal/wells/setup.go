package wells

import (
	"log"

	"github.com/broconnector/gmw-map/internal/db"
	"gorm.io/gorm"
)

func Init() {
	if err := Migrate(db.DB); err != nil {
		log.Fatal("Failed to migrate well tables: ", err)
	}
	log.Println("Wells module initialized")
}

// Migrate creates the bro, gmw and gld schemas and their tables.
func Migrate(d *gorm.DB) error {
	if err := db.EnsureSchema(d, "bro", "gmw", "gld"); err != nil {
		return err
	}
	return d.AutoMigrate(&Organisation{}, &Well{}, &GLD{})
}
