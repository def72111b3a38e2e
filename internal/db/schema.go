package db

import "gorm.io/gorm"

// EnsureSchema creates a Postgres schema if it does not exist yet.
func EnsureSchema(d *gorm.DB, schemas ...string) error {
	for _, schema := range schemas {
		if err := d.Exec(`CREATE SCHEMA IF NOT EXISTS "` + schema + `"`).Error; err != nil {
			return err
		}
	}
	return nil
}
