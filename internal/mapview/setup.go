package mapview

import (
	"log"
	"os"
	"strconv"

	"github.com/broconnector/gmw-map/internal/db"
	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/pieicon"
	"github.com/broconnector/gmw-map/internal/wells"
)

// Init wires the map server to the shared database using the MAP_* settings.
func Init() *Server {
	pages, err := LoadPages(os.Getenv("MAP_PAGES_FILE"))
	if err != nil {
		log.Fatal("Failed to load map pages: ", err)
	}

	icons, err := pieicon.NewCache(envInt("MAP_ICON_CACHE_SIZE", 1024))
	if err != nil {
		log.Fatal("Failed to create icon cache: ", err)
	}

	s, err := NewServer(pages, wells.NewStore(db.DB), mapstate.NewGormStore(db.DB), icons)
	if err != nil {
		log.Fatal("Failed to create map server: ", err)
	}
	log.Printf("Map pages loaded: %v", pages.Names())
	return s
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		log.Printf("[mapview] ignoring %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}
