package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/broconnector/gmw-map/internal/auth"
	"github.com/broconnector/gmw-map/internal/db"
	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/mapview"
	"github.com/broconnector/gmw-map/internal/middleware"
	"github.com/broconnector/gmw-map/internal/wells"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func stateRate() rate.Limit {
	raw := os.Getenv("MAP_STATE_RATE")
	if raw == "" {
		return 2
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("Ignoring MAP_STATE_RATE=%q", raw)
		return 2
	}
	return rate.Limit(v)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	auth.Init()
	wells.Init()
	mapstate.Init()
	maps := mapview.Init()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/auth", auth.SetupRoutes())
	r.Mount("/map", mapview.SetupRoutes(maps, auth.SessionInfo{}, stateRate()))

	log.Printf("Server listening on port :%s...", port)
	if err := http.ListenAndServe("0.0.0.0:"+port, r); err != nil {
		log.Fatal(err)
	}
}
