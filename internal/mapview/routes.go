package mapview

import (
	"net/http"

	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/middleware"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

func SetupRoutes(s *Server, sessions middleware.SessionFetcher, stateRate rate.Limit) http.Handler {
	r := chi.NewRouter()

	// Icons are addressed by content and need no session.
	r.Get("/icons/{key}.png", s.Icon)

	r.Mount("/state", mapstate.SetupRoutes(s.States, sessions, stateRate))

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(sessions))

		r.Get("/", s.Index)
		r.Get("/{page}", s.ServePage)
		r.Get("/{page}/", s.ServePage)
		r.Post("/{page}/layers", s.Layers)
		r.Post("/{page}/changes", s.Changes)
		r.Post("/{page}/popup/{well_id}", s.Popup)
		r.Get("/{page}/search", s.Search)
		r.Post("/{page}/search", s.Search)
		r.Get("/{page}/search/{well_id}", s.Select)
	})

	return r
}
