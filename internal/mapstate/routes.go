package mapstate

import (
	"net/http"

	"github.com/broconnector/gmw-map/internal/middleware"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// saveClients is how many clients the save limiter remembers.
const saveClients = 4096

// SetupRoutes serves GET and POST on the mounted path. Saves are rate limited
// per client.
func SetupRoutes(store Store, sessions middleware.SessionFetcher, saveRate rate.Limit) http.Handler {
	r := chi.NewRouter()
	h := &Handler{Store: store}

	r.Use(middleware.SessionMiddleware(sessions))
	r.Get("/", h.GetState)
	r.With(middleware.RateLimit(saveRate, 1, saveClients)).Post("/", h.SaveState)

	return r
}
