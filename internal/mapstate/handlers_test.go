package mapstate_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/broconnector/gmw-map/internal/mapstate"
	"github.com/broconnector/gmw-map/internal/utils"
	"golang.org/x/time/rate"
)

type memStore struct {
	mu     sync.Mutex
	states map[string]*mapstate.ViewState
	err    error
}

func newMemStore() *memStore {
	return &memStore{states: map[string]*mapstate.ViewState{}}
}

func (m *memStore) Save(_ context.Context, userID string, s *mapstate.ViewState) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s.UserID = userID
	m.states[userID] = s
	return nil
}

func (m *memStore) Find(_ context.Context, userID string) (*mapstate.ViewState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[userID]
	if !ok {
		return nil, mapstate.ErrNoState
	}
	return s, nil
}

// sessions maps the cookie value straight to a user id.
type sessions struct{}

func (sessions) FindSessionByID(id string) (utils.SessionData, error) {
	if id == "" {
		return utils.SessionData{}, errors.New("no session")
	}
	return utils.SessionData{UserID: id, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func request(t *testing.T, h http.Handler, method, user, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	if user != "" {
		req.AddCookie(&http.Cookie{Name: "session_id", Value: user})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSaveAndGetState(t *testing.T) {
	store := newMemStore()
	h := mapstate.SetupRoutes(store, sessions{}, rate.Inf)

	rec := request(t, h, http.MethodGet, "anna", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before saving, got %d", rec.Code)
	}

	body := `{"ids":[3,5],"lon":3.9,"lat":51.5,"zoom":11,"checkboxes":{"org-1":false}}`
	rec = request(t, h, http.MethodPost, "anna", body)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = request(t, h, http.MethodGet, "anna", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got mapstate.ViewState
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(got.IDs) != 2 || got.IDs[1] != 5 {
		t.Errorf("unexpected ids %v", got.IDs)
	}
	if !got.HasPosition() || *got.Zoom != 11 {
		t.Errorf("expected position to round-trip, got %+v", got)
	}
	if v, ok := got.Checkboxes["org-1"]; !ok || v {
		t.Errorf("unexpected checkboxes %v", got.Checkboxes)
	}

	if rec := request(t, h, http.MethodGet, "bert", ""); rec.Code != http.StatusNotFound {
		t.Errorf("state must be per user, got %d", rec.Code)
	}
}

func TestSaveStateRejectsBadBody(t *testing.T) {
	h := mapstate.SetupRoutes(newMemStore(), sessions{}, rate.Inf)
	rec := request(t, h, http.MethodPost, "anna", `{"ids":"nope"`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestSaveStateRequiresSession(t *testing.T) {
	h := mapstate.SetupRoutes(newMemStore(), sessions{}, rate.Inf)
	rec := request(t, h, http.MethodPost, "", `{}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestSaveStateStoreFailure(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	h := mapstate.SetupRoutes(store, sessions{}, rate.Inf)

	rec := request(t, h, http.MethodPost, "anna", `{"ids":[1]}`)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestSaveStateIsRateLimited(t *testing.T) {
	h := mapstate.SetupRoutes(newMemStore(), sessions{}, rate.Every(time.Minute))

	if rec := request(t, h, http.MethodPost, "anna", `{}`); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec := request(t, h, http.MethodPost, "anna", `{}`); rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", rec.Code)
	}
	if rec := request(t, h, http.MethodGet, "anna", ""); rec.Code != http.StatusOK {
		t.Errorf("reads are not limited, got %d", rec.Code)
	}
}

func TestHasPosition(t *testing.T) {
	var nilState *mapstate.ViewState
	if nilState.HasPosition() {
		t.Error("nil state has no position")
	}
	lon, lat := 4.0, 52.0
	if (&mapstate.ViewState{Lon: &lon, Lat: &lat}).HasPosition() {
		t.Error("a state without zoom has no position")
	}
}
