package mapstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrNoState = errors.New("no saved view state")

// Store persists one view state per user.
type Store interface {
	Save(ctx context.Context, userID string, s *ViewState) error
	Find(ctx context.Context, userID string) (*ViewState, error)
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// Save replaces the user's state.
func (s *GormStore) Save(ctx context.Context, userID string, state *ViewState) error {
	if state.ID == uuid.Nil {
		state.ID = uuid.New()
	}
	state.UserID = userID
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"ids", "lon", "lat", "zoom", "checkboxes", "updated_at"}),
	}).Create(state).Error
	if err != nil {
		return fmt.Errorf("save view state for %s: %w", userID, err)
	}
	return nil
}

func (s *GormStore) Find(ctx context.Context, userID string) (*ViewState, error) {
	var state ViewState
	err := s.DB.WithContext(ctx).First(&state, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("find view state for %s: %w", userID, err)
	}
	return &state, nil
}
