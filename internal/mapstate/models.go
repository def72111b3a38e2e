package mapstate

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ViewState is the map position and checkbox state a user last saved. The
// validation page limits its wells to IDs when a state exists.
type ViewState struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"-"`
	UserID     string          `gorm:"not null;uniqueIndex" json:"-"`
	IDs        pq.Int64Array   `gorm:"type:bigint[];column:ids" json:"ids"`
	Lon        *float64        `json:"lon"`
	Lat        *float64        `json:"lat"`
	Zoom       *float64        `json:"zoom"`
	Checkboxes map[string]bool `gorm:"type:jsonb;serializer:json" json:"checkboxes"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (ViewState) TableName() string { return "gmw_map.view_states" }

// HasPosition reports whether the state carries a complete map position.
func (s *ViewState) HasPosition() bool {
	return s != nil && s.Lon != nil && s.Lat != nil && s.Zoom != nil
}
