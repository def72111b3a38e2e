package wells

import (
	"strconv"
	"time"

	"github.com/lib/pq"
)

// Observation types as they are stored on a GLD.
const (
	ObservationControl = "controlemeting"
	ObservationRegular = "reguliereMeting"
)

// Validation statuses as they are stored on a GLD.
const (
	StatusValidated = "volledigBeoordeeld"
	StatusTentative = "voorlopig"
	StatusUnknown   = "onbekend"
)

// Organisation is a party accountable for delivering well data.
type Organisation struct {
	ID    int64  `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"uniqueIndex" json:"name"`
	Color string `json:"color"`
}

func (Organisation) TableName() string { return "bro.organisation" }

// Well is the static part of a groundwater monitoring well.
type Well struct {
	ID                       int64          `gorm:"primaryKey;column:groundwater_monitoring_well_static_id" json:"groundwater_monitoring_well_static_id"`
	BroID                    string         `gorm:"index" json:"bro_id"`
	WellCode                 string         `json:"well_code"`
	NitgCode                 string         `gorm:"index" json:"nitg_code"`
	Lon                      float64        `json:"lon"`
	Lat                      float64        `json:"lat"`
	DeliveryAccountableParty int64          `gorm:"index" json:"delivery_accountable_party"`
	LinkedGMNs               pq.StringArray `gorm:"type:text[];column:linked_gmns" json:"linked_gmns"`
	DeliverGMWToBRO          bool           `gorm:"column:deliver_gmw_to_bro" json:"deliver_gmw_to_bro"`
	CompleteBRO              bool           `gorm:"column:complete_bro" json:"complete_bro"`
	InManagement             bool           `gorm:"default:true" json:"in_management"`
	GLDs                     pq.Int64Array  `gorm:"type:bigint[];column:glds" json:"glds"`
	Picture                  string         `json:"picture"`
}

func (Well) TableName() string { return "gmw.groundwater_monitoring_well_static" }

// Label is the short name drawn next to the marker and shown in search.
func (w *Well) Label() string {
	switch {
	case w.WellCode != "":
		return w.WellCode
	case w.BroID != "":
		return w.BroID
	default:
		return strconv.FormatInt(w.ID, 10)
	}
}

// Value returns the boolean well attribute used by the tri-state filters.
func (w *Well) Value(key string) (bool, bool) {
	switch key {
	case "deliver_gmw_to_bro":
		return w.DeliverGMWToBRO, true
	case "complete_bro":
		return w.CompleteBRO, true
	case "in_management":
		return w.InManagement, true
	}
	return false, false
}

// GLD is a groundwater level dossier for one tube. The measurement fields are
// kept per observation type; which one is shown depends on the active filters.
type GLD struct {
	ID         int64  `gorm:"primaryKey;column:groundwater_level_dossier_id" json:"groundwater_level_dossier_id"`
	GLDBroID   string `gorm:"column:gld_bro_id" json:"gld_bro_id"`
	TubeNumber int    `json:"tube_number"`
	WellID     int64  `gorm:"index" json:"well_id"`

	LatestMeasurementDateControle *time.Time `json:"latest_measurement_date_controle"`
	LatestMeasurementDateRegular  *time.Time `json:"latest_measurement_date_regular"`
	ObservationTypeControle       *string    `json:"observation_type_controle"`
	ObservationTypeRegular        *string    `json:"observation_type_regular"`
	StatusControle                *string    `json:"status_controle"`
	StatusRegular                 *string    `json:"status_regular"`
	LatestObservationIDControle   *int64     `json:"latest_observation_id_controle"`
	LatestObservationIDRegular    *int64     `json:"latest_observation_id_regular"`
}

func (GLD) TableName() string { return "gld.groundwater_level_dossier" }
