// Package seeds fills an empty database with a small set of wells around
// Middelburg so every map state can be tried locally.
package seeds

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/broconnector/gmw-map/internal/wells"
	"gorm.io/gorm"
)

// Demo is the seeded data.
type Demo struct {
	Organisations []wells.Organisation
	Wells         []wells.Well
	GLDs          []wells.GLD
}

func str(s string) *string { return &s }
func id(i int64) *int64    { return &i }
func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

// NewDemo builds the demo data with measurement dates relative to now.
func NewDemo(now time.Time) Demo {
	d := Demo{
		Organisations: []wells.Organisation{
			{ID: 9001, Name: "Provincie Zeeland (demo)", Color: "#1e88e5"},
			{ID: 9002, Name: "Waterschap Scheldestromen (demo)", Color: "#8e24aa"},
		},
	}

	// Fresh control, stale regular, nothing measured, no dossiers at all.
	d.GLDs = []wells.GLD{
		{ID: 90001, WellID: 9101, TubeNumber: 1, GLDBroID: "GLD000000090001",
			LatestMeasurementDateControle: daysAgo(now, 20),
			ObservationTypeControle:       str(wells.ObservationControl),
			StatusControle:                str(wells.StatusValidated),
			LatestObservationIDControle:   id(1)},
		{ID: 90002, WellID: 9101, TubeNumber: 2, GLDBroID: "GLD000000090002",
			LatestMeasurementDateRegular: daysAgo(now, 45),
			ObservationTypeRegular:       str(wells.ObservationRegular),
			StatusRegular:                str(wells.StatusTentative),
			LatestObservationIDRegular:   id(2)},
		{ID: 90003, WellID: 9102, TubeNumber: 1, GLDBroID: "GLD000000090003",
			LatestMeasurementDateControle: daysAgo(now, 400),
			ObservationTypeControle:       str(wells.ObservationControl),
			StatusControle:                str(wells.StatusUnknown),
			LatestMeasurementDateRegular:  daysAgo(now, 10),
			ObservationTypeRegular:        str(wells.ObservationRegular),
			StatusRegular:                 str(wells.StatusTentative)},
		{ID: 90004, WellID: 9103, TubeNumber: 1, GLDBroID: "GLD000000090004"},
	}

	d.Wells = []wells.Well{
		{ID: 9101, WellCode: "ZL-DEMO-01", BroID: "GMW000000090101", NitgCode: "B48E0901",
			Lon: 3.6136, Lat: 51.4988, DeliveryAccountableParty: 9001,
			LinkedGMNs: []string{"KRW"}, DeliverGMWToBRO: true, CompleteBRO: true, InManagement: true,
			GLDs: []int64{90001, 90002}},
		{ID: 9102, WellCode: "ZL-DEMO-02", BroID: "GMW000000090102", NitgCode: "B48E0902",
			Lon: 3.6402, Lat: 51.5120, DeliveryAccountableParty: 9001,
			LinkedGMNs: []string{"KRW", "Provinciaal"}, DeliverGMWToBRO: true, InManagement: true,
			GLDs: []int64{90003}},
		{ID: 9103, WellCode: "ZL-DEMO-03", BroID: "GMW000000090103", NitgCode: "B48E0903",
			Lon: 3.5871, Lat: 51.4842, DeliveryAccountableParty: 9002,
			InManagement: true, GLDs: []int64{90004}},
		{ID: 9104, WellCode: "ZL-DEMO-04", NitgCode: "B48E0904",
			Lon: 3.6250, Lat: 51.4755, DeliveryAccountableParty: 9002,
			LinkedGMNs: []string{"Provinciaal"}, InManagement: true},
	}
	return d
}

// SeedAll inserts the demo rows that are not there yet.
func SeedAll(d *gorm.DB, now time.Time) error {
	demo := NewDemo(now)

	for _, o := range demo.Organisations {
		if err := createMissing(d, &o, "id = ?", o.ID, o.Name); err != nil {
			return err
		}
	}
	for _, g := range demo.GLDs {
		if err := createMissing(d, &g, "groundwater_level_dossier_id = ?", g.ID, g.GLDBroID); err != nil {
			return err
		}
	}
	for _, w := range demo.Wells {
		if err := createMissing(d, &w, "groundwater_monitoring_well_static_id = ?", w.ID, w.WellCode); err != nil {
			return err
		}
	}

	log.Printf("Seeded %d organisations, %d wells, %d dossiers",
		len(demo.Organisations), len(demo.Wells), len(demo.GLDs))
	return nil
}

func createMissing[T any](d *gorm.DB, row *T, where string, key int64, name string) error {
	var existing T
	err := d.First(&existing, where, key).Error
	if err == nil {
		log.Printf("Exists, skipping: %s", name)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("DB error on %s: %w", name, err)
	}
	if err := d.Create(row).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	return nil
}
