package wellimport

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/broconnector/gmw-map/internal/db"
	"github.com/broconnector/gmw-map/internal/wells"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Config struct {
	CSVPath     string
	DatabaseURL string
	OutputPath  string
	// GMN is added to the linked networks of every imported well when set.
	GMN  string
	BBox BBox
}

func Run(cfg Config) error {
	rows, err := ParseFile(cfg.CSVPath)
	if err != nil {
		return err
	}
	kept := Filter(rows, cfg.BBox)
	log.Printf("[wellimport] %d of %d rows left after filtering", len(kept), len(rows))

	d, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := wells.Migrate(d); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	var results []Result
	err = d.Transaction(func(tx *gorm.DB) error {
		results, err = Import(tx, kept, cfg.GMN)
		return err
	})
	if err != nil {
		return err
	}

	s := Summarize(results)
	log.Printf("[wellimport] wells found=%d added=%d, tubes found=%d added=%d",
		s.WellsFound, s.WellsAdded, s.TubesFound, s.TubesAdded)

	if cfg.OutputPath == "" {
		return nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteReport(f, results)
}

// Import creates missing organisations, wells and tube dossiers. Existing
// wells are matched on NITG code and existing dossiers on tube number.
func Import(tx *gorm.DB, rows []Row, gmn string) ([]Result, error) {
	orgs := map[string]int64{}
	results := make([]Result, 0, len(rows))

	for _, r := range rows {
		var partyID int64
		if r.Organisation != "" {
			id, ok := orgs[r.Organisation]
			if !ok {
				var err error
				if id, err = organisationID(tx, r.Organisation); err != nil {
					return nil, fmt.Errorf("row %d: %w", r.Line, err)
				}
				orgs[r.Organisation] = id
			}
			partyID = id
		}

		well, added, err := findOrCreateWell(tx, r, partyID)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Line, err)
		}

		gmns := r.GMNs
		if gmn != "" {
			gmns = append(slices.Clone(gmns), gmn)
		}
		if err := linkGMNs(tx, well, gmns); err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Line, err)
		}

		tubeAdded, err := ensureDossier(tx, well, r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.Line, err)
		}

		results = append(results, Result{
			NitgCode:   r.NitgCode,
			TubeNumber: r.TubeNumber,
			WellAdded:  added,
			TubeAdded:  tubeAdded,
		})
	}
	return results, nil
}

// organisationID returns the id of the named organisation, creating it when
// needed. A concurrent import may create it first; that insert then fails on
// the unique name and the existing row is used.
func organisationID(tx *gorm.DB, name string) (int64, error) {
	var org wells.Organisation
	err := tx.First(&org, "name = ?", name).Error
	if err == nil {
		return org.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("look up organisation %q: %w", name, err)
	}

	org = wells.Organisation{Name: name}
	err = tx.Transaction(func(sp *gorm.DB) error {
		return sp.Create(&org).Error
	})
	if isUniqueViolation(err) {
		if err := tx.First(&org, "name = ?", name).Error; err != nil {
			return 0, fmt.Errorf("reload organisation %q: %w", name, err)
		}
		return org.ID, nil
	}
	if err != nil {
		return 0, fmt.Errorf("create organisation %q: %w", name, err)
	}
	return org.ID, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func findOrCreateWell(tx *gorm.DB, r Row, partyID int64) (*wells.Well, bool, error) {
	var well wells.Well
	err := tx.Where("nitg_code = ?", r.NitgCode).
		Order("groundwater_monitoring_well_static_id").
		First(&well).Error
	if err == nil {
		return &well, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("look up well %s: %w", r.NitgCode, err)
	}

	well = wells.Well{
		NitgCode:                 r.NitgCode,
		BroID:                    r.BroID,
		WellCode:                 r.WellCode,
		Lon:                      r.Lon,
		Lat:                      r.Lat,
		DeliveryAccountableParty: partyID,
	}
	if well.WellCode == "" {
		well.WellCode = r.NitgCode
	}
	if err := tx.Create(&well).Error; err != nil {
		return nil, false, fmt.Errorf("create well %s: %w", r.NitgCode, err)
	}
	// New wells are not yet managed by us. The column defaults to true, so
	// the zero value has to be written explicitly.
	if err := tx.Model(&well).Update("in_management", false).Error; err != nil {
		return nil, false, fmt.Errorf("update well %s: %w", r.NitgCode, err)
	}
	well.InManagement = false
	return &well, true, nil
}

func linkGMNs(tx *gorm.DB, well *wells.Well, gmns []string) error {
	missing := false
	for _, g := range gmns {
		if !slices.Contains(well.LinkedGMNs, g) {
			well.LinkedGMNs = append(well.LinkedGMNs, g)
			missing = true
		}
	}
	if !missing {
		return nil
	}
	if err := tx.Model(well).Update("linked_gmns", well.LinkedGMNs).Error; err != nil {
		return fmt.Errorf("link networks to %s: %w", well.NitgCode, err)
	}
	return nil
}

func ensureDossier(tx *gorm.DB, well *wells.Well, r Row) (bool, error) {
	var gld wells.GLD
	err := tx.Where("well_id = ? AND tube_number = ?", well.ID, r.TubeNumber).First(&gld).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("look up tube %s-%d: %w", r.NitgCode, r.TubeNumber, err)
	}

	gld = wells.GLD{WellID: well.ID, TubeNumber: r.TubeNumber, GLDBroID: r.GLDBroID}
	if err := tx.Create(&gld).Error; err != nil {
		return false, fmt.Errorf("create tube %s-%d: %w", r.NitgCode, r.TubeNumber, err)
	}
	well.GLDs = append(well.GLDs, gld.ID)
	if err := tx.Model(well).Update("glds", well.GLDs).Error; err != nil {
		return false, fmt.Errorf("link tube %s-%d: %w", r.NitgCode, r.TubeNumber, err)
	}
	return true, nil
}
