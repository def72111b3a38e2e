package wells

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var ErrWellNotFound = errors.New("well not found")

// Store reads map snapshots from the BRO connector tables.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// Load reads every well with its dossiers and the organisations accountable
// for them.
func (s *Store) Load(ctx context.Context) (*Dataset, error) {
	var wells []Well
	if err := s.DB.WithContext(ctx).Order("groundwater_monitoring_well_static_id").Find(&wells).Error; err != nil {
		return nil, fmt.Errorf("load wells: %w", err)
	}
	return s.complete(ctx, wells)
}

// LoadWell reads a snapshot holding a single well.
func (s *Store) LoadWell(ctx context.Context, id int64) (*Dataset, error) {
	var well Well
	err := s.DB.WithContext(ctx).First(&well, "groundwater_monitoring_well_static_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWellNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load well %d: %w", id, err)
	}
	return s.complete(ctx, []Well{well})
}

func (s *Store) complete(ctx context.Context, wells []Well) (*Dataset, error) {
	gldIDs := make([]int64, 0, len(wells))
	partyIDs := make([]int64, 0, len(wells))
	seenParty := map[int64]struct{}{}
	for _, w := range wells {
		gldIDs = append(gldIDs, w.GLDs...)
		if _, ok := seenParty[w.DeliveryAccountableParty]; !ok {
			seenParty[w.DeliveryAccountableParty] = struct{}{}
			partyIDs = append(partyIDs, w.DeliveryAccountableParty)
		}
	}

	var glds []GLD
	if len(gldIDs) > 0 {
		if err := s.DB.WithContext(ctx).Where("groundwater_level_dossier_id IN ?", gldIDs).Find(&glds).Error; err != nil {
			return nil, fmt.Errorf("load glds: %w", err)
		}
	}

	var orgs []Organisation
	if len(partyIDs) > 0 {
		if err := s.DB.WithContext(ctx).Where("id IN ?", partyIDs).Order("id").Find(&orgs).Error; err != nil {
			return nil, fmt.Errorf("load organisations: %w", err)
		}
	}

	return NewDataset(wells, glds, orgs), nil
}
