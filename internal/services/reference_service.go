package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"suma/internal/core"
	"suma/internal/ledger"
)

// BusinessUnitDraft and TagDraft carry the caller-supplied fields for
// creating reference records.
type BusinessUnitDraft struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type TagDraft struct {
	Name string `json:"name"`
}

// ReferenceService manages the shared business unit and tag catalogs.
// Reference data is unscoped: every user reads and writes the same records.
type ReferenceService struct {
	store ledger.ReferenceStore
}

func NewReferenceService(store ledger.ReferenceStore) *ReferenceService {
	return &ReferenceService{store: store}
}

func (s *ReferenceService) BusinessUnits(ctx context.Context) ([]core.BusinessUnit, error) {
	return s.store.BusinessUnits(ctx)
}

func (s *ReferenceService) CreateBusinessUnit(ctx context.Context, draft BusinessUnitDraft) (core.BusinessUnit, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return core.BusinessUnit{}, &core.ValidationError{Field: "name", Reason: "required"}
	}
	unitType := core.UnitType(draft.Type)
	if draft.Type == "" {
		unitType = core.UnitOther
	}
	if !unitType.IsValid() {
		return core.BusinessUnit{}, &core.ValidationError{Field: "type", Reason: "must be branch, brand, event or other"}
	}
	unit := core.BusinessUnit{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		Type:      unitType,
		CreatedAt: core.Now(),
	}
	if err := s.store.CreateBusinessUnit(ctx, unit); err != nil {
		return core.BusinessUnit{}, fmt.Errorf("create business unit: %w", err)
	}
	return unit, nil
}

func (s *ReferenceService) Tags(ctx context.Context) ([]core.Tag, error) {
	return s.store.Tags(ctx)
}

func (s *ReferenceService) CreateTag(ctx context.Context, draft TagDraft) (core.Tag, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return core.Tag{}, &core.ValidationError{Field: "name", Reason: "required"}
	}
	tag := core.Tag{
		ID:        uuid.NewString(),
		Name:      draft.Name,
		CreatedAt: core.Now(),
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		return core.Tag{}, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}
