package services

import (
	"context"
	"errors"
	"testing"

	"suma/internal/core"
	"suma/internal/ledger/document"
)

func TestCreateBusinessUnit(t *testing.T) {
	ctx := context.Background()
	svc := NewReferenceService(document.New())

	unit, err := svc.CreateBusinessUnit(ctx, BusinessUnitDraft{Name: "Sucursal Centro", Type: "branch"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if unit.ID == "" || unit.Type != core.UnitBranch {
		t.Fatalf("unit wrong: %+v", unit)
	}

	units, err := svc.BusinessUnits(ctx)
	if err != nil || len(units) != 1 {
		t.Fatalf("list: %v %+v", err, units)
	}
}

func TestCreateBusinessUnitDefaultsType(t *testing.T) {
	svc := NewReferenceService(document.New())

	unit, err := svc.CreateBusinessUnit(context.Background(), BusinessUnitDraft{Name: "Misc"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if unit.Type != core.UnitOther {
		t.Fatalf("type=%s, want other", unit.Type)
	}
}

func TestCreateBusinessUnitValidation(t *testing.T) {
	svc := NewReferenceService(document.New())
	var vErr *core.ValidationError

	if _, err := svc.CreateBusinessUnit(context.Background(), BusinessUnitDraft{Name: "  "}); !errors.As(err, &vErr) {
		t.Fatalf("blank name: got %v, want ValidationError", err)
	}
	if _, err := svc.CreateBusinessUnit(context.Background(), BusinessUnitDraft{Name: "X", Type: "franchise"}); !errors.As(err, &vErr) {
		t.Fatalf("bad type: got %v, want ValidationError", err)
	}
}

func TestCreateTag(t *testing.T) {
	ctx := context.Background()
	svc := NewReferenceService(document.New())

	tag, err := svc.CreateTag(ctx, TagDraft{Name: "SINPE"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tag.ID == "" || tag.Name != "SINPE" {
		t.Fatalf("tag wrong: %+v", tag)
	}

	var vErr *core.ValidationError
	if _, err := svc.CreateTag(ctx, TagDraft{}); !errors.As(err, &vErr) {
		t.Fatalf("blank name: got %v, want ValidationError", err)
	}

	tags, err := svc.Tags(ctx)
	if err != nil || len(tags) != 1 {
		t.Fatalf("list: %v %+v", err, tags)
	}
}
