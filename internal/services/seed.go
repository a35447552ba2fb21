package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"suma/internal/core"
	"suma/internal/ledger"
)

// SeedResult reports what the seed call did.
type SeedResult struct {
	AlreadySeeded bool
	MovementCount int
	Units         int
	Tags          int
}

// SeedDemo loads the fixed demonstration dataset once. A second call is a
// no-op that reports the existing movement count. The check is unscoped on
// purpose: demo movements carry no owner and never show up in scoped lists.
func (s *MovementService) SeedDemo(ctx context.Context) (SeedResult, error) {
	count, err := s.store.MovementCount(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("count movements: %w", err)
	}
	if count > 0 {
		return SeedResult{AlreadySeeded: true, MovementCount: count}, nil
	}

	set := demoSeedSet(core.Now())
	if err := s.store.Seed(ctx, set); err != nil {
		return SeedResult{}, fmt.Errorf("seed demo data: %w", err)
	}
	return SeedResult{
		MovementCount: len(set.Movements),
		Units:         len(set.Units),
		Tags:          len(set.Tags),
	}, nil
}

func demoSeedSet(now string) ledger.SeedSet {
	units := []core.BusinessUnit{
		{ID: uuid.NewString(), Name: "Sucursal Centro", Type: core.UnitBranch, CreatedAt: now},
		{ID: uuid.NewString(), Name: "Feria del Agricultor", Type: core.UnitEvent, CreatedAt: now},
	}
	tags := []core.Tag{
		{ID: uuid.NewString(), Name: "SINPE", CreatedAt: now},
		{ID: uuid.NewString(), Name: "Efectivo", CreatedAt: now},
		{ID: uuid.NewString(), Name: "Proveedor", CreatedAt: now},
	}

	str := func(s string) *string { return &s }
	movements := []core.Movement{
		{
			ID: uuid.NewString(), Type: core.Income, Amount: 45000, Currency: core.DefaultCurrency,
			Description: "Venta de cafe molido", Responsible: str("Maria"),
			BusinessUnitID: &units[0].ID, Status: core.StatusClassified,
			Date: "2026-01-15", Tags: []string{"SINPE"}, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.NewString(), Type: core.Expense, Amount: 12000, Currency: core.DefaultCurrency,
			Description: "Compra de bolsas",
			BusinessUnitID: &units[0].ID, Status: core.StatusPending,
			Date: "2026-01-16", Tags: []string{"Proveedor"}, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.NewString(), Type: core.Income, Amount: 75000, Currency: core.DefaultCurrency,
			Description: "Ventas feria sabado", Responsible: str("Carlos"),
			BusinessUnitID: &units[1].ID, Status: core.StatusPending,
			Date: "2026-01-18", Tags: []string{"Efectivo"}, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.NewString(), Type: core.Expense, Amount: 8500, Currency: core.DefaultCurrency,
			Description: "Gasolina transporte", Responsible: str("Carlos"),
			BusinessUnitID: &units[1].ID, Status: core.StatusClassified,
			Date: "2026-01-18", Tags: []string{"Efectivo"}, CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: uuid.NewString(), Type: core.Income, Amount: 32000, Currency: core.DefaultCurrency,
			Description: "Pedido especial empanadas", Responsible: str("Maria"),
			Status: core.StatusPending,
			Date: "2026-01-20", Tags: []string{"SINPE"}, CreatedAt: now, UpdatedAt: now,
		},
	}

	return ledger.SeedSet{Units: units, Tags: tags, Movements: movements}
}
