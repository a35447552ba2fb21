package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  MovementType = "income"
	Expense MovementType = "expense"
)

const (
	StatusPending    MovementStatus = "pending"
	StatusClassified MovementStatus = "classified"
	StatusClosed     MovementStatus = "closed"
)

const (
	UnitBranch UnitType = "branch"
	UnitBrand  UnitType = "brand"
	UnitEvent  UnitType = "event"
	UnitOther  UnitType = "other"
)

// DefaultCurrency is applied when a movement is created without one.
const DefaultCurrency = "CRC"

// DefaultRole is assigned to users created through registration.
const DefaultRole = "user"

type (
	MovementType   string
	MovementStatus string
	UnitType       string

	// Movement is a single income or expense ledger entry. Every movement
	// belongs to exactly one user; UserID is the only authorization key.
	Movement struct {
		ID             string         `json:"id"`
		UserID         string         `json:"user_id,omitempty"`
		Type           MovementType   `json:"type"`
		Amount         float64        `json:"amount"`
		Currency       string         `json:"currency"`
		Description    string         `json:"description"`
		Responsible    *string        `json:"responsible"`
		BusinessUnitID *string        `json:"business_unit_id"`
		Status         MovementStatus `json:"status"`
		Date           string         `json:"date"`
		Tags           []string       `json:"tags"`
		CreatedAt      string         `json:"created_at"`
		UpdatedAt      string         `json:"updated_at"`
	}

	// BusinessUnit is a named organizational segment movements can be
	// attributed to. Units are shared reference data, not owned by anyone.
	BusinessUnit struct {
		ID        string   `json:"id"`
		Name      string   `json:"name"`
		Type      UnitType `json:"type"`
		CreatedAt string   `json:"created_at"`
	}

	// Tag is a catalog entry. Movements store tag names denormalized, so
	// the catalog has no referential integrity with movement tag sets.
	Tag struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		CreatedAt string `json:"created_at"`
	}

	// User is the internal record behind an external identity. FirebaseUID
	// is unique and immutable after creation.
	User struct {
		ID          string `json:"id"`
		FirebaseUID string `json:"firebase_uid"`
		Email       string `json:"email"`
		Phone       string `json:"phone"`
		DisplayName string `json:"display_name"`
		PhotoURL    string `json:"photo_url"`
		Provider    string `json:"provider"`
		Role        string `json:"role"`
		CreatedAt   string `json:"created_at"`
		UpdatedAt   string `json:"updated_at"`
	}

	// KPISummary holds the dashboard aggregates for one owner.
	KPISummary struct {
		TotalIncome   float64 `json:"total_income"`
		TotalExpense  float64 `json:"total_expense"`
		Balance       float64 `json:"balance"`
		MovementCount int     `json:"movement_count"`
		PendingCount  int     `json:"pending_count"`
	}
)

func (t MovementType) IsValid() bool {
	return t == Income || t == Expense
}

func (s MovementStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusClassified, StatusClosed:
		return true
	default:
		return false
	}
}

func (u UnitType) IsValid() bool {
	switch u {
	case UnitBranch, UnitBrand, UnitEvent, UnitOther:
		return true
	default:
		return false
	}
}

// ValidationError names the offending input field. HTTP handlers map it to 422.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// ValidateDate checks the business date format. The business date is distinct
// from the audit timestamps and is kept as a plain string end to end.
func ValidateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// MovementDraft carries the caller-supplied fields for creating a movement.
// Defaults (currency, status, empty tag set) are applied by NewMovement.
type MovementDraft struct {
	Type           string   `json:"type"`
	Amount         *float64 `json:"amount"`
	Currency       string   `json:"currency"`
	Description    string   `json:"description"`
	Responsible    *string  `json:"responsible"`
	BusinessUnitID *string  `json:"business_unit_id"`
	Status         string   `json:"status"`
	Date           string   `json:"date"`
	Tags           []string `json:"tags"`
}

func (d MovementDraft) Validate() error {
	if strings.TrimSpace(d.Type) == "" {
		return &ValidationError{Field: "type", Reason: "required"}
	}
	if !MovementType(d.Type).IsValid() {
		return &ValidationError{Field: "type", Reason: "must be income or expense"}
	}
	if d.Amount == nil {
		return &ValidationError{Field: "amount", Reason: "required"}
	}
	if *d.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if strings.TrimSpace(d.Date) == "" {
		return &ValidationError{Field: "date", Reason: "required"}
	}
	if err := ValidateDate(d.Date); err != nil {
		return &ValidationError{Field: "date", Reason: err.Error()}
	}
	if d.Status != "" && !MovementStatus(d.Status).IsValid() {
		return &ValidationError{Field: "status", Reason: "must be pending, classified or closed"}
	}
	return nil
}

// NewMovement builds a persisted movement from a validated draft. now is the
// audit timestamp used for both created_at and updated_at.
func NewMovement(id, ownerID string, d MovementDraft, now string) Movement {
	m := Movement{
		ID:             id,
		UserID:         ownerID,
		Type:           MovementType(d.Type),
		Amount:         *d.Amount,
		Currency:       d.Currency,
		Description:    d.Description,
		Responsible:    d.Responsible,
		BusinessUnitID: d.BusinessUnitID,
		Status:         MovementStatus(d.Status),
		Date:           d.Date,
		Tags:           d.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if m.Currency == "" {
		m.Currency = DefaultCurrency
	}
	if m.Status == "" {
		m.Status = StatusPending
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

// MovementPatch is a partial update. Nil fields are left untouched; an
// explicit JSON null decodes to nil and is therefore also "no change".
type MovementPatch struct {
	Type           *string   `json:"type"`
	Amount         *float64  `json:"amount"`
	Description    *string   `json:"description"`
	Responsible    *string   `json:"responsible"`
	BusinessUnitID *string   `json:"business_unit_id"`
	Status         *string   `json:"status"`
	Date           *string   `json:"date"`
	Tags           *[]string `json:"tags"`
}

func (p MovementPatch) Validate() error {
	if p.Type != nil && !MovementType(*p.Type).IsValid() {
		return &ValidationError{Field: "type", Reason: "must be income or expense"}
	}
	if p.Amount != nil && *p.Amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	if p.Status != nil && !MovementStatus(*p.Status).IsValid() {
		return &ValidationError{Field: "status", Reason: "must be pending, classified or closed"}
	}
	if p.Date != nil {
		if err := ValidateDate(*p.Date); err != nil {
			return &ValidationError{Field: "date", Reason: err.Error()}
		}
	}
	return nil
}

// Apply copies the non-nil patch fields onto m and refreshes updated_at.
func (p MovementPatch) Apply(m *Movement, now string) {
	if p.Type != nil {
		m.Type = MovementType(*p.Type)
	}
	if p.Amount != nil {
		m.Amount = *p.Amount
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Responsible != nil {
		m.Responsible = p.Responsible
	}
	if p.BusinessUnitID != nil {
		m.BusinessUnitID = p.BusinessUnitID
	}
	if p.Status != nil {
		m.Status = MovementStatus(*p.Status)
	}
	if p.Date != nil {
		m.Date = *p.Date
	}
	if p.Tags != nil {
		m.Tags = *p.Tags
	}
	m.UpdatedAt = now
}

// Now returns the audit timestamp format shared by both backends.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
