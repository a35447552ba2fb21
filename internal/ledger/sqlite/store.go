// Package sqlite implements the ledger contract on a relational schema. It is
// the durable sibling of the document backend; both satisfy ledger.Store and
// the wiring layer treats them interchangeably.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"suma/internal/core"
	"suma/internal/ledger"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ ledger.Store = (*Store)(nil)

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const movementColumns = `id, user_id, type, amount, currency, description, responsible,
	business_unit_id, status, date, tags, created_at, updated_at`

func scanMovement(row interface{ Scan(...any) error }) (core.Movement, error) {
	var (
		m           core.Movement
		responsible sql.NullString
		unitID      sql.NullString
		tagsJSON    string
	)
	err := row.Scan(&m.ID, &m.UserID, &m.Type, &m.Amount, &m.Currency, &m.Description,
		&responsible, &unitID, &m.Status, &m.Date, &tagsJSON, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return core.Movement{}, err
	}
	if responsible.Valid {
		m.Responsible = &responsible.String
	}
	if unitID.Valid {
		m.BusinessUnitID = &unitID.String
	}
	if err := json.Unmarshal([]byte(tagsJSON), &m.Tags); err != nil {
		return core.Movement{}, fmt.Errorf("decode tags for movement %s: %w", m.ID, err)
	}
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m, nil
}

func (s *Store) Movements(ctx context.Context, ownerID string, f ledger.MovementFilter) ([]core.Movement, error) {
	f = f.Normalize()

	query := `SELECT ` + movementColumns + ` FROM movements WHERE user_id = ?`
	args := []any{ownerID}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	out := []core.Movement{}
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movements: %w", err)
	}
	return out, nil
}

func (s *Store) CreateMovement(ctx context.Context, m core.Movement) error {
	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO movements
		(id, user_id, type, amount, currency, description, responsible,
		 business_unit_id, status, date, tags, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Type, m.Amount, m.Currency, m.Description,
		nullable(m.Responsible), nullable(m.BusinessUnitID), m.Status, m.Date,
		string(tags), m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

func (s *Store) UpdateMovement(ctx context.Context, ownerID, id string, patch core.MovementPatch, now string) (core.Movement, error) {
	// Read-modify-write keeps the patch semantics identical to the document
	// backend. Last write wins; there is no version check by design of the
	// original system.
	row := s.db.QueryRowContext(ctx, `SELECT `+movementColumns+` FROM movements
		WHERE id = ? AND user_id = ?`, id, ownerID)
	m, err := scanMovement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Movement{}, ledger.ErrNotFound
	}
	if err != nil {
		return core.Movement{}, fmt.Errorf("load movement: %w", err)
	}

	patch.Apply(&m, now)

	tags, err := json.Marshal(m.Tags)
	if err != nil {
		return core.Movement{}, fmt.Errorf("encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `UPDATE movements SET
		type = ?, amount = ?, currency = ?, description = ?, responsible = ?,
		business_unit_id = ?, status = ?, date = ?, tags = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		m.Type, m.Amount, m.Currency, m.Description, nullable(m.Responsible),
		nullable(m.BusinessUnitID), m.Status, m.Date, string(tags), m.UpdatedAt,
		id, ownerID)
	if err != nil {
		return core.Movement{}, fmt.Errorf("update movement: %w", err)
	}
	return m, nil
}

func (s *Store) DeleteMovement(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM movements WHERE id = ? AND user_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// Summarize runs the aggregate queries concurrently, the way the original ran
// its parallel aggregation pipelines. The snapshot is only as consistent as
// concurrent writers allow, which is acceptable for a dashboard figure.
func (s *Store) Summarize(ctx context.Context, ownerID string, period core.Period) (core.KPISummary, error) {
	since := period.Start(time.Now().UTC())
	window := ``
	args := []any{ownerID}
	if since != "" {
		window = ` AND date >= ?`
		args = append(args, since)
	}

	var sum core.KPISummary
	g, ctx := errgroup.WithContext(ctx)

	sumQuery := func(kind core.MovementType, dst *float64) func() error {
		return func() error {
			q := `SELECT COALESCE(SUM(amount), 0) FROM movements WHERE user_id = ? AND type = '` + string(kind) + `'` + window
			if err := s.db.QueryRowContext(ctx, q, args...).Scan(dst); err != nil {
				return fmt.Errorf("sum %s: %w", kind, err)
			}
			return nil
		}
	}
	g.Go(sumQuery(core.Income, &sum.TotalIncome))
	g.Go(sumQuery(core.Expense, &sum.TotalExpense))
	g.Go(func() error {
		q := `SELECT COUNT(*) FROM movements WHERE user_id = ?` + window
		if err := s.db.QueryRowContext(ctx, q, args...).Scan(&sum.MovementCount); err != nil {
			return fmt.Errorf("count movements: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		q := `SELECT COUNT(*) FROM movements WHERE user_id = ? AND status = 'pending'` + window
		if err := s.db.QueryRowContext(ctx, q, args...).Scan(&sum.PendingCount); err != nil {
			return fmt.Errorf("count pending: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return core.KPISummary{}, err
	}
	sum.Balance = sum.TotalIncome - sum.TotalExpense
	return sum, nil
}

func (s *Store) BusinessUnits(ctx context.Context) ([]core.BusinessUnit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, type, created_at FROM business_units LIMIT ?`, ledger.ReferenceListCap)
	if err != nil {
		return nil, fmt.Errorf("list business units: %w", err)
	}
	defer rows.Close()

	out := []core.BusinessUnit{}
	for rows.Next() {
		var u core.BusinessUnit
		if err := rows.Scan(&u.ID, &u.Name, &u.Type, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan business unit: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateBusinessUnit(ctx context.Context, u core.BusinessUnit) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO business_units (id, name, type, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, u.Type, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert business unit: %w", err)
	}
	return nil
}

func (s *Store) Tags(ctx context.Context) ([]core.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at FROM tags LIMIT ?`, ledger.ReferenceListCap)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	out := []core.Tag{}
	for rows.Next() {
		var t core.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) CreateTag(ctx context.Context, t core.Tag) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (s *Store) UserByFirebaseUID(ctx context.Context, uid string) (core.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, firebase_uid, email, phone, display_name,
		photo_url, provider, role, created_at, updated_at FROM users WHERE firebase_uid = ?`, uid)
	var u core.User
	err := row.Scan(&u.ID, &u.FirebaseUID, &u.Email, &u.Phone, &u.DisplayName,
		&u.PhotoURL, &u.Provider, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, ledger.ErrNotRegistered
	}
	if err != nil {
		return core.User{}, fmt.Errorf("load user: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO users
		(id, firebase_uid, email, phone, display_name, photo_url, provider, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.FirebaseUID, u.Email, u.Phone, u.DisplayName, u.PhotoURL,
		u.Provider, u.Role, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *Store) UpdateUser(ctx context.Context, u core.User) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET email = ?, phone = ?,
		display_name = ?, photo_url = ?, provider = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		u.Email, u.Phone, u.DisplayName, u.PhotoURL, u.Provider, u.Role, u.UpdatedAt, u.ID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

func (s *Store) MovementCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM movements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

// Seed inserts the demonstration dataset in one transaction.
func (s *Store) Seed(ctx context.Context, set ledger.SeedSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback()

	for _, u := range set.Units {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO business_units (id, name, type, created_at) VALUES (?, ?, ?, ?)`,
			u.ID, u.Name, u.Type, u.CreatedAt); err != nil {
			return fmt.Errorf("seed business unit: %w", err)
		}
	}
	for _, t := range set.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (id, name, created_at) VALUES (?, ?, ?)`,
			t.ID, t.Name, t.CreatedAt); err != nil {
			return fmt.Errorf("seed tag: %w", err)
		}
	}
	for _, m := range set.Movements {
		tags, err := json.Marshal(m.Tags)
		if err != nil {
			return fmt.Errorf("encode seed tags: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO movements
			(id, user_id, type, amount, currency, description, responsible,
			 business_unit_id, status, date, tags, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, m.UserID, m.Type, m.Amount, m.Currency, m.Description,
			nullable(m.Responsible), nullable(m.BusinessUnitID), m.Status, m.Date,
			string(tags), m.CreatedAt, m.UpdatedAt); err != nil {
			return fmt.Errorf("seed movement: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) RecordEvent(ctx context.Context, e ledger.Event) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO movement_events
		(id, movement_id, user_id, action, occurred_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.MovementID, e.UserID, e.Action, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert movement event: %w", err)
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
