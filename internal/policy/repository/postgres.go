package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"insurance-claims/backend/internal/policy/domain"
)

const detailColumns = `
	p.id, p.name, p.description, p.created_by_id, p.status, p.effective_at_date,
	p.created_at, p.updated_at,
	u.email, u.first_name, u.last_name`

const detailFrom = `
	FROM policies p
	LEFT JOIN users u ON p.created_by_id = u.id`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a policy repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the policy. The policy must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, p *domain.Policy) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO policies (id, name, description, created_by_id, status,
			effective_at_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, nullString(p.CreatedByID), string(p.Status),
		p.EffectiveAt, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetByID returns the policy joined with creator display fields, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+detailColumns+detailFrom+" WHERE p.id = $1", id)
	d, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// List returns policies matching the filter. Sort fields outside the
// whitelist fall back to created_at; order defaults to descending.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Detail, error) {
	query := "SELECT" + detailColumns + detailFrom + " WHERE 1=1"
	args := []interface{}{}
	i := 1
	if filter.Status != "" {
		query += " AND p.status = $" + strconv.Itoa(i)
		args = append(args, string(filter.Status))
		i++
	}
	query += " ORDER BY p." + sortField(filter.SortBy) + " " + sortOrder(filter.SortOrder)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Update applies the given fields and returns the changed-row count.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields UpdateFields, now time.Time) (int64, error) {
	sets := []string{}
	args := []interface{}{}
	i := 1
	add := func(col string, val interface{}) {
		sets = append(sets, col+" = $"+strconv.Itoa(i))
		args = append(args, val)
		i++
	}
	if fields.Name != nil {
		add("name", *fields.Name)
	}
	if fields.Description != nil {
		add("description", *fields.Description)
	}
	if fields.Status != nil {
		add("status", string(*fields.Status))
	}
	if fields.EffectiveAt != nil {
		add("effective_at_date", *fields.EffectiveAt)
	}
	if len(sets) == 0 {
		return 1, nil
	}
	add("updated_at", now)
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE policies SET "+strings.Join(sets, ", ")+" WHERE id = $"+strconv.Itoa(i), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetail(row rowScanner) (*domain.Detail, error) {
	var d domain.Detail
	var createdByID, email, firstName, lastName sql.NullString
	var status string
	err := row.Scan(
		&d.ID, &d.Name, &d.Description, &createdByID, &status, &d.EffectiveAt,
		&d.CreatedAt, &d.UpdatedAt,
		&email, &firstName, &lastName,
	)
	if err != nil {
		return nil, err
	}
	d.Status = domain.Status(status)
	d.CreatedByID = createdByID.String
	d.CreatedByEmail = email.String
	d.CreatedByFirstName = firstName.String
	d.CreatedByLastName = lastName.String
	return &d, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func sortField(s string) string {
	switch s {
	case "name", "effective_at_date", "status":
		return s
	default:
		return "created_at"
	}
}

func sortOrder(s string) string {
	if strings.EqualFold(s, "asc") {
		return "ASC"
	}
	return "DESC"
}
