package repository

import (
	"context"
	"database/sql"
	"errors"

	"insurance-claims/backend/internal/note/domain"
)

const detailColumns = `
	n.id, n.claim_id, n.user_id, n.note, n.created_at,
	u.email, u.first_name, u.last_name, u.role`

const detailFrom = `
	FROM claim_notes n
	LEFT JOIN users u ON n.user_id = u.id`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a note repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the note. The note must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, n *domain.Note) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO claim_notes (id, claim_id, user_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		n.ID, n.ClaimID, n.AuthorUserID, n.Text, n.CreatedAt)
	return err
}

// GetByID returns the note joined with author display fields, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+detailColumns+detailFrom+" WHERE n.id = $1", id)
	d, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// ListByClaim returns the claim's notes oldest first.
func (r *PostgresRepository) ListByClaim(ctx context.Context, claimID string) ([]*domain.Detail, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT"+detailColumns+detailFrom+" WHERE n.claim_id = $1 ORDER BY n.created_at ASC", claimID)
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

// CountByClaim returns the number of notes on the claim.
func (r *PostgresRepository) CountByClaim(ctx context.Context, claimID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM claim_notes WHERE claim_id = $1", claimID).Scan(&n)
	return n, err
}

// Delete removes a note and returns the changed-row count.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM claim_notes WHERE id = $1", id)
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
	var email, firstName, lastName, role sql.NullString
	err := row.Scan(
		&d.ID, &d.ClaimID, &d.AuthorUserID, &d.Text, &d.CreatedAt,
		&email, &firstName, &lastName, &role,
	)
	if err != nil {
		return nil, err
	}
	d.AuthorEmail = email.String
	d.AuthorFirstName = firstName.String
	d.AuthorLastName = lastName.String
	d.AuthorRole = role.String
	return &d, nil
}
