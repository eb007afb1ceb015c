package repository

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"insurance-claims/backend/internal/user/domain"
)

const profileColumns = `
	u.id, u.email, u.password_hash, u.role, u.first_name, u.last_name,
	u.is_active, u.policy_id, u.invite_token, u.invite_expires_at,
	u.created_at, u.updated_at,
	p.name, p.description, p.status`

const profileFrom = `
	FROM users u
	LEFT JOIN policies p ON u.policy_id = p.id`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id joined with policy display fields, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+profileColumns+profileFrom+" WHERE u.id = $1", id)
	return scanProfile(row)
}

// GetByEmail returns the user with the given email, or nil if not found.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+profileColumns+profileFrom+" WHERE u.email = $1", email)
	return scanProfile(row)
}

// GetByInviteToken returns the user holding an unexpired invite token, or nil.
// Expiry is checked against now so a correct token past its window yields no match.
func (r *PostgresRepository) GetByInviteToken(ctx context.Context, token string, now time.Time) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT"+profileColumns+profileFrom+" WHERE u.invite_token = $1 AND u.invite_expires_at > $2",
		token, now)
	return scanProfile(row)
}

// Create persists the user. The user must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, first_name, last_name,
			is_active, policy_id, invite_token, invite_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		u.ID, u.Email, nullString(u.PasswordHash), string(u.Role), u.FirstName, u.LastName,
		u.IsActive, nullString(u.PolicyID), nullString(u.InviteToken), nullTime(u.InviteExpiresAt),
		u.CreatedAt, u.UpdatedAt)
	return err
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
	if fields.FirstName != nil {
		add("first_name", *fields.FirstName)
	}
	if fields.LastName != nil {
		add("last_name", *fields.LastName)
	}
	if fields.IsActive != nil {
		add("is_active", *fields.IsActive)
	}
	if fields.PolicyID != nil {
		add("policy_id", nullString(*fields.PolicyID))
	}
	if len(sets) == 0 {
		return 1, nil
	}
	add("updated_at", now)
	args = append(args, id)
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id = $"+strconv.Itoa(i), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Activate sets the password hash, activates the account, and clears the invite token.
func (r *PostgresRepository) Activate(ctx context.Context, id, passwordHash string, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, is_active = TRUE, invite_token = NULL,
			invite_expires_at = NULL, updated_at = $2
		WHERE id = $3`,
		passwordHash, now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Deactivate flips is_active to false for the user.
func (r *PostgresRepository) Deactivate(ctx context.Context, id string, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET is_active = FALSE, updated_at = $1 WHERE id = $2", now, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// List returns users matching the filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Profile, error) {
	query := "SELECT" + profileColumns + profileFrom + " WHERE 1=1"
	args := []interface{}{}
	i := 1
	if filter.Role != "" {
		query += " AND u.role = $" + strconv.Itoa(i)
		args = append(args, string(filter.Role))
		i++
	}
	if filter.IsActive != nil {
		query += " AND u.is_active = $" + strconv.Itoa(i)
		args = append(args, *filter.IsActive)
		i++
	}
	query += " ORDER BY u.created_at DESC"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListActiveAgents returns all active admins ordered by first then last name.
func (r *PostgresRepository) ListActiveAgents(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, first_name, last_name
		FROM users
		WHERE role = 'admin' AND is_active = TRUE
		ORDER BY first_name, last_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.User
	for rows.Next() {
		u := &domain.User{Role: domain.RoleAdmin, IsActive: true}
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CountActiveAdmins returns the number of active admin users.
func (r *PostgresRepository) CountActiveAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role = 'admin' AND is_active = TRUE").Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var passwordHash, policyID, inviteToken sql.NullString
	var inviteExpiresAt sql.NullTime
	var policyName, policyDescription, policyStatus sql.NullString
	var role string
	err := row.Scan(
		&p.ID, &p.Email, &passwordHash, &role, &p.FirstName, &p.LastName,
		&p.IsActive, &policyID, &inviteToken, &inviteExpiresAt,
		&p.CreatedAt, &p.UpdatedAt,
		&policyName, &policyDescription, &policyStatus,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	p.Role = domain.Role(role)
	p.PasswordHash = passwordHash.String
	p.PolicyID = policyID.String
	p.InviteToken = inviteToken.String
	if inviteExpiresAt.Valid {
		t := inviteExpiresAt.Time
		p.InviteExpiresAt = &t
	}
	p.PolicyName = policyName.String
	p.PolicyDescription = policyDescription.String
	p.PolicyStatus = policyStatus.String
	return &p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
