package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"insurance-claims/backend/internal/claim/domain"
)

const detailColumns = `
	c.id, c.user_id, c.policy_id, c.date_of_occurrence, c.location, c.cause,
	c.description, c.status, c.assigned_agent_id, c.updated_by_id, c.documents,
	c.created_at, c.updated_at,
	u.email, u.first_name, u.last_name,
	a.email, a.first_name, a.last_name,
	ub.email, ub.first_name, ub.last_name,
	p.name, p.description, p.status`

const detailFrom = `
	FROM claims c
	LEFT JOIN users u ON c.user_id = u.id
	LEFT JOIN users a ON c.assigned_agent_id = a.id
	LEFT JOIN users ub ON c.updated_by_id = ub.id
	LEFT JOIN policies p ON c.policy_id = p.id`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a claim repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the claim and its creation history row in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, c *domain.Claim) error {
	docs, err := documentsJSON(c.Documents)
	if err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO claims (id, user_id, policy_id, date_of_occurrence, location,
			cause, description, status, assigned_agent_id, updated_by_id,
			documents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.OwnerUserID, c.PolicyID, c.DateOfOccurrence, c.Location,
		string(c.Cause), c.Description, string(c.Status), nullString(c.AssignedAgentID),
		nullString(c.UpdatedByID), docs, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO claim_status_history (id, claim_id, from_status, to_status,
			changed_by_user_id, note, created_at)
		VALUES ($1, $2, NULL, $3, $4, $5, $6)`,
		uuid.New().String(), c.ID, string(c.Status), c.OwnerUserID,
		domain.CreationNote, c.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID returns the claim joined with owner/agent/updater/policy display
// fields, or nil if not found.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Detail, error) {
	row := r.db.QueryRowContext(ctx, "SELECT"+detailColumns+detailFrom+" WHERE c.id = $1", id)
	d, err := scanDetail(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

// List returns claims matching the filter. Sort fields outside the whitelist
// fall back to created_at; order defaults to descending.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Detail, error) {
	query := "SELECT" + detailColumns + detailFrom + " WHERE 1=1"
	args := []interface{}{}
	i := 1
	if filter.OwnerUserID != "" {
		query += " AND c.user_id = $" + strconv.Itoa(i)
		args = append(args, filter.OwnerUserID)
		i++
	}
	if filter.Status != "" {
		query += " AND c.status = $" + strconv.Itoa(i)
		args = append(args, string(filter.Status))
		i++
	}
	if filter.AssignedAgentID != "" {
		query += " AND c.assigned_agent_id = $" + strconv.Itoa(i)
		args = append(args, filter.AssignedAgentID)
		i++
	}
	if filter.Search != "" {
		p := "$" + strconv.Itoa(i)
		query += ` AND (
			c.policy_id ILIKE ` + p + ` OR
			c.location ILIKE ` + p + ` OR
			c.cause ILIKE ` + p + ` OR
			c.description ILIKE ` + p + ` OR
			u.first_name ILIKE ` + p + ` OR
			u.last_name ILIKE ` + p + ` OR
			u.email ILIKE ` + p + ` OR
			c.id ILIKE ` + p + `)`
		args = append(args, "%"+filter.Search+"%")
		i++
	}
	query += " ORDER BY c." + sortField(filter.SortBy) + " " + sortOrder(filter.SortOrder)

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

// UpdateStatus performs the conditional status move and history append in one
// transaction. A zero changed-row count means the claim is missing or its
// status is no longer from.
func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, updatedBy string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
		UPDATE claims
		SET status = $1, updated_by_id = $2, updated_at = $3
		WHERE id = $4 AND status = $5`,
		string(to), updatedBy, now, id, string(from))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO claim_status_history (id, claim_id, from_status, to_status,
			changed_by_user_id, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.New().String(), id, string(from), string(to), updatedBy,
		domain.StatusChangeNote(to), now)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return n, nil
}

// AssignAgent overwrites the assigned agent and updater. No history row.
func (r *PostgresRepository) AssignAgent(ctx context.Context, id, agentID, updatedBy string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE claims
		SET assigned_agent_id = $1, updated_by_id = $2, updated_at = $3
		WHERE id = $4`,
		nullString(agentID), updatedBy, time.Now().UTC(), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// History returns the claim's status history rows joined with the changing
// user's display fields, newest first.
func (r *PostgresRepository) History(ctx context.Context, claimID string) ([]*domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT h.id, h.claim_id, h.from_status, h.to_status, h.changed_by_user_id,
			h.note, h.created_at,
			u.email, u.first_name, u.last_name
		FROM claim_status_history h
		LEFT JOIN users u ON h.changed_by_user_id = u.id
		WHERE h.claim_id = $1
		ORDER BY h.created_at DESC`, claimID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var fromStatus, email, firstName, lastName sql.NullString
		if err := rows.Scan(
			&e.ID, &e.ClaimID, &fromStatus, &e.ToStatus, &e.ChangedByUserID,
			&e.Note, &e.CreatedAt,
			&email, &firstName, &lastName,
		); err != nil {
			return nil, err
		}
		e.FromStatus = domain.Status(fromStatus.String)
		e.ChangedByEmail = email.String
		e.ChangedByFirstName = firstName.String
		e.ChangedByLastName = lastName.String
		out = append(out, &e)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDetail(row rowScanner) (*domain.Detail, error) {
	var d domain.Detail
	var cause, status string
	var agentID, updatedByID, docs sql.NullString
	var customerEmail, customerFirst, customerLast sql.NullString
	var agentEmail, agentFirst, agentLast sql.NullString
	var updatedByEmail, updatedByFirst, updatedByLast sql.NullString
	var policyName, policyDescription, policyStatus sql.NullString
	err := row.Scan(
		&d.ID, &d.OwnerUserID, &d.PolicyID, &d.DateOfOccurrence, &d.Location, &cause,
		&d.Description, &status, &agentID, &updatedByID, &docs,
		&d.CreatedAt, &d.UpdatedAt,
		&customerEmail, &customerFirst, &customerLast,
		&agentEmail, &agentFirst, &agentLast,
		&updatedByEmail, &updatedByFirst, &updatedByLast,
		&policyName, &policyDescription, &policyStatus,
	)
	if err != nil {
		return nil, err
	}
	d.Cause = domain.Cause(cause)
	d.Status = domain.Status(status)
	d.AssignedAgentID = agentID.String
	d.UpdatedByID = updatedByID.String
	if docs.Valid && docs.String != "" {
		if err := json.Unmarshal([]byte(docs.String), &d.Documents); err != nil {
			return nil, err
		}
	}
	d.CustomerEmail = customerEmail.String
	d.CustomerFirstName = customerFirst.String
	d.CustomerLastName = customerLast.String
	d.AgentEmail = agentEmail.String
	d.AgentFirstName = agentFirst.String
	d.AgentLastName = agentLast.String
	d.UpdatedByEmail = updatedByEmail.String
	d.UpdatedByFirstName = updatedByFirst.String
	d.UpdatedByLastName = updatedByLast.String
	d.PolicyName = policyName.String
	d.PolicyDescription = policyDescription.String
	d.PolicyStatus = policyStatus.String
	return &d, nil
}

func documentsJSON(docs []string) (sql.NullString, error) {
	if len(docs) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(docs)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func sortField(s string) string {
	switch s {
	case "date_of_occurrence", "status":
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
