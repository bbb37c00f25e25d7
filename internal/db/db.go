// Package db mirrors saved candidate records into PostgreSQL.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonathan/talentscout/internal/types"
)

// schemaSQL creates the candidates table. It is safe to run repeatedly.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS candidates (
	candidate_id      TEXT PRIMARY KEY,
	recorded_at       TEXT NOT NULL,
	status            TEXT NOT NULL,
	name              TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL,
	phone             TEXT NOT NULL DEFAULT '',
	experience        TEXT NOT NULL DEFAULT '',
	position          TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	tech_stack        TEXT[] NOT NULL DEFAULT '{}',
	technical_answers TEXT NOT NULL DEFAULT '',
	synced_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS candidates_email_idx ON candidates (LOWER(email));
`

const candidateColumns = `candidate_id, recorded_at, status, name, email, phone,
	experience, position, location, tech_stack, technical_answers`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the candidates table when it does not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create candidates schema: %w", err)
	}
	return nil
}

// UpsertCandidate inserts a record or replaces the row with the same id.
func (db *DB) UpsertCandidate(ctx context.Context, r *types.CandidateRecord) error {
	techStack := r.TechStack
	if techStack == nil {
		techStack = []string{}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO candidates (`+candidateColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (candidate_id) DO UPDATE SET
		   recorded_at = $2, status = $3, name = $4, email = $5, phone = $6,
		   experience = $7, position = $8, location = $9, tech_stack = $10,
		   technical_answers = $11, synced_at = NOW()`,
		r.CandidateID, r.Timestamp, r.Status, r.Name, r.Email, r.Phone,
		r.Experience, r.Position, r.Location, techStack, r.TechnicalAnswers,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert candidate %s: %w", r.CandidateID, err)
	}
	return nil
}

// GetCandidate retrieves one candidate by id. It returns nil when no row exists.
func (db *DB) GetCandidate(ctx context.Context, id string) (*types.CandidateRecord, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE candidate_id = $1`, id)

	r, err := scanCandidate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	return r, nil
}

// ListCandidates returns every mirrored candidate, newest first.
func (db *DB) ListCandidates(ctx context.Context) ([]*types.CandidateRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY recorded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	records := []*types.CandidateRecord{}
	for rows.Next() {
		r, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return records, nil
}

// CandidateIDs returns the ids of every mirrored candidate.
func (db *DB) CandidateIDs(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT candidate_id FROM candidates`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to collect candidate ids: %w", err)
	}
	return ids, nil
}

// DeleteCandidate removes a mirrored candidate and reports whether a row existed.
func (db *DB) DeleteCandidate(ctx context.Context, id string) (bool, error) {
	tag, err := db.pool.Exec(ctx, `DELETE FROM candidates WHERE candidate_id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete candidate %s: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanCandidate(row pgx.Row) (*types.CandidateRecord, error) {
	var r types.CandidateRecord
	err := row.Scan(&r.CandidateID, &r.Timestamp, &r.Status, &r.Name, &r.Email, &r.Phone,
		&r.Experience, &r.Position, &r.Location, &r.TechStack, &r.TechnicalAnswers)
	if err != nil {
		return nil, err
	}
	if len(r.TechStack) == 0 {
		r.TechStack = nil
	}
	return &r, nil
}
