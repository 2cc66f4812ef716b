package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"eventgate/internal/event/models"
	"eventgate/pkg/domain"
	"eventgate/pkg/platform/sentinel"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresStore persists events in PostgreSQL. The event_attendees primary
// key is what makes a duplicate join impossible.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed event store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) ListAllEvents(ctx context.Context) ([]*models.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, title, date, location, created_by, created_at
		FROM events
		ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var out []*models.Record
	for rows.Next() {
		var (
			rec       models.Record
			id        string
			createdBy string
		)
		if err := rows.Scan(&id, &rec.Seq, &rec.Title, &rec.Date, &rec.Location, &createdBy, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		rec.ID = domain.EventID(id)
		rec.CreatedBy = domain.UserID(createdBy)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListAllMemberships(ctx context.Context) ([]*models.Membership, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT event_id, user_id, joined_at FROM event_attendees`)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []*models.Membership
	for rows.Next() {
		var eventID, userID string
		m := &models.Membership{}
		if err := rows.Scan(&eventID, &userID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.EventID = domain.EventID(eventID)
		m.UserID = domain.UserID(userID)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) InsertEvent(ctx context.Context, rec *models.Record) (domain.EventID, error) {
	id := domain.NewEventID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, title, date, location, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id.String(), rec.Title, rec.Date, rec.Location, rec.CreatedBy.String(), rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert event: %w", err)
	}
	return id, nil
}

// InsertMembership maps a missing event to sentinel.ErrNotFound and an
// existing pair to sentinel.ErrAlreadyUsed.
func (s *PostgresStore) InsertMembership(ctx context.Context, m *models.Membership) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO event_attendees (event_id, user_id, joined_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING`,
		m.EventID.String(), m.UserID.String(), m.JoinedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pqUniqueViolation:
				return sentinel.ErrAlreadyUsed
			case pqForeignKeyViolation:
				return sentinel.ErrNotFound
			}
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrAlreadyUsed
	}
	return nil
}

func (s *PostgresStore) DeleteMembership(ctx context.Context, eventID domain.EventID, userID domain.UserID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2`,
		eventID.String(), userID.String(),
	)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}
