package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ContentRec is one row of a flat content table. StartsAt and Location are
// only meaningful for events and stay zero elsewhere.
type ContentRec struct {
	ID        string
	Title     string
	Body      string
	Location  string
	StartsAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentStore serves the three flat content tables. Announcements, news
// posts and events share one CRUD shape, so one store parameterized by table
// covers all admin pages outside the gallery.
type ContentStore struct {
	db     *sql.DB
	table  string
	events bool
}

func NewAnnouncementStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db, table: "announcements"}
}

func NewNewsStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db, table: "news_posts"}
}

func NewEventStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db, table: "events", events: true}
}

func (s *ContentStore) Create(ctx context.Context, rec ContentRec) (*ContentRec, error) {
	id := uuid.NewString()
	var err error
	if s.events {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO events (id, title, body, location, starts_at) VALUES (?, ?, ?, ?, ?)`,
			id, rec.Title, rec.Body, rec.Location, rec.StartsAt)
	} else {
		_, err = s.db.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, title, body) VALUES (?, ?, ?)`, s.table),
			id, rec.Title, rec.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s row: %w", s.table, err)
	}

	return s.GetByID(ctx, id)
}

func (s *ContentStore) GetByID(ctx context.Context, id string) (*ContentRec, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, s.columns(), s.table), id)

	rec, err := s.scan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s row: %w", s.table, err)
	}
	return rec, nil
}

// List returns rows newest-first.
func (s *ContentStore) List(ctx context.Context) ([]*ContentRec, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM %s ORDER BY rowid DESC`, s.columns(), s.table))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table, err)
	}
	defer rows.Close()

	var recs []*ContentRec
	for rows.Next() {
		rec, err := s.scan(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", s.table, err)
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", s.table, err)
	}

	return recs, nil
}

func (s *ContentStore) Update(ctx context.Context, rec ContentRec) error {
	var (
		result sql.Result
		err    error
	)
	if s.events {
		result, err = s.db.ExecContext(ctx,
			`UPDATE events SET title = ?, body = ?, location = ?, starts_at = ?, updated_at = datetime('now') WHERE id = ?`,
			rec.Title, rec.Body, rec.Location, rec.StartsAt, rec.ID)
	} else {
		result, err = s.db.ExecContext(ctx,
			fmt.Sprintf(`UPDATE %s SET title = ?, body = ?, updated_at = datetime('now') WHERE id = ?`, s.table),
			rec.Title, rec.Body, rec.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to update %s row: %w", s.table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (s *ContentStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, s.table), id)
	if err != nil {
		return fmt.Errorf("failed to delete %s row: %w", s.table, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (s *ContentStore) columns() string {
	if s.events {
		return "id, title, body, location, starts_at, created_at, updated_at"
	}
	return "id, title, body, created_at, updated_at"
}

func (s *ContentStore) scan(scan func(...any) error) (*ContentRec, error) {
	rec := &ContentRec{}
	var err error
	if s.events {
		var startsAt sql.NullTime
		err = scan(&rec.ID, &rec.Title, &rec.Body, &rec.Location, &startsAt, &rec.CreatedAt, &rec.UpdatedAt)
		if startsAt.Valid {
			rec.StartsAt = startsAt.Time
		}
	} else {
		err = scan(&rec.ID, &rec.Title, &rec.Body, &rec.CreatedAt, &rec.UpdatedAt)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
