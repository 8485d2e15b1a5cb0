package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mcoot/chessclub/internal/model"
	"github.com/mcoot/chessclub/internal/storage"
)

//go:embed schema.sql
var schema string

// foreign_key_violation
const foreignKeyViolation = pq.ErrorCode("23503")

// Config holds PostgreSQL connection settings
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	WizardTTL       time.Duration
}

// DefaultConfig returns sensible defaults for PostgreSQL configuration
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  5 * time.Second,
		WizardTTL:       24 * time.Hour,
	}
}

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	db  *sql.DB
	cfg Config
	now func() time.Time
}

// New connects to PostgreSQL and applies the schema
func New(cfg Config) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database within %v: %w", cfg.ConnectTimeout, err)
	}

	s := NewWithDB(db, cfg)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB creates a storage on an existing handle (for testing)
func NewWithDB(db *sql.DB, cfg Config) *Storage {
	return &Storage{db: db, cfg: cfg, now: time.Now}
}

// Migrate creates any missing tables
func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database handle
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Event operations

const eventColumns = `id, title, description, event_date, location, entry_fee, time_control,
	is_active, round_count, registration_open, terms, created_at, updated_at`

func (s *Storage) SaveEvent(ctx context.Context, e *model.Event) error {
	query := `
		INSERT INTO events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			event_date = EXCLUDED.event_date,
			location = EXCLUDED.location,
			entry_fee = EXCLUDED.entry_fee,
			time_control = EXCLUDED.time_control,
			is_active = EXCLUDED.is_active,
			round_count = EXCLUDED.round_count,
			registration_open = EXCLUDED.registration_open,
			terms = EXCLUDED.terms,
			updated_at = EXCLUDED.updated_at`
	_, err := s.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.EventDate, e.Location, e.EntryFee, e.TimeControl,
		e.IsActive, e.RoundCount, e.RegistrationOpen, e.Terms, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func (s *Storage) GetEvent(ctx context.Context, id model.EventID) (*model.Event, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEventNotFound
	}
	return e, err
}

func (s *Storage) ListEvents(ctx context.Context) ([]*model.Event, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY event_date, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []*model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(row scanner) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.Location, &e.EntryFee,
		&e.TimeControl, &e.IsActive, &e.RoundCount, &e.RegistrationOpen, &e.Terms,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Section operations

func (s *Storage) SaveSection(ctx context.Context, sec *model.Section) error {
	query := `
		INSERT INTO tournament_sections (event_id, id, name, entry_fee, min_rating, max_rating, sort_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (event_id, id) DO UPDATE SET
			name = EXCLUDED.name,
			entry_fee = EXCLUDED.entry_fee,
			min_rating = EXCLUDED.min_rating,
			max_rating = EXCLUDED.max_rating,
			sort_order = EXCLUDED.sort_order`
	_, err := s.db.ExecContext(ctx, query,
		sec.EventID, sec.ID, sec.Name, nullInt(sec.EntryFee), nullInt(sec.MinRating),
		nullInt(sec.MaxRating), sec.SortOrder, sec.CreatedAt,
	)
	return mapForeignKey(err, model.ErrEventNotFound)
}

func (s *Storage) GetSectionsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Section, error) {
	query := `
		SELECT event_id, id, name, entry_fee, min_rating, max_rating, sort_order, created_at
		FROM tournament_sections WHERE event_id = $1 ORDER BY sort_order, name`
	rows, err := s.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []*model.Section{}
	for rows.Next() {
		var sec model.Section
		var fee, minRating, maxRating sql.NullInt64
		if err := rows.Scan(&sec.EventID, &sec.ID, &sec.Name, &fee, &minRating, &maxRating,
			&sec.SortOrder, &sec.CreatedAt); err != nil {
			return nil, err
		}
		sec.EntryFee = intFromNull(fee)
		sec.MinRating = intFromNull(minRating)
		sec.MaxRating = intFromNull(maxRating)
		sections = append(sections, &sec)
	}
	return sections, rows.Err()
}

func (s *Storage) DeleteSectionsForEvent(ctx context.Context, eventID model.EventID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tournament_sections WHERE event_id = $1`, eventID)
	return err
}

// Wizard session operations

func (s *Storage) SaveWizard(ctx context.Context, w *model.Wizard) error {
	data, err := json.Marshal(w)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO wizard_sessions (id, data, expires_at, updated_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			data = EXCLUDED.data, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`
	_, err = s.db.ExecContext(ctx, query, w.ID, data, s.now().Add(s.cfg.WizardTTL), w.UpdatedAt)
	return err
}

func (s *Storage) GetWizard(ctx context.Context, id model.SessionID) (*model.Wizard, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM wizard_sessions WHERE id = $1 AND expires_at > $2`, id, s.now(),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrWizardNotFound
	}
	if err != nil {
		return nil, err
	}

	var w model.Wizard
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Storage) DeleteWizard(ctx context.Context, id model.SessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id = $1`, id)
	return err
}

// DeleteIdleWizards also removes sessions past their expiry
func (s *Storage) DeleteIdleWizards(ctx context.Context, idleSince time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM wizard_sessions WHERE updated_at < $1 OR expires_at <= $2`, idleSince, s.now(),
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// Registration operations

const registrationColumns = `id, event_id, section_id, player_id, player_name, rating, player_state,
	membership_expiration, email, phone, street_address, city, state_address, zip_code,
	notification_preference, bye_rounds, accepted_terms, registered_at`

func (s *Storage) SaveRegistration(ctx context.Context, r *model.Registration) error {
	query := `
		INSERT INTO tournament_registrations (` + registrationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.EventID, nullString(string(r.SectionID)), r.PlayerID, r.PlayerName, nullInt(r.Rating),
		nullString(r.PlayerState), nullString(r.MembershipExpiration), r.Email, nullString(r.Phone),
		nullString(r.StreetAddress), nullString(r.City), nullString(r.StateAddress), nullString(r.ZipCode),
		nullString(string(r.NotificationPreference)), nullString(r.ByeRounds), r.AcceptedTerms, r.RegisteredAt,
	)
	return mapForeignKey(err, model.ErrEventNotFound)
}

func (s *Storage) GetRegistration(ctx context.Context, id model.RegistrationID) (*model.Registration, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM tournament_registrations WHERE id = $1`, id)
	r, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrRegistrationNotFound
	}
	return r, err
}

func (s *Storage) GetRegistrationsForEvent(ctx context.Context, eventID model.EventID) ([]*model.Registration, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM tournament_registrations
		 WHERE event_id = $1 ORDER BY registered_at DESC, id DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := []*model.Registration{}
	for rows.Next() {
		r, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, rows.Err()
}

func scanRegistration(row scanner) (*model.Registration, error) {
	var r model.Registration
	var sectionID, playerState, expiration, phone, street, city, state, zip, pref, byes sql.NullString
	var rating sql.NullInt64
	err := row.Scan(&r.ID, &r.EventID, &sectionID, &r.PlayerID, &r.PlayerName, &rating, &playerState,
		&expiration, &r.Email, &phone, &street, &city, &state, &zip, &pref, &byes,
		&r.AcceptedTerms, &r.RegisteredAt)
	if err != nil {
		return nil, err
	}
	r.SectionID = model.SectionID(sectionID.String)
	r.Rating = intFromNull(rating)
	r.PlayerState = playerState.String
	r.MembershipExpiration = expiration.String
	r.Phone = phone.String
	r.StreetAddress = street.String
	r.City = city.String
	r.StateAddress = state.String
	r.ZipCode = zip.String
	r.NotificationPreference = model.NotificationPreference(pref.String)
	r.ByeRounds = byes.String
	return &r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func mapForeignKey(err error, notFound error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
		return notFound
	}
	return err
}
