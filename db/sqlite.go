// Package db persists user accounts and prediction history in SQLite.
package db

import (
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateEmail reports a signup against an email that already has an
// account.
var ErrDuplicateEmail = errors.New("email already registered")

const schema = `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT NOT NULL,
        email TEXT NOT NULL UNIQUE,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );
    CREATE TABLE IF NOT EXISTS predictions (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        email TEXT NOT NULL,
        industry TEXT,
        city TEXT,
        funding_amount REAL,
        funding_rounds INTEGER,
        probability REAL,
        prediction INTEGER,
        timestamp DATETIME NOT NULL
    );
    CREATE INDEX IF NOT EXISTS idx_predictions_email ON predictions(email, timestamp);
    `

// User is a stored account.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PredictionEntry is one append-only history row.
type PredictionEntry struct {
	ID            int64
	Email         string
	Industry      string
	City          string
	FundingAmount float64
	FundingRounds int
	Probability   float64
	Prediction    int
	Timestamp     time.Time
}

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open opens the database file and creates the schema.
func Open(path string) (*Store, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := database.Exec(schema); err != nil {
		database.Close()
		return nil, err
	}
	return &Store{db: database}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser inserts a new account. The email column's UNIQUE constraint
// rejects duplicates, reported as ErrDuplicateEmail so concurrent signups
// racing past an existence check still surface as a client error.
func (s *Store) CreateUser(name, email, passwordHash string) error {
	if name == "" || email == "" || passwordHash == "" {
		return errors.New("name, email and password hash are required")
	}
	_, err := s.db.Exec(`
        INSERT INTO users (name, email, password_hash, created_at)
        VALUES (?, ?, ?, ?)`,
		name, email, passwordHash, time.Now().UTC())

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicateEmail
	}
	return err
}

// FindUserByEmail returns the account for the email, or nil when none exists.
func (s *Store) FindUserByEmail(email string) (*User, error) {
	var u User
	err := s.db.QueryRow(`
        SELECT id, name, email, password_hash, created_at
        FROM users
        WHERE email = ?`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SavePrediction appends one history entry.
func (s *Store) SavePrediction(entry PredictionEntry) error {
	if entry.Email == "" {
		return errors.New("email required")
	}
	_, err := s.db.Exec(`
        INSERT INTO predictions (
            email, industry, city, funding_amount, funding_rounds,
            probability, prediction, timestamp
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Email, entry.Industry, entry.City, entry.FundingAmount,
		entry.FundingRounds, entry.Probability, entry.Prediction, entry.Timestamp)
	return err
}

// QueryHistory returns the user's prediction history, newest first. A user
// with no history gets an empty slice, not an error.
func (s *Store) QueryHistory(email string) ([]PredictionEntry, error) {
	rows, err := s.db.Query(`
        SELECT id, email, industry, city, funding_amount, funding_rounds,
               probability, prediction, timestamp
        FROM predictions
        WHERE email = ?
        ORDER BY timestamp DESC, id DESC`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]PredictionEntry, 0)
	for rows.Next() {
		var e PredictionEntry
		if err := rows.Scan(&e.ID, &e.Email, &e.Industry, &e.City, &e.FundingAmount,
			&e.FundingRounds, &e.Probability, &e.Prediction, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
