package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrNoAdminSession = errors.New("no valid admin session")

type Admin struct {
	ID    string
	Email string
}

// EnsureAdmin creates the admin account when no account with that email
// exists. An existing account keeps its password.
func (s *SQLiteStore) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash) VALUES (?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, newID(), email, string(hash))
	return err
}

// Authenticate returns the admin for valid credentials and ErrNotFound
// otherwise, without telling apart unknown emails and wrong passwords.
func (s *SQLiteStore) Authenticate(ctx context.Context, email, password string) (Admin, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var (
		a    Admin
		hash string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash FROM admins WHERE email = ?
	`, email).Scan(&a.ID, &a.Email, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNotFound
	}
	if err != nil {
		return Admin{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return Admin{}, ErrNotFound
	}
	return a, nil
}

func (s *SQLiteStore) CreateAdminSession(ctx context.Context, adminID string) (string, error) {
	id := newID()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, admin_id, created_at) VALUES (?, ?, ?)
	`, id, adminID, s.nowUTC())
	if err != nil {
		return "", fmt.Errorf("creating admin session: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) DeleteAdminSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, sessionID)
	return err
}

func (s *SQLiteStore) AdminFromSession(ctx context.Context, sessionID string) (Admin, error) {
	var a Admin
	err := s.db.QueryRowContext(ctx, `
		SELECT a.id, a.email
		FROM admin_sessions s
		JOIN admins a ON a.id = s.admin_id
		WHERE s.id = ?
	`, sessionID).Scan(&a.ID, &a.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return Admin{}, ErrNoAdminSession
	}
	return a, err
}
