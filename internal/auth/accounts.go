package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Accounts checks a username and password and returns the account's role.
type Accounts interface {
	Authenticate(ctx context.Context, username, password string) (role string, err error)
}

// StaticAccount is a single account configured from the environment.
type StaticAccount struct {
	Username string
	PassHash string // bcrypt
	Role     string
}

func (s StaticAccount) Authenticate(_ context.Context, username, password string) (string, error) {
	if s.Username == "" || username != s.Username {
		return "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.PassHash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return s.Role, nil
}

// UserRepo keeps teacher accounts in the users table.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create adds or replaces an account, hashing the password with bcrypt.
func (u *UserRepo) Create(ctx context.Context, username, password, role string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	_, err = u.db.ExecContext(ctx,
		`INSERT INTO users (username, pass_hash, role, created_at) VALUES ($1,$2,$3,$4)
		 ON CONFLICT (username) DO UPDATE SET pass_hash = excluded.pass_hash, role = excluded.role`,
		username, string(hash), role, time.Now().Unix())
	return errors.Wrapf(err, "create user %s", username)
}

func (u *UserRepo) Authenticate(ctx context.Context, username, password string) (string, error) {
	var hash, role string
	err := u.db.QueryRowContext(ctx,
		`SELECT pass_hash, role FROM users WHERE username = $1`, username).Scan(&hash, &role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", errors.Wrap(err, "lookup user")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", ErrInvalidCredentials
	}
	return role, nil
}

// Chain tries each source in order and returns the first match.
type Chain []Accounts

func (c Chain) Authenticate(ctx context.Context, username, password string) (string, error) {
	for _, a := range c {
		role, err := a.Authenticate(ctx, username, password)
		if err == nil {
			return role, nil
		}
		if !errors.Is(err, ErrInvalidCredentials) {
			return "", err
		}
	}
	return "", ErrInvalidCredentials
}
