package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/quic/internal/model"
	"github.com/iliyamo/quic/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries the registration form fields.
type NewUser struct {
	FirstName string
	LastName  string
	Username  string
	Password  string
}

// Create hashes the password, inserts the user and returns its ID.  The
// unique index on username decides duplicates; ErrUsernameExists is
// returned in that case, and ErrPasswordTooLong when bcrypt refuses the
// password.
func (r *UserRepo) Create(ctx context.Context, in NewUser, cost int) (uint64, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return 0, ErrInvalidInput
	}
	hash, err := utils.HashPassword(in.Password, cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return 0, ErrPasswordTooLong
	}
	if err != nil {
		return 0, errors.Wrap(err, "hash password")
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (first_name, last_name, username, password) VALUES (?,?,?,?)",
		in.FirstName, in.LastName, in.Username, hash)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, errors.Wrap(err, "insert user")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "user id")
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username match.  ErrNotFound is
// returned when no such user exists.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, first_name, last_name, username, password FROM users WHERE username = ? LIMIT 1",
		username).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, errors.Wrap(err, "select user by username")
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, first_name, last_name, username, password FROM users WHERE user_id = ? LIMIT 1",
		id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, errors.Wrap(err, "select user by id")
}
