package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/iliyamo/quic/internal/model"
)

// ProfileRepo runs the read-only aggregate queries behind the profile
// page.
type ProfileRepo struct {
	db    *sql.DB
	users *UserRepo
	fold  *FolderRepo
}

func NewProfileRepo(db *sql.DB) *ProfileRepo {
	return &ProfileRepo{db: db, users: NewUserRepo(db), fold: NewFolderRepo(db)}
}

// Load gathers identity, folders and the set and card counts for a user.
// The four queries are independent; the first failure is returned.
// ErrNotFound means the user row no longer exists.
func (r *ProfileRepo) Load(ctx context.Context, userID uint64) (model.Profile, error) {
	var p model.Profile

	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return p, err
	}
	u.PasswordHash = ""
	p.User = u

	if p.Folders, err = r.fold.ListByUser(ctx, userID); err != nil {
		return p, err
	}
	p.FolderCount = len(p.Folders)

	const qSets = `SELECT COUNT(DISTINCT fs.set_id)
	               FROM folder_sets fs
	               JOIN user_folders uf ON uf.folder_id = fs.folder_id
	               WHERE uf.user_id = ?`
	if err := r.db.QueryRowContext(ctx, qSets, userID).Scan(&p.SetCount); err != nil {
		return p, errors.Wrap(err, "count sets")
	}

	const qCards = `SELECT COUNT(DISTINCT sc.card_id)
	                FROM set_cards sc
	                JOIN folder_sets fs ON fs.set_id = sc.set_id
	                JOIN user_folders uf ON uf.folder_id = fs.folder_id
	                WHERE uf.user_id = ?`
	if err := r.db.QueryRowContext(ctx, qCards, userID).Scan(&p.CardCount); err != nil {
		return p, errors.Wrap(err, "count cards")
	}
	return p, nil
}
