package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/quic/internal/model"
)

// SetRepo provides methods to create and list study sets.  Sets are
// attached to folders through folder_sets.
type SetRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewSetRepo constructs a SetRepo with the given DB handle.
func NewSetRepo(db *sql.DB) *SetRepo {
	return &SetRepo{db: db}
}

// NewSet carries the fields of a set creation request.
type NewSet struct {
	FolderID    uint64
	Name        string
	Description string
}

// Create inserts a set into a folder the user owns.  ErrNotFound is
// returned when the folder is not linked to userID; ErrSetExists when the
// folder already holds a set with the same name.  Both inserts happen in
// one transaction guarded by the (folder_id, set_name) unique key.
func (r *SetRepo) Create(ctx context.Context, userID uint64, in NewSet) (model.Set, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	if name == "" || in.FolderID == 0 {
		return model.Set{}, ErrInvalidInput
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Set{}, errors.Wrap(err, "begin create set")
	}
	defer tx.Rollback()

	ok, err := ownedBy(ctx, tx, in.FolderID, userID)
	if err != nil {
		return model.Set{}, err
	}
	if !ok {
		return model.Set{}, ErrNotFound
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO sets (set_name, set_description) VALUES (?, ?)", name, desc)
	if err != nil {
		return model.Set{}, errors.Wrap(err, "insert set")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Set{}, errors.Wrap(err, "set id")
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO folder_sets (folder_id, set_id, set_name) VALUES (?, ?, ?)",
		in.FolderID, id, name); err != nil {
		if isDuplicate(err) {
			return model.Set{}, ErrSetExists
		}
		return model.Set{}, errors.Wrap(err, "insert folder set")
	}
	if err := tx.Commit(); err != nil {
		return model.Set{}, errors.Wrap(err, "commit create set")
	}
	return model.Set{ID: uint64(id), Name: name, Description: desc}, nil
}

// ListByFolder returns the sets of a folder ordered by name, restricted
// to folders linked to userID.  A folder the user does not own yields an
// empty list rather than an error.
func (r *SetRepo) ListByFolder(ctx context.Context, userID, folderID uint64) ([]model.Set, error) {
	const q = `SELECT s.set_id, s.set_name, s.set_description
	           FROM sets s
	           JOIN folder_sets fs ON fs.set_id = s.set_id
	           JOIN user_folders uf ON uf.folder_id = fs.folder_id
	           WHERE fs.folder_id = ? AND uf.user_id = ?
	           ORDER BY s.set_name, s.set_id`
	rows, err := r.db.QueryContext(ctx, q, folderID, userID)
	if err != nil {
		return nil, errors.Wrap(err, "select sets")
	}
	defer rows.Close()

	out := []model.Set{}
	for rows.Next() {
		var s model.Set
		if err := rows.Scan(&s.ID, &s.Name, &s.Description); err != nil {
			return nil, errors.Wrap(err, "scan set")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate sets")
	}
	return out, nil
}
