// Folder persistence.  A folder has no owner column: ownership lives in
// the user_folders join table, so every query that returns folders for a
// user goes through that join.
package repository

import (
	"context"      // context allows passing deadlines and cancellation signals to DB operations
	"database/sql" // sql provides generic database operations and drivers
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/quic/internal/model"
)

// FolderRepo encapsulates all database queries related to folders.
type FolderRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewFolderRepo constructs a FolderRepo with the provided DB handle.
func NewFolderRepo(db *sql.DB) *FolderRepo {
	return &FolderRepo{db: db}
}

// Create inserts a folder and links it to the user in one transaction.
// The (user_id, folder_name) unique key on the join row rejects a second
// folder with the same name for the same user; in that case nothing is
// committed and ErrFolderExists is returned.
func (r *FolderRepo) Create(ctx context.Context, userID uint64, name string) (model.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Folder{}, ErrInvalidInput
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Folder{}, errors.Wrap(err, "begin create folder")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO folders (folder_name) VALUES (?)", name)
	if err != nil {
		return model.Folder{}, errors.Wrap(err, "insert folder")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Folder{}, errors.Wrap(err, "folder id")
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO user_folders (user_id, folder_id, folder_name) VALUES (?, ?, ?)",
		userID, id, name); err != nil {
		if isDuplicate(err) {
			return model.Folder{}, ErrFolderExists
		}
		return model.Folder{}, errors.Wrap(err, "insert user folder")
	}
	if err := tx.Commit(); err != nil {
		return model.Folder{}, errors.Wrap(err, "commit create folder")
	}
	return model.Folder{ID: uint64(id), Name: name}, nil
}

// ListByUser returns the folders linked to the user ordered by name.  The
// result is never nil so it encodes as an empty JSON array.
func (r *FolderRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Folder, error) {
	const q = `SELECT f.folder_id, f.folder_name
	           FROM folders f
	           JOIN user_folders uf ON uf.folder_id = f.folder_id
	           WHERE uf.user_id = ?
	           ORDER BY f.folder_name, f.folder_id`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, errors.Wrap(err, "select folders")
	}
	defer rows.Close()

	out := []model.Folder{}
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, errors.Wrap(err, "scan folder")
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate folders")
	}
	return out, nil
}

// ownedBy reports whether the folder is linked to the user.  It takes a
// querier so callers can run it inside their own transaction.
func ownedBy(ctx context.Context, q querier, folderID, userID uint64) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx,
		"SELECT 1 FROM user_folders WHERE folder_id = ? AND user_id = ?",
		folderID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check folder owner")
	}
	return true, nil
}

// querier is the subset of *sql.DB and *sql.Tx used by shared helpers.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
