package repository

import (
    "context"
    "database/sql"
    "strings"
    "testing"

    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/testutil"
    "github.com/iliyamo/quic/internal/utils"
)

func createUser(t *testing.T, db *sql.DB, username string) uint64 {
    t.Helper()
    id, err := NewUserRepo(db).Create(context.Background(), NewUser{
        FirstName: "Test",
        LastName:  "User",
        Username:  username,
        Password:  "password",
    }, 4)
    if err != nil {
        t.Fatalf("Failed to create user %s: %v", username, err)
    }
    return id
}

func TestUserRepoCreate(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewUserRepo(db)
    ctx := context.Background()

    id, err := repo.Create(ctx, NewUser{FirstName: "Ada", LastName: "Lovelace", Username: "ada", Password: "engine"}, 4)
    if err != nil {
        t.Fatalf("Create failed: %v", err)
    }
    if id == 0 {
        t.Fatal("Expected a non-zero id")
    }

    u, err := repo.GetByUsername(ctx, "ada")
    if err != nil {
        t.Fatalf("GetByUsername failed: %v", err)
    }
    if u.ID != id || u.FirstName != "Ada" || u.LastName != "Lovelace" {
        t.Errorf("Unexpected user: %+v", u)
    }
    if u.PasswordHash == "engine" || !utils.VerifyPassword(u.PasswordHash, "engine") {
        t.Error("Expected a bcrypt hash of the password to be stored")
    }

    byID, err := repo.GetByID(ctx, id)
    if err != nil {
        t.Fatalf("GetByID failed: %v", err)
    }
    if byID.Username != "ada" {
        t.Errorf("Expected username ada, got %s", byID.Username)
    }
}

func TestUserRepoDuplicate(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewUserRepo(db)
    ctx := context.Background()

    createUser(t, db, "dup")
    _, err := repo.Create(ctx, NewUser{FirstName: "B", LastName: "C", Username: "dup", Password: "x"}, 4)
    if !errors.Is(err, ErrUsernameExists) {
        t.Fatalf("Expected ErrUsernameExists, got %v", err)
    }
    if !errors.Is(err, ErrConflict) {
        t.Error("Expected ErrUsernameExists to be a conflict")
    }
}

func TestUserRepoInvalidInput(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewUserRepo(db)

    tests := []struct {
        name string
        in   NewUser
    }{
        {"empty username", NewUser{Username: "  ", Password: "x"}},
        {"empty password", NewUser{Username: "someone"}},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            if _, err := repo.Create(context.Background(), tt.in, 4); !errors.Is(err, ErrInvalidInput) {
                t.Errorf("Expected ErrInvalidInput, got %v", err)
            }
        })
    }
}

func TestUserRepoPasswordTooLong(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewUserRepo(db)
    ctx := context.Background()

    _, err := repo.Create(ctx, NewUser{FirstName: "L", LastName: "P", Username: "long", Password: strings.Repeat("p", 73)}, 4)
    if !errors.Is(err, ErrPasswordTooLong) {
        t.Fatalf("Expected ErrPasswordTooLong, got %v", err)
    }
    if !errors.Is(err, ErrInvalidInput) {
        t.Error("Expected ErrPasswordTooLong to be invalid input")
    }
    if _, err := repo.GetByUsername(ctx, "long"); !errors.Is(err, ErrNotFound) {
        t.Errorf("Expected no user row, got %v", err)
    }

    // 72 bytes is still accepted.
    if _, err := repo.Create(ctx, NewUser{FirstName: "L", LastName: "P", Username: "edge", Password: strings.Repeat("p", 72)}, 4); err != nil {
        t.Errorf("Expected a 72-byte password to be accepted, got %v", err)
    }
}

func TestUserRepoNotFound(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewUserRepo(db)
    ctx := context.Background()

    if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
        t.Errorf("Expected ErrNotFound by username, got %v", err)
    }
    if _, err := repo.GetByID(ctx, 424242); !errors.Is(err, ErrNotFound) {
        t.Errorf("Expected ErrNotFound by id, got %v", err)
    }
}

func TestUserRepoExactMatch(t *testing.T) {
    db := testutil.SetupTestDB(t)
    createUser(t, db, "exact")

    if _, err := NewUserRepo(db).GetByUsername(context.Background(), "exact "); !errors.Is(err, ErrNotFound) {
        t.Errorf("Expected a trailing space to miss, got %v", err)
    }
}
