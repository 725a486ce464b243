package repository

import (
    "context"
    "sync"
    "testing"

    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/testutil"
)

func TestFolderRepoCreate(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewFolderRepo(db)
    ctx := context.Background()
    alice := createUser(t, db, "alice")
    bob := createUser(t, db, "bob")

    f, err := repo.Create(ctx, alice, "  Biology ")
    if err != nil {
        t.Fatalf("Create failed: %v", err)
    }
    if f.ID == 0 || f.Name != "Biology" {
        t.Errorf("Unexpected folder: %+v", f)
    }

    t.Run("duplicate for same user", func(t *testing.T) {
        _, err := repo.Create(ctx, alice, "Biology")
        if !errors.Is(err, ErrFolderExists) {
            t.Fatalf("Expected ErrFolderExists, got %v", err)
        }
        var n int
        if err := db.QueryRow("SELECT COUNT(*) FROM folders WHERE folder_name = 'Biology'").Scan(&n); err != nil {
            t.Fatal(err)
        }
        if n != 1 {
            t.Errorf("Expected rejected insert to be rolled back, found %d folders", n)
        }
    })

    t.Run("same name for other user", func(t *testing.T) {
        if _, err := repo.Create(ctx, bob, "Biology"); err != nil {
            t.Errorf("Expected second user to succeed, got %v", err)
        }
    })

    t.Run("empty name", func(t *testing.T) {
        if _, err := repo.Create(ctx, alice, "   "); !errors.Is(err, ErrInvalidInput) {
            t.Errorf("Expected ErrInvalidInput, got %v", err)
        }
    })
}

func TestFolderRepoListByUser(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewFolderRepo(db)
    ctx := context.Background()
    alice := createUser(t, db, "alice")
    bob := createUser(t, db, "bob")

    for _, name := range []string{"Physics", "Art", "Math"} {
        if _, err := repo.Create(ctx, alice, name); err != nil {
            t.Fatalf("Create %s failed: %v", name, err)
        }
    }
    if _, err := repo.Create(ctx, bob, "Bob Only"); err != nil {
        t.Fatalf("Create failed: %v", err)
    }

    got, err := repo.ListByUser(ctx, alice)
    if err != nil {
        t.Fatalf("ListByUser failed: %v", err)
    }
    want := []string{"Art", "Math", "Physics"}
    if len(got) != len(want) {
        t.Fatalf("Expected %d folders, got %d", len(want), len(got))
    }
    for i, f := range got {
        if f.Name != want[i] {
            t.Errorf("Index %d: expected %s, got %s", i, want[i], f.Name)
        }
    }

    empty, err := repo.ListByUser(ctx, createUser(t, db, "carol"))
    if err != nil {
        t.Fatalf("ListByUser failed: %v", err)
    }
    if empty == nil || len(empty) != 0 {
        t.Errorf("Expected an empty non-nil list, got %#v", empty)
    }
}

func TestFolderRepoConcurrentCreate(t *testing.T) {
    db := testutil.SetupTestDB(t)
    repo := NewFolderRepo(db)
    alice := createUser(t, db, "alice")

    const workers = 8
    var wg sync.WaitGroup
    errs := make(chan error, workers)
    for i := 0; i < workers; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            _, err := repo.Create(context.Background(), alice, "Race")
            errs <- err
        }()
    }
    wg.Wait()
    close(errs)

    created, conflicts := 0, 0
    for err := range errs {
        switch {
        case err == nil:
            created++
        case errors.Is(err, ErrConflict):
            conflicts++
        default:
            t.Errorf("Unexpected error: %v", err)
        }
    }
    if created != 1 || conflicts != workers-1 {
        t.Errorf("Expected 1 create and %d conflicts, got %d and %d", workers-1, created, conflicts)
    }
}
