package repository

import (
    "context"
    "testing"

    "github.com/pkg/errors"

    "github.com/iliyamo/quic/internal/testutil"
)

func TestSetRepoCreate(t *testing.T) {
    db := testutil.SetupTestDB(t)
    folders := NewFolderRepo(db)
    repo := NewSetRepo(db)
    ctx := context.Background()
    alice := createUser(t, db, "alice")
    bob := createUser(t, db, "bob")

    f1, _ := folders.Create(ctx, alice, "One")
    f2, _ := folders.Create(ctx, alice, "Two")
    bobs, _ := folders.Create(ctx, bob, "Bob's")

    s, err := repo.Create(ctx, alice, NewSet{FolderID: f1.ID, Name: "Cells", Description: "mitosis"})
    if err != nil {
        t.Fatalf("Create failed: %v", err)
    }
    if s.ID == 0 || s.Name != "Cells" || s.Description != "mitosis" {
        t.Errorf("Unexpected set: %+v", s)
    }

    tests := []struct {
        name    string
        userID  uint64
        in      NewSet
        wantErr error
    }{
        {"duplicate in folder", alice, NewSet{FolderID: f1.ID, Name: "Cells"}, ErrSetExists},
        {"same name other folder", alice, NewSet{FolderID: f2.ID, Name: "Cells"}, nil},
        {"foreign folder", alice, NewSet{FolderID: bobs.ID, Name: "Sneaky"}, ErrNotFound},
        {"unknown folder", alice, NewSet{FolderID: 9999, Name: "Nowhere"}, ErrNotFound},
        {"empty name", alice, NewSet{FolderID: f1.ID, Name: " "}, ErrInvalidInput},
        {"no folder", alice, NewSet{Name: "Loose"}, ErrInvalidInput},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            _, err := repo.Create(ctx, tt.userID, tt.in)
            if tt.wantErr == nil {
                if err != nil {
                    t.Errorf("Expected success, got %v", err)
                }
                return
            }
            if !errors.Is(err, tt.wantErr) {
                t.Errorf("Expected %v, got %v", tt.wantErr, err)
            }
        })
    }
}

func TestSetRepoListByFolder(t *testing.T) {
    db := testutil.SetupTestDB(t)
    folders := NewFolderRepo(db)
    repo := NewSetRepo(db)
    ctx := context.Background()
    alice := createUser(t, db, "alice")
    bob := createUser(t, db, "bob")

    f, _ := folders.Create(ctx, alice, "Chemistry")
    for _, name := range []string{"Organic", "Acids"} {
        if _, err := repo.Create(ctx, alice, NewSet{FolderID: f.ID, Name: name}); err != nil {
            t.Fatalf("Create %s failed: %v", name, err)
        }
    }

    got, err := repo.ListByFolder(ctx, alice, f.ID)
    if err != nil {
        t.Fatalf("ListByFolder failed: %v", err)
    }
    if len(got) != 2 || got[0].Name != "Acids" || got[1].Name != "Organic" {
        t.Errorf("Expected [Acids Organic], got %+v", got)
    }

    foreign, err := repo.ListByFolder(ctx, bob, f.ID)
    if err != nil {
        t.Fatalf("ListByFolder failed: %v", err)
    }
    if len(foreign) != 0 {
        t.Errorf("Expected no sets for a folder bob does not own, got %+v", foreign)
    }
}
