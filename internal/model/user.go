package model

import "time"

// User represents an account record as stored in the `users` table.
// Usernames are unique; the password column only ever holds a bcrypt
// hash.  Users are created by registration and never updated or deleted.
//
// Fields:
//  ID           – primary key identifier of the user.
//  FirstName    – given name shown on the profile page.
//  LastName     – family name shown on the profile page.
//  Username     – unique login name.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of registration.
type User struct {
    ID           uint64    // users.user_id
    FirstName    string    // users.first_name
    LastName     string    // users.last_name
    Username     string    // users.username
    PasswordHash string    // users.password
    CreatedAt    time.Time // users.created_at
}

// Identity is the part of a user kept in the session after login.
type Identity struct {
    UserID   uint64 `json:"user_id"`
    Username string `json:"username"`
}
