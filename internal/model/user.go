package model

import "time"

// User represents an application user record as stored in the
// `app_user` table.  The password hash never leaves the server; handlers
// define their own response shapes.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name, matched exactly.
//  PasswordHash – bcrypt hash of the password.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           uint64    // app_user.id
    Username     string    // app_user.username
    PasswordHash string    // app_user.password_hash
    CreatedAt    time.Time // app_user.created_at
}
