package model

import "time"

// Role values stored in users.role. Students post questions, teachers
// answer them, admins moderate. The role claim inside access tokens
// uses the same strings.
const (
    RoleStudent = "student"
    RoleTeacher = "teacher"
    RoleAdmin   = "admin"
)

// ValidRole reports whether s is one of the three known roles.
func ValidRole(s string) bool {
    return s == RoleStudent || s == RoleTeacher || s == RoleAdmin
}

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column. The json tags
// are omitted because these structs are used internally by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Accounts are never physically deleted: deactivation sets IsActive
// to false and the email stays reserved, so uniqueness holds across
// both active and inactive users.
//
// Fields:
//  ID           – opaque UUID primary key.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password; plaintext is never stored.
//  FullName     – display name.
//  Role         – one of student, teacher, admin.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
type User struct {
    ID           string    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    FullName     string    // users.full_name
    Role         string    // users.role
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
}
