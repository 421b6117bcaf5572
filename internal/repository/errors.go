// Package repository defines the persistence layer: the credential
// store backed by the users table and the content store holding one
// JSON document per question. The sentinel errors below are shared by
// every repository so handlers can map failure cases to HTTP statuses
// without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a requested user, question or embedded
// answer does not exist. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts a mutation on
// content they do not own and they are not an admin. Handlers
// translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrEmailExists is returned by UserRepo.Create when the email is
// already taken by any account, active or deactivated. Handlers
// translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidTarget is returned by the moderation overlay when the
// target type or action is not recognised. Handlers translate it
// into HTTP 400.
var ErrInvalidTarget = errors.New("invalid moderation target or action")
