package repository

import (
	"errors"
	"testing"

	"github.com/peerview/peerview-api/internal/model"
)

const testBcryptCost = 4

func TestUserCreateAndGet(t *testing.T) {
	repo := NewUserRepo(testDB(t))
	ctx := testCtx()

	u, err := repo.Create(ctx, "S1@Example.com", "pass1234", "Student One", model.RoleStudent, testBcryptCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != "s1@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if !u.IsActive {
		t.Fatal("new user not active")
	}

	got, err := repo.GetByEmail(ctx, "s1@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != u.ID || got.Role != model.RoleStudent {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	repo := NewUserRepo(testDB(t))
	ctx := testCtx()

	if _, err := repo.Create(ctx, "dup@example.com", "pass1234", "First", model.RoleStudent, testBcryptCost); err != nil {
		t.Fatalf("create: %v", err)
	}
	// Case differs; normalization makes it the same address.
	if _, err := repo.Create(ctx, "DUP@example.com", "other", "Second", model.RoleTeacher, testBcryptCost); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestUserAuthenticate(t *testing.T) {
	repo := NewUserRepo(testDB(t))
	ctx := testCtx()

	u, err := repo.Create(ctx, "t1@example.com", "pass1234", "Teacher One", model.RoleTeacher, testBcryptCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.Authenticate(ctx, "t1@example.com", "pass1234")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user: %+v", got)
	}

	// Unknown email, wrong password and deactivated account all look
	// the same to the caller.
	if _, err := repo.Authenticate(ctx, "nobody@example.com", "pass1234"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown email: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.Authenticate(ctx, "t1@example.com", "wrong"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("wrong password: expected ErrNotFound, got %v", err)
	}
	if err := repo.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := repo.Authenticate(ctx, "t1@example.com", "pass1234"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deactivated: expected ErrNotFound, got %v", err)
	}
}

func TestUserDeactivateKeepsEmailReserved(t *testing.T) {
	repo := NewUserRepo(testDB(t))
	ctx := testCtx()

	u, err := repo.Create(ctx, "gone@example.com", "pass1234", "Gone", model.RoleStudent, testBcryptCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Deactivate(ctx, u.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get after deactivate: %v", err)
	}
	if got.IsActive {
		t.Fatal("still active")
	}
	if _, err := repo.Create(ctx, "gone@example.com", "pass1234", "New", model.RoleStudent, testBcryptCost); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists on reserved email, got %v", err)
	}
}

func TestUserUpdatePartial(t *testing.T) {
	repo := NewUserRepo(testDB(t))
	ctx := testCtx()

	u, err := repo.Create(ctx, "u@example.com", "pass1234", "Before", model.RoleStudent, testBcryptCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "After"
	updated, err := repo.Update(ctx, u.ID, UserUpdate{FullName: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != "After" || updated.Role != model.RoleStudent || !updated.IsActive {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := repo.Update(ctx, "missing", UserUpdate{FullName: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserListAndCount(t *testing.T) {
	repo := NewUserRepo(testDB(t))
	ctx := testCtx()

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		if _, err := repo.Create(ctx, email, "pass1234", "User", model.RoleStudent, testBcryptCost); err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
	}

	n, err := repo.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("count: %d, %v", n, err)
	}

	page, err := repo.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("expected 2 users on page 1, got %d", len(page))
	}
	page2, err := repo.List(ctx, 2, 2)
	if err != nil || len(page2) != 1 {
		t.Fatalf("page 2: %d users, %v", len(page2), err)
	}
}
