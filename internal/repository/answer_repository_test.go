package repository

import (
	"errors"
	"testing"

	"github.com/peerview/peerview-api/internal/model"
)

func TestAnswerAddFlipsStatus(t *testing.T) {
	questions := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(questions)
	ctx := testCtx()

	q, err := questions.Create(ctx, "s1", "Pending question", "", "", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	a, err := answers.Add(ctx, q.ID, "t1", "First answer", "/v1/media/diagram.png")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.AnswerID == "" || a.UserID != "t1" {
		t.Fatalf("bad answer: %+v", a)
	}

	got, err := questions.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != model.StatusAnswered {
		t.Fatalf("status %q after answer", got.Status)
	}
	if len(got.Answers) != 1 || got.Answers[0].AnswerID != a.AnswerID {
		t.Fatalf("answer not embedded: %+v", got.Answers)
	}

	if _, err := answers.Add(ctx, "missing", "t1", "text", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnswerAddKeepsRemovedStatus(t *testing.T) {
	questions := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(questions)
	moderation := NewModerationRepo(questions)
	ctx := testCtx()

	q, _ := questions.Create(ctx, "s1", "Question", "", "", "image")
	if _, err := moderation.Moderate(ctx, TargetQuestion, q.ID, ActionRemove, "admin1"); err != nil {
		t.Fatalf("moderate: %v", err)
	}

	// Answering a removed question must not resurrect it.
	a, err := answers.Add(ctx, q.ID, "t1", "late answer", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, _ := questions.Get(ctx, q.ID)
	if got.Status != model.StatusRemoved {
		t.Fatalf("status %q, want removed", got.Status)
	}
	if len(got.Answers) != 1 || got.Answers[0].AnswerID != a.AnswerID {
		t.Fatalf("answer not embedded: %+v", got.Answers)
	}

	// Nor does deleting its last answer flip it back to pending.
	if err := answers.Delete(ctx, a.AnswerID, "t1", model.RoleTeacher); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = questions.Get(ctx, q.ID)
	if got.Status != model.StatusRemoved {
		t.Fatalf("status %q after delete, want removed", got.Status)
	}
}

func TestAnswerUpdateOwnership(t *testing.T) {
	questions := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(questions)
	ctx := testCtx()

	q, _ := questions.Create(ctx, "s1", "Question", "", "", "image")
	a, err := answers.Add(ctx, q.ID, "t1", "original text", "")
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	// A different teacher may not edit someone else's answer.
	if _, err := answers.Update(ctx, a.AnswerID, "t2", model.RoleTeacher, "hijacked", ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	got, _ := questions.Get(ctx, q.ID)
	if got.Answers[0].TextResponse != "original text" {
		t.Fatal("document modified by rejected edit")
	}

	// The author may.
	upd, err := answers.Update(ctx, a.AnswerID, "t1", model.RoleTeacher, "revised text", "")
	if err != nil {
		t.Fatalf("author update: %v", err)
	}
	if upd.TextResponse != "revised text" || upd.UpdatedAt == nil || upd.UpdatedBy != "t1" {
		t.Fatalf("bad update: %+v", upd)
	}

	// So may an admin who is not the author.
	if _, err := answers.Update(ctx, a.AnswerID, "admin1", model.RoleAdmin, "admin edit", ""); err != nil {
		t.Fatalf("admin update: %v", err)
	}

	if _, err := answers.Update(ctx, "missing", "t1", model.RoleTeacher, "x", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnswerUpdateKeepsMediaWhenOmitted(t *testing.T) {
	questions := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(questions)
	ctx := testCtx()

	q, _ := questions.Create(ctx, "s1", "Question", "", "", "image")
	a, _ := answers.Add(ctx, q.ID, "t1", "text", "/v1/media/keep.png")

	upd, err := answers.Update(ctx, a.AnswerID, "t1", model.RoleTeacher, "new text", "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if upd.MediaURL != "/v1/media/keep.png" {
		t.Fatalf("media lost: %q", upd.MediaURL)
	}
}

func TestAnswerDeleteRevertsStatus(t *testing.T) {
	questions := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(questions)
	ctx := testCtx()

	q, _ := questions.Create(ctx, "s1", "Question", "", "", "image")
	a1, _ := answers.Add(ctx, q.ID, "t1", "first", "")
	a2, _ := answers.Add(ctx, q.ID, "t2", "second", "")

	// Not the author, not an admin.
	if err := answers.Delete(ctx, a1.AnswerID, "t2", model.RoleTeacher); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	if err := answers.Delete(ctx, a1.AnswerID, "t1", model.RoleTeacher); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ := questions.Get(ctx, q.ID)
	if len(got.Answers) != 1 || got.Status != model.StatusAnswered {
		t.Fatalf("one answer should remain: %+v", got)
	}

	// Removing the last answer drops the question back to pending.
	if err := answers.Delete(ctx, a2.AnswerID, "admin1", model.RoleAdmin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	got, _ = questions.Get(ctx, q.ID)
	if len(got.Answers) != 0 || got.Status != model.StatusPending {
		t.Fatalf("expected pending with no answers: %+v", got)
	}
}
