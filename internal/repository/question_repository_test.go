package repository

import (
	"errors"
	"testing"

	"github.com/peerview/peerview-api/internal/model"
)

func TestQuestionCreateAndGet(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	ctx := testCtx()

	q, err := repo.Create(ctx, "u1", "Why is the sky blue?", "Asked in class today", "/v1/media/sky.jpg", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if q.Status != model.StatusPending {
		t.Fatalf("new question status %q", q.Status)
	}
	if q.Answers == nil || len(q.Answers) != 0 {
		t.Fatalf("expected empty answers, got %v", q.Answers)
	}

	got, err := repo.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != q.Title || got.UserID != "u1" || got.MediaType != "image" {
		t.Fatalf("unexpected document: %+v", got)
	}
	if got.Answers == nil {
		t.Fatal("answers decoded as nil")
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionReplace(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	ctx := testCtx()

	q, err := repo.Create(ctx, "u1", "Original", "caption", "", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	q.Title = "Edited"
	q.Status = model.StatusAnswered
	if err := repo.Replace(ctx, q); err != nil {
		t.Fatalf("replace: %v", err)
	}

	got, err := repo.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Edited" || got.Status != model.StatusAnswered {
		t.Fatalf("replace not persisted: %+v", got)
	}

	missing := q
	missing.ID = "missing"
	if err := repo.Replace(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestQuestionDelete(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	ctx := testCtx()

	q, err := repo.Create(ctx, "u1", "Doomed", "", "", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Delete(ctx, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, q.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, q.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestQuestionListExcludesModerated(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	ctx := testCtx()

	keep, err := repo.Create(ctx, "u1", "Visible", "", "", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hidden, err := repo.Create(ctx, "u1", "Hidden", "", "", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	hidden.Moderated = true
	hidden.Status = model.StatusRemoved
	if err := repo.Replace(ctx, hidden); err != nil {
		t.Fatalf("replace: %v", err)
	}

	list, err := repo.ListPaginated(ctx, 1, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("expected only the visible question, got %d", len(list))
	}

	// The moderated document is still retrievable directly.
	got, err := repo.Get(ctx, hidden.ID)
	if err != nil {
		t.Fatalf("get moderated: %v", err)
	}
	if !got.Moderated {
		t.Fatal("moderated flag lost")
	}
}

func TestFindByAnswerID(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(repo)
	ctx := testCtx()

	q, err := repo.Create(ctx, "u1", "Question", "", "", "image")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	a, err := answers.Add(ctx, q.ID, "t1", "Because of scattering", "")
	if err != nil {
		t.Fatalf("add answer: %v", err)
	}

	found, err := repo.FindByAnswerID(ctx, a.AnswerID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.ID != q.ID {
		t.Fatalf("found wrong question %q", found.ID)
	}

	if _, err := repo.FindByAnswerID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnswersByUser(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(repo)
	ctx := testCtx()

	q1, _ := repo.Create(ctx, "s1", "First", "", "", "image")
	q2, _ := repo.Create(ctx, "s2", "Second", "", "", "image")
	if _, err := answers.Add(ctx, q1.ID, "t1", "answer one", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := answers.Add(ctx, q2.ID, "t1", "answer two", ""); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := answers.Add(ctx, q2.ID, "t2", "someone else", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	mine, err := repo.AnswersByUser(ctx, "t1")
	if err != nil {
		t.Fatalf("answers by user: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(mine))
	}
	for _, ua := range mine {
		if ua.Answer.UserID != "t1" || ua.QuestionTitle == "" {
			t.Fatalf("bad entry: %+v", ua)
		}
	}
}

func TestQuestionCounts(t *testing.T) {
	repo := NewQuestionRepo(testDB(t))
	answers := NewAnswerRepo(repo)
	ctx := testCtx()

	q1, _ := repo.Create(ctx, "s1", "One", "", "", "image")
	repo.Create(ctx, "s1", "Two", "", "", "image")
	if _, err := answers.Add(ctx, q1.ID, "t1", "answered", ""); err != nil {
		t.Fatalf("add: %v", err)
	}

	if n, _ := repo.Count(ctx); n != 2 {
		t.Fatalf("count: %d", n)
	}
	if n, _ := repo.CountByStatus(ctx, model.StatusAnswered); n != 1 {
		t.Fatalf("answered: %d", n)
	}
	if n, _ := repo.CountByStatus(ctx, model.StatusPending); n != 1 {
		t.Fatalf("pending: %d", n)
	}
	if n, _ := repo.CountAnswers(ctx); n != 1 {
		t.Fatalf("answers: %d", n)
	}
}
