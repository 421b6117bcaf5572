package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/peerview/peerview-api/internal/model"
)

// QuestionRepo is the content store: a thin key-document abstraction
// over the `questions` table. Each row holds one complete question
// document (answers and flags embedded) as JSON, plus a few
// denormalized columns (status, moderated, created_at, user_id) used
// for list and stat queries.
//
// Replace is a whole-document overwrite with no version token, so two
// concurrent mutations of the same question race and the last writer
// wins.
type QuestionRepo struct{ DB *sql.DB }

func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{DB: db} }

// Create builds a fresh pending question document and persists it.
func (r *QuestionRepo) Create(ctx context.Context, userID, title, caption, mediaURL, mediaType string) (model.Question, error) {
	q := model.Question{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Caption:   caption,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		Timestamp: time.Now().UTC(),
		Status:    model.StatusPending,
		Answers:   []model.Answer{},
	}
	doc, err := json.Marshal(q)
	if err != nil {
		return model.Question{}, err
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO questions (id, user_id, status, moderated, created_at, doc) VALUES (?,?,?,?,?,?)",
		q.ID, q.UserID, q.Status, q.Moderated, q.Timestamp, doc)
	if err != nil {
		return model.Question{}, err
	}
	return q, nil
}

// Get fetches a question document by id. Moderated documents are still
// retrievable; only list queries exclude them.
func (r *QuestionRepo) Get(ctx context.Context, id string) (model.Question, error) {
	var doc []byte
	err := r.DB.QueryRowContext(ctx, "SELECT doc FROM questions WHERE id=? LIMIT 1", id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Question{}, ErrNotFound
	}
	if err != nil {
		return model.Question{}, err
	}
	return decodeQuestion(doc)
}

// Replace overwrites the whole document and refreshes the denormalized
// columns. Last write wins; there is no conditional check against the
// previously read version.
func (r *QuestionRepo) Replace(ctx context.Context, q model.Question) error {
	doc, err := json.Marshal(q)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE questions SET status=?, moderated=?, doc=? WHERE id=?",
		q.Status, q.Moderated, doc, q.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// RowsAffected can also be 0 on a no-op overwrite, but every
		// caller mutates the document before replacing, so treat it as
		// a missing row.
		if _, gerr := r.Get(ctx, q.ID); errors.Is(gerr, ErrNotFound) {
			return ErrNotFound
		}
	}
	return nil
}

// Delete hard-deletes a question document. Unlike moderation's
// soft-remove, the record is gone afterwards.
func (r *QuestionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM questions WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPaginated returns non-moderated questions newest first. Page
// numbers start at 1.
func (r *QuestionRepo) ListPaginated(ctx context.Context, page, limit int) ([]model.Question, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT doc FROM questions WHERE moderated=? ORDER BY created_at DESC LIMIT ? OFFSET ?",
		false, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// ListByUser returns every question asked by a user, newest first.
func (r *QuestionRepo) ListByUser(ctx context.Context, userID string) ([]model.Question, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT doc FROM questions WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// FindByAnswerID locates the question that embeds the given answer id.
// Answers are not top-level documents, so this is a scan over the whole
// collection, O(collection) by identifier.
func (r *QuestionRepo) FindByAnswerID(ctx context.Context, answerID string) (model.Question, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT doc FROM questions")
	if err != nil {
		return model.Question{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return model.Question{}, err
		}
		q, err := decodeQuestion(doc)
		if err != nil {
			return model.Question{}, err
		}
		for _, a := range q.Answers {
			if a.AnswerID == answerID {
				return q, nil
			}
		}
	}
	if err := rows.Err(); err != nil {
		return model.Question{}, err
	}
	return model.Question{}, ErrNotFound
}

// UserAnswer pairs an answer with the question it belongs to, for the
// admin activity view.
type UserAnswer struct {
	QuestionID    string       `json:"questionId"`
	QuestionTitle string       `json:"questionTitle"`
	Answer        model.Answer `json:"answer"`
}

// AnswersByUser collects every answer a user has written across all
// questions. Same collection scan as FindByAnswerID.
func (r *QuestionRepo) AnswersByUser(ctx context.Context, userID string) ([]UserAnswer, error) {
	questions, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []UserAnswer{}
	for _, q := range questions {
		for _, a := range q.Answers {
			if a.UserID == userID {
				out = append(out, UserAnswer{QuestionID: q.ID, QuestionTitle: q.Title, Answer: a})
			}
		}
	}
	return out, nil
}

// ListFlaggedQuestions returns questions carrying at least one flag.
func (r *QuestionRepo) ListFlaggedQuestions(ctx context.Context) ([]model.Question, error) {
	questions, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Question{}
	for _, q := range questions {
		if len(q.Flags) > 0 {
			out = append(out, q)
		}
	}
	return out, nil
}

// ListQuestionsWithFlaggedAnswers returns questions where any embedded
// answer carries a flag.
func (r *QuestionRepo) ListQuestionsWithFlaggedAnswers(ctx context.Context) ([]model.Question, error) {
	questions, err := r.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	out := []model.Question{}
	for _, q := range questions {
		for _, a := range q.Answers {
			if len(a.Flags) > 0 {
				out = append(out, q)
				break
			}
		}
	}
	return out, nil
}

// Count returns the total number of question documents.
func (r *QuestionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&n)
	return n, err
}

// CountByStatus counts questions in a given status.
func (r *QuestionRepo) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions WHERE status=?", status).Scan(&n)
	return n, err
}

// CountSince counts questions created at or after the given instant.
func (r *QuestionRepo) CountSince(ctx context.Context, t time.Time) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM questions WHERE created_at>=?", t).Scan(&n)
	return n, err
}

// CountAnswers sums embedded answer list lengths across the collection.
func (r *QuestionRepo) CountAnswers(ctx context.Context) (int, error) {
	questions, err := r.scanAll(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, q := range questions {
		total += len(q.Answers)
	}
	return total, nil
}

func (r *QuestionRepo) scanAll(ctx context.Context) ([]model.Question, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT doc FROM questions ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

func collectQuestions(rows *sql.Rows) ([]model.Question, error) {
	defer rows.Close()
	out := []model.Question{}
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		q, err := decodeQuestion(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func decodeQuestion(doc []byte) (model.Question, error) {
	var q model.Question
	if err := json.Unmarshal(doc, &q); err != nil {
		return model.Question{}, err
	}
	if q.Answers == nil {
		q.Answers = []model.Answer{}
	}
	return q, nil
}
