package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/peerview/peerview-api/internal/model"
)

// AnswerRepo implements the answer mutation protocol on top of the
// content store: every operation reads the owning question document,
// mutates the embedded answer list, derives the question status, and
// replaces the whole document.
type AnswerRepo struct{ Questions *QuestionRepo }

func NewAnswerRepo(q *QuestionRepo) *AnswerRepo { return &AnswerRepo{Questions: q} }

// Add appends a new answer to a question and flips its status to
// answered. A question removed by moderation keeps its removed status;
// moderation outranks the answer lifecycle. Returns the stored answer.
// ErrNotFound when the question does not exist.
func (r *AnswerRepo) Add(ctx context.Context, questionID, authorID, textResponse, mediaURL string) (model.Answer, error) {
	q, err := r.Questions.Get(ctx, questionID)
	if err != nil {
		return model.Answer{}, err
	}
	a := model.Answer{
		AnswerID:     uuid.NewString(),
		UserID:       authorID,
		TextResponse: textResponse,
		MediaURL:     mediaURL,
		Timestamp:    time.Now().UTC(),
	}
	q.Answers = append(q.Answers, a)
	if q.Status != model.StatusRemoved {
		q.Status = model.StatusAnswered
	}
	if err := r.Questions.Replace(ctx, q); err != nil {
		return model.Answer{}, err
	}
	return a, nil
}

// Update edits an existing answer located by scanning for its id.
// Only the answer's author or an admin may edit; anyone else gets
// ErrForbidden and the document is left untouched. The edit stamps
// updatedAt/updatedBy.
func (r *AnswerRepo) Update(ctx context.Context, answerID, actorID, actorRole, textResponse, mediaURL string) (model.Answer, error) {
	q, err := r.Questions.FindByAnswerID(ctx, answerID)
	if err != nil {
		return model.Answer{}, err
	}
	for i := range q.Answers {
		if q.Answers[i].AnswerID != answerID {
			continue
		}
		if actorRole != model.RoleAdmin && q.Answers[i].UserID != actorID {
			return model.Answer{}, ErrForbidden
		}
		now := time.Now().UTC()
		q.Answers[i].TextResponse = textResponse
		if mediaURL != "" {
			q.Answers[i].MediaURL = mediaURL
		}
		q.Answers[i].UpdatedAt = &now
		q.Answers[i].UpdatedBy = actorID
		if err := r.Questions.Replace(ctx, q); err != nil {
			return model.Answer{}, err
		}
		return q.Answers[i], nil
	}
	return model.Answer{}, ErrNotFound
}

// Delete removes an answer from its parent question. When the last
// answer goes, the question drops back to pending. Same ownership rule
// as Update.
func (r *AnswerRepo) Delete(ctx context.Context, answerID, actorID, actorRole string) error {
	q, err := r.Questions.FindByAnswerID(ctx, answerID)
	if err != nil {
		return err
	}
	for i := range q.Answers {
		if q.Answers[i].AnswerID != answerID {
			continue
		}
		if actorRole != model.RoleAdmin && q.Answers[i].UserID != actorID {
			return ErrForbidden
		}
		q.Answers = append(q.Answers[:i], q.Answers[i+1:]...)
		if len(q.Answers) == 0 && q.Status != model.StatusRemoved {
			q.Status = model.StatusPending
		}
		return r.Questions.Replace(ctx, q)
	}
	return ErrNotFound
}
