package repository

import (
	"context"
	"time"

	"github.com/peerview/peerview-api/internal/model"
)

// Moderation target types and actions accepted by Moderate.
const (
	TargetQuestion = "question"
	TargetAnswer   = "answer"

	ActionRemove = "remove"
	ActionFlag   = "flag"
)

// ModerationRepo is the moderation overlay. It marks content as
// flagged or removed without physically deleting documents: a removed
// question keeps its record with moderation fields stamped, a removed
// answer has its text overwritten with a fixed placeholder, and flags
// accumulate append-only.
type ModerationRepo struct{ Questions *QuestionRepo }

func NewModerationRepo(q *QuestionRepo) *ModerationRepo { return &ModerationRepo{Questions: q} }

// ModerationResult reports what Moderate did, echoed back to the admin.
type ModerationResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	TargetID string `json:"targetId"`
	Action   string `json:"action"`
}

// Moderate applies an action to a question or an answer. Flagging is
// deliberately not idempotent: the same moderator flagging twice
// appends two Flag entries.
func (r *ModerationRepo) Moderate(ctx context.Context, targetType, targetID, action, moderatorID string) (ModerationResult, error) {
	switch targetType {
	case TargetQuestion:
		return r.moderateQuestion(ctx, targetID, action, moderatorID)
	case TargetAnswer:
		return r.moderateAnswer(ctx, targetID, action, moderatorID)
	default:
		return ModerationResult{}, ErrInvalidTarget
	}
}

func (r *ModerationRepo) moderateQuestion(ctx context.Context, questionID, action, moderatorID string) (ModerationResult, error) {
	q, err := r.Questions.Get(ctx, questionID)
	if err != nil {
		return ModerationResult{}, err
	}
	now := time.Now().UTC()

	switch action {
	case ActionRemove:
		q.Moderated = true
		q.ModeratedBy = moderatorID
		q.ModeratedAt = &now
		q.ModerationAction = model.ModerationRemoved
		q.Status = model.StatusRemoved
		if err := r.Questions.Replace(ctx, q); err != nil {
			return ModerationResult{}, err
		}
		return ModerationResult{Success: true, Message: "question removed", TargetID: questionID, Action: action}, nil

	case ActionFlag:
		q.Flags = append(q.Flags, model.Flag{FlaggedBy: moderatorID, FlaggedAt: now, Reason: "Admin review"})
		if err := r.Questions.Replace(ctx, q); err != nil {
			return ModerationResult{}, err
		}
		return ModerationResult{Success: true, Message: "question flagged", TargetID: questionID, Action: action}, nil

	default:
		return ModerationResult{}, ErrInvalidTarget
	}
}

func (r *ModerationRepo) moderateAnswer(ctx context.Context, answerID, action, moderatorID string) (ModerationResult, error) {
	q, err := r.Questions.FindByAnswerID(ctx, answerID)
	if err != nil {
		return ModerationResult{}, err
	}
	now := time.Now().UTC()

	for i := range q.Answers {
		if q.Answers[i].AnswerID != answerID {
			continue
		}
		var msg string
		switch action {
		case ActionRemove:
			// Redaction overwrites the text; the original is not
			// retained anywhere.
			q.Answers[i].Moderated = true
			q.Answers[i].ModeratedBy = moderatorID
			q.Answers[i].ModeratedAt = &now
			q.Answers[i].ModerationAction = model.ModerationRemoved
			q.Answers[i].TextResponse = model.RedactedAnswerText
			msg = "answer removed"
		case ActionFlag:
			q.Answers[i].Flags = append(q.Answers[i].Flags,
				model.Flag{FlaggedBy: moderatorID, FlaggedAt: now, Reason: "Admin review"})
			msg = "answer flagged"
		default:
			return ModerationResult{}, ErrInvalidTarget
		}
		if err := r.Questions.Replace(ctx, q); err != nil {
			return ModerationResult{}, err
		}
		return ModerationResult{Success: true, Message: msg, TargetID: answerID, Action: action}, nil
	}
	return ModerationResult{}, ErrNotFound
}

// FlaggedContent is the admin review view: questions that are flagged
// themselves plus questions containing flagged answers.
type FlaggedContent struct {
	FlaggedQuestions            []model.Question `json:"flaggedQuestions"`
	QuestionsWithFlaggedAnswers []model.Question `json:"questionsWithFlaggedAnswers"`
	TotalFlagged                int              `json:"totalFlagged"`
}

// ListFlagged runs the two existence scans over the content store.
func (r *ModerationRepo) ListFlagged(ctx context.Context) (FlaggedContent, error) {
	flagged, err := r.Questions.ListFlaggedQuestions(ctx)
	if err != nil {
		return FlaggedContent{}, err
	}
	withFlaggedAnswers, err := r.Questions.ListQuestionsWithFlaggedAnswers(ctx)
	if err != nil {
		return FlaggedContent{}, err
	}
	return FlaggedContent{
		FlaggedQuestions:            flagged,
		QuestionsWithFlaggedAnswers: withFlaggedAnswers,
		TotalFlagged:                len(flagged) + len(withFlaggedAnswers),
	}, nil
}
