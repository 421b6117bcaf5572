package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peerview/peerview-api/internal/middleware"
	"github.com/peerview/peerview-api/internal/model"
	"github.com/peerview/peerview-api/internal/queue"
	"github.com/peerview/peerview-api/internal/repository"
)

// AdminHandler bundles dependencies for the admin-only endpoints.
// Route registration guards the whole group with RequireRole(admin).
type AdminHandler struct {
	Users      *repository.UserRepo
	Questions  *repository.QuestionRepo
	Moderation *repository.ModerationRepo
	Workflow   WorkflowPublisher
}

func NewAdminHandler(u *repository.UserRepo, q *repository.QuestionRepo, m *repository.ModerationRepo, wf WorkflowPublisher) *AdminHandler {
	return &AdminHandler{Users: u, Questions: q, Moderation: m, Workflow: wf}
}

type statsResp struct {
	TotalUsers        int       `json:"totalUsers"`
	TotalQuestions    int       `json:"totalQuestions"`
	TotalAnswers      int       `json:"totalAnswers"`
	AnsweredQuestions int       `json:"answeredQuestions"`
	PendingQuestions  int       `json:"pendingQuestions"`
	RecentQuestions   int       `json:"recentQuestions"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// Stats aggregates system counters. Each count is a separate query
// with no cross-document transaction, so the numbers are a snapshot,
// not a consistent cut.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		resp statsResp
		err  error
	)
	if resp.TotalUsers, err = h.Users.Count(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}
	if resp.TotalQuestions, err = h.Questions.Count(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}
	if resp.TotalAnswers, err = h.Questions.CountAnswers(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}
	if resp.AnsweredQuestions, err = h.Questions.CountByStatus(ctx, model.StatusAnswered); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}
	if resp.PendingQuestions, err = h.Questions.CountByStatus(ctx, model.StatusPending); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if resp.RecentQuestions, err = h.Questions.CountSince(ctx, weekAgo); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "stats query failed"})
	}
	resp.LastUpdated = time.Now().UTC()
	return c.JSON(http.StatusOK, resp)
}

type moderationReq struct {
	TargetType string `json:"targetType"` // question | answer
	TargetID   string `json:"targetId"`
	Action     string `json:"action"` // remove | flag
}

// Moderate applies a moderation action and fires a workflow
// notification (best effort).
func (h *AdminHandler) Moderate(c echo.Context) error {
	var req moderationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TargetType == "" || req.TargetID == "" || req.Action == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "targetType, targetId and action required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	moderatorID := middleware.CurrentUserID(c)
	result, err := h.Moderation.Moderate(ctx, req.TargetType, req.TargetID, req.Action, moderatorID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidTarget):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid target type or action"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "target not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "moderation failed"})
		}
	}

	if h.Workflow != nil {
		_ = h.Workflow.Publish(ctx, queue.ModerationEvent{
			TargetType:  req.TargetType,
			TargetID:    req.TargetID,
			Action:      req.Action,
			ModeratorID: moderatorID,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			TriggerType: queue.TriggerModeration,
		})
	}
	return c.JSON(http.StatusOK, result)
}

// FlaggedContent lists flagged questions and questions with flagged
// answers for admin review.
func (h *AdminHandler) FlaggedContent(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	fc, err := h.Moderation.ListFlagged(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, fc)
}

// Users lists accounts with pagination, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	page, limit := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.List(ctx, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, out)
}

type activityResp struct {
	UserID          string                  `json:"userId"`
	QuestionsAsked  int                     `json:"questionsAsked"`
	AnswersProvided int                     `json:"answersProvided"`
	Questions       []model.Question        `json:"questions"`
	Answers         []repository.UserAnswer `json:"answers"`
}

// UserActivity reports everything a user has posted: their questions
// and every answer of theirs across the collection.
func (h *AdminHandler) UserActivity(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	userID := c.Param("id")
	questions, err := h.Questions.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	answers, err := h.Questions.AnswersByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, activityResp{
		UserID:          userID,
		QuestionsAsked:  len(questions),
		AnswersProvided: len(answers),
		Questions:       questions,
		Answers:         answers,
	})
}

// DeactivateUser soft-deletes an account: the record and its email
// stay reserved, only is_active flips.
func (h *AdminHandler) DeactivateUser(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := strings.TrimSpace(c.Param("id"))
	if err := h.Users.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "deactivate failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deactivated"})
}
