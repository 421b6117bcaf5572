package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peerview/peerview-api/internal/middleware"
	"github.com/peerview/peerview-api/internal/queue"
	"github.com/peerview/peerview-api/internal/repository"
)

// AnswerHandler bundles dependencies for the answer endpoints. Route
// registration restricts these to teacher and admin roles; ownership
// of individual answers is enforced by the repository.
type AnswerHandler struct {
	Answers  *repository.AnswerRepo
	Workflow WorkflowPublisher
}

func NewAnswerHandler(a *repository.AnswerRepo, wf WorkflowPublisher) *AnswerHandler {
	return &AnswerHandler{Answers: a, Workflow: wf}
}

type answerReq struct {
	TextResponse string `json:"textResponse"`
	MediaURL     string `json:"mediaUrl"`
}

// Create adds an answer to a question and fires a workflow
// notification (best effort).
func (h *AnswerHandler) Create(c echo.Context) error {
	var req answerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.TextResponse) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "textResponse is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	questionID := c.Param("id")
	a, err := h.Answers.Add(ctx, questionID, middleware.CurrentUserID(c), req.TextResponse, req.MediaURL)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add answer failed"})
	}

	if h.Workflow != nil {
		_ = h.Workflow.Publish(ctx, queue.AnswerCreatedEvent{
			QuestionID:   questionID,
			AnswerID:     a.AnswerID,
			UserID:       a.UserID,
			TextResponse: a.TextResponse,
			MediaURL:     a.MediaURL,
			Timestamp:    a.Timestamp.Format(time.RFC3339),
			TriggerType:  queue.TriggerNewAnswer,
		})
	}
	return c.JSON(http.StatusCreated, a)
}

// Update edits an answer. The repository rejects callers who neither
// own the answer nor hold the admin role.
func (h *AnswerHandler) Update(c echo.Context) error {
	var req answerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.TextResponse) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "textResponse is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Answers.Update(ctx, c.Param("id"),
		middleware.CurrentUserID(c), middleware.CurrentRole(c), req.TextResponse, req.MediaURL)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update answer failed"})
		}
	}
	return c.JSON(http.StatusOK, a)
}

// Delete removes an answer, flipping the parent question back to
// pending when it was the last one. Same ownership rule as Update.
func (h *AnswerHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Answers.Delete(ctx, c.Param("id"), middleware.CurrentUserID(c), middleware.CurrentRole(c))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "answer not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete answer failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "answer deleted"})
}
