package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/peerview/peerview-api/internal/middleware"
	"github.com/peerview/peerview-api/internal/model"
	"github.com/peerview/peerview-api/internal/queue"
	"github.com/peerview/peerview-api/internal/repository"
)

// WorkflowPublisher is the fire-and-forget notification hook. Handlers
// never fail a request over a publish error; a nil publisher disables
// notifications entirely (tests run with nil).
type WorkflowPublisher interface {
	Publish(ctx context.Context, event interface{}) error
}

// QuestionHandler bundles dependencies for the question endpoints.
type QuestionHandler struct {
	Questions *repository.QuestionRepo
	Workflow  WorkflowPublisher
}

func NewQuestionHandler(q *repository.QuestionRepo, wf WorkflowPublisher) *QuestionHandler {
	return &QuestionHandler{Questions: q, Workflow: wf}
}

type questionReq struct {
	Title     string `json:"title"`
	Caption   string `json:"caption"`
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"`
}

func pageParams(c echo.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

// List returns the paginated questions feed, newest first, moderated
// content excluded.
func (h *QuestionHandler) List(c echo.Context) error {
	page, limit := pageParams(c)

	ctx, cancel := reqCtx(c)
	defer cancel()

	questions, err := h.Questions.ListPaginated(ctx, page, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, questions)
}

// Get returns a single question by id. Moderated questions stay
// retrievable by direct id.
func (h *QuestionHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.Questions.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, q)
}

// Create posts a new question under the authenticated identity and
// fires a workflow notification (best effort).
func (h *QuestionHandler) Create(c echo.Context) error {
	var req questionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Caption) == "" || req.MediaURL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title, caption and mediaUrl required"})
	}
	if req.MediaType == "" {
		req.MediaType = "image"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.Questions.Create(ctx, middleware.CurrentUserID(c), req.Title, req.Caption, req.MediaURL, req.MediaType)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create question failed"})
	}

	if h.Workflow != nil {
		_ = h.Workflow.Publish(ctx, queue.QuestionCreatedEvent{
			QuestionID:  q.ID,
			UserID:      q.UserID,
			Title:       q.Title,
			MediaURL:    q.MediaURL,
			MediaType:   q.MediaType,
			Timestamp:   q.Timestamp.Format(time.RFC3339),
			TriggerType: queue.TriggerNewQuestion,
		})
	}
	return c.JSON(http.StatusCreated, q)
}

// Update edits a question's title/caption/media. Only the question's
// owner or an admin may update.
func (h *QuestionHandler) Update(c echo.Context) error {
	var req questionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Caption) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and caption required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.Questions.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if middleware.CurrentRole(c) != model.RoleAdmin && q.UserID != middleware.CurrentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}

	q.Title = req.Title
	q.Caption = req.Caption
	if req.MediaURL != "" {
		q.MediaURL = req.MediaURL
	}
	if req.MediaType != "" {
		q.MediaType = req.MediaType
	}
	if err := h.Questions.Replace(ctx, q); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update question failed"})
	}
	return c.JSON(http.StatusOK, q)
}

// Delete hard-deletes a question. Only the owner or an admin may
// delete. Moderation's soft-remove is the separate admin surface.
func (h *QuestionHandler) Delete(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.Questions.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "question not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if middleware.CurrentRole(c) != model.RoleAdmin && q.UserID != middleware.CurrentUserID(c) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
	}
	if err := h.Questions.Delete(ctx, q.ID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete question failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "question deleted"})
}
