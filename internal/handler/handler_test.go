package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"

	"github.com/peerview/peerview-api/internal/config"
	"github.com/peerview/peerview-api/internal/database"
	"github.com/peerview/peerview-api/internal/middleware"
	"github.com/peerview/peerview-api/internal/repository"
)

// testEnv wires every handler against one in-memory database. The
// workflow publisher stays nil so no broker is needed.
type testEnv struct {
	e         *echo.Echo
	auth      *AuthHandler
	questions *QuestionHandler
	answers   *AnswerHandler
	admin     *AdminHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{JWTSecret: "test-secret", AccessTTLMin: 60, BcryptCost: 4}
	users := repository.NewUserRepo(db)
	questions := repository.NewQuestionRepo(db)
	answers := repository.NewAnswerRepo(questions)
	moderation := repository.NewModerationRepo(questions)

	return &testEnv{
		e:         echo.New(),
		auth:      NewAuthHandler(cfg, users),
		questions: NewQuestionHandler(questions, nil),
		answers:   NewAnswerHandler(answers, nil),
		admin:     NewAdminHandler(users, questions, moderation, nil),
	}
}

// request builds an echo context carrying an optional JSON body and an
// optional authenticated identity, bypassing the JWT middleware the
// same way the middleware would have populated the context.
func (env *testEnv) request(method, path string, body interface{}, userID, role string) (echo.Context, *httptest.ResponseRecorder) {
	var reader *strings.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.CtxUserID, userID)
		c.Set(middleware.CtxRole, role)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, rec.Body.String())
	}
}

// registerUser creates an account through the real endpoint and
// returns the user id.
func (env *testEnv) registerUser(t *testing.T, email, role string) string {
	t.Helper()
	c, rec := env.request(http.MethodPost, "/v1/auth/register", map[string]string{
		"email":    email,
		"password": "pass1234",
		"fullName": "Test User",
		"role":     role,
	}, "", "")
	if err := env.auth.Register(c); err != nil {
		t.Fatalf("register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d (%s)", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	return resp.User.ID
}

// createQuestion posts a question as the given user and returns its id.
func (env *testEnv) createQuestion(t *testing.T, userID, title string) string {
	t.Helper()
	c, rec := env.request(http.MethodPost, "/v1/questions", map[string]string{
		"title":    title,
		"caption":  "caption for " + title,
		"mediaUrl": "/v1/media/test.jpg",
	}, userID, "student")
	if err := env.questions.Create(c); err != nil {
		t.Fatalf("create question: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("create question: status %d (%s)", rec.Code, rec.Body.String())
	}
	var q struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &q)
	return q.ID
}
