package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aithenode/booking-service/internal/events"
	"github.com/aithenode/booking-service/internal/repositories/memory"
	"github.com/aithenode/booking-service/internal/services"
	"github.com/aithenode/booking-service/internal/utils"
	"github.com/aithenode/booking-service/internal/validator"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	slogLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	logger := utils.NewSlogLogger(slogLogger)

	manager := services.NewServiceManager(
		memory.NewMemoryRepository(),
		events.NewMockEventPublisher(),
		slogLogger,
		validator.NewBusinessValidator(),
	)

	router := gin.New()
	SetupMiddleware(router, logger)
	NewHandlerManager(manager, logger).SetupRoutes(router)
	return router
}

type identity struct {
	userID int64
	role   string
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, who *identity) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if who != nil {
		req.Header.Set("X-User-ID", fmt.Sprintf("%d", who.userID))
		req.Header.Set("X-User-Role", who.role)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeID(t *testing.T, w *httptest.ResponseRecorder) int64 {
	t.Helper()
	var body struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotZero(t, body.ID)
	return body.ID
}

func registerUser(t *testing.T, router *gin.Engine, username, role string) int64 {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{
		"username":   username,
		"email":      username + "@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"role":       role,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeID(t, w)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestUserEndpoints(t *testing.T) {
	router := newTestRouter(t)

	id := registerUser(t, router, "rest_user", "student")

	w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/99999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/users/not-a-number", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate username maps to 409
	w = doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{
		"username":   "rest_user",
		"email":      "else@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"role":       "student",
	}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Invalid role maps to 400 with field errors
	w = doJSON(t, router, http.MethodPost, "/api/v1/users", gin.H{
		"username":   "bad_role",
		"email":      "bad@example.com",
		"first_name": "Test",
		"last_name":  "User",
		"role":       "wizard",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "role")
}

func TestSessionEndpointsStatusMapping(t *testing.T) {
	router := newTestRouter(t)

	educatorUserID := registerUser(t, router, "http_tutor", "educator")
	educatorWho := &identity{userID: educatorUserID, role: "educator"}

	w := doJSON(t, router, http.MethodPost, "/api/v1/educators", gin.H{
		"user_id":     educatorUserID,
		"title":       "HTTP Tutor",
		"hourly_rate": 50,
	}, educatorWho)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	educatorID := decodeID(t, w)

	studentID := registerUser(t, router, "http_student", "student")
	studentWho := &identity{userID: studentID, role: "student"}

	start := time.Now().Add(48 * time.Hour).UTC()
	bookReq := gin.H{
		"educator_id": educatorID,
		"start_time":  start.Format(time.RFC3339),
		"end_time":    start.Add(time.Hour).Format(time.RFC3339),
	}

	// Unauthenticated booking is rejected up front
	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions", bookReq, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions", bookReq, studentWho)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sessionID := decodeID(t, w)

	confirmPath := fmt.Sprintf("/api/v1/sessions/%d/confirm", sessionID)

	// Student may not confirm: 403
	w = doJSON(t, router, http.MethodPost, confirmPath, nil, studentWho)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Educator confirms: 200
	w = doJSON(t, router, http.MethodPost, confirmPath, nil, educatorWho)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Re-issuing the same transition: 409
	w = doJSON(t, router, http.MethodPost, confirmPath, nil, educatorWho)
	assert.Equal(t, http.StatusConflict, w.Code)

	// A stranger cannot even read the session: 403
	strangerID := registerUser(t, router, "http_stranger", "student")
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/sessions/%d", sessionID), nil, &identity{userID: strangerID, role: "student"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Missing session: 404
	w = doJSON(t, router, http.MethodPost, "/api/v1/sessions/99999/confirm", nil, educatorWho)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Listings require an identity: anonymous callers get 401
	studentSessionsPath := fmt.Sprintf("/api/v1/students/%d/sessions", studentID)
	w = doJSON(t, router, http.MethodGet, studentSessionsPath, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	educatorSessionsPath := fmt.Sprintf("/api/v1/educators/%d/sessions", educatorID)
	w = doJSON(t, router, http.MethodGet, educatorSessionsPath, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// And they are scoped to the caller's own side: 403 for anyone else
	w = doJSON(t, router, http.MethodGet, studentSessionsPath, nil, &identity{userID: strangerID, role: "student"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, router, http.MethodGet, educatorSessionsPath, nil, studentWho)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// The owners see their sessions, notes included
	w = doJSON(t, router, http.MethodGet, studentSessionsPath, nil, studentWho)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodGet, educatorSessionsPath, nil, educatorWho)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/categories", gin.H{"name": "Test Prep"}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	categoryID := decodeID(t, w)

	w = doJSON(t, router, http.MethodPost, "/api/v1/subjects", gin.H{
		"category_id": categoryID,
		"name":        "SAT Math",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	subjectID := decodeID(t, w)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/subjects?category_id=%d", categoryID), nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SAT Math")

	// Subject under a missing category: 404
	w = doJSON(t, router, http.MethodPost, "/api/v1/subjects", gin.H{
		"category_id": 9999,
		"name":        "Orphan",
	}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Assignment requires an identity
	educatorUserID := registerUser(t, router, "catalog_tutor", "educator")
	educatorWho := &identity{userID: educatorUserID, role: "educator"}
	w = doJSON(t, router, http.MethodPost, "/api/v1/educators", gin.H{
		"user_id":     educatorUserID,
		"title":       "Catalog Tutor",
		"hourly_rate": 30,
	}, educatorWho)
	require.Equal(t, http.StatusCreated, w.Code)
	educatorID := decodeID(t, w)

	assignPath := fmt.Sprintf("/api/v1/educators/%d/subjects/%d", educatorID, subjectID)
	w = doJSON(t, router, http.MethodPost, assignPath, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, assignPath, nil, educatorWho)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, router, http.MethodDelete, assignPath, nil, educatorWho)
	assert.Equal(t, http.StatusOK, w.Code)
}
