package api

import (
	"alcyxob/gym-tracker/internal/repository/file"
	"alcyxob/gym-tracker/internal/service"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-do-not-use"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root := t.TempDir()
	creds, err := file.NewCredentialRepository(root)
	require.NoError(t, err)
	workouts, err := file.NewWorkoutRepository(root)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	accountService := service.NewAccountService(creds, workouts, nil, logger, testJWTSecret, time.Hour)
	workoutService := service.NewWorkoutService(workouts, nil, logger)

	router := gin.New()
	SetupRoutes(router, testJWTSecret, creds, accountService, workoutService)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":             username,
		"password":             password,
		"passwordConfirmation": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterValidationErrors(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":             "alice",
		"password":             "pw123",
		"passwordConfirmation": "other",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	registerAndLogin(t, router, "alice", "pw123")
	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username":             "alice",
		"password":             "pw123",
		"passwordConfirmation": "pw123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestLoginFailures(t *testing.T) {
	router := newTestRouter(t)
	registerAndLogin(t, router, "alice", "pw123")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "nobody",
		"password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/entries", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/entries", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveAndListEntries(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw123")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/entries", token, gin.H{
		"date":     "2024-01-01",
		"exercise": "Squat",
		"weight":   100.0,
		"reps":     5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Upsert: same key replaces, no duplicate row.
	rec = doJSON(t, router, http.MethodPost, "/api/v1/entries", token, gin.H{
		"date":     "2024-01-01",
		"exercise": "Squat",
		"weight":   105.0,
		"reps":     5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/entries?exercise=Squat", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Entries []EntryResponse `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "2024-01-01", resp.Entries[0].Date)
	assert.Equal(t, 105.0, resp.Entries[0].Weight)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/exercises", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var exResp struct {
		Exercises []string `json:"exercises"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exResp))
	assert.Equal(t, []string{"Squat"}, exResp.Exercises)
}

func TestSaveEntryBadInput(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw123")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/entries", token, gin.H{
		"date":     "yesterday-ish",
		"exercise": "Squat",
		"weight":   100.0,
		"reps":     5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/entries", token, gin.H{
		"date":     "2024-01-01",
		"exercise": "   ",
		"weight":   100.0,
		"reps":     5,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditEntry(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw123")

	rec := doJSON(t, router, http.MethodPost, "/api/v1/entries", token, gin.H{
		"date":     "2024-01-01",
		"exercise": "Squat",
		"weight":   100.0,
		"reps":     5,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPut, "/api/v1/entries", token, gin.H{
		"originalDate":     "2024-01-01",
		"originalExercise": "Squat",
		"date":             "2024-01-02",
		"exercise":         "Squat",
		"weight":           110.0,
		"reps":             5,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var edited EntryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &edited))
	assert.Equal(t, "2024-01-02", edited.Date)
	assert.Equal(t, 110.0, edited.Weight)

	// Editing the now-stale key reports not found.
	rec = doJSON(t, router, http.MethodPut, "/api/v1/entries", token, gin.H{
		"originalDate":     "2024-01-01",
		"originalExercise": "Squat",
		"date":             "2024-01-03",
		"exercise":         "Squat",
		"weight":           110.0,
		"reps":             5,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAccountEndsSession(t *testing.T) {
	router := newTestRouter(t)
	token := registerAndLogin(t, router, "alice", "pw123")

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/auth/account", token, gin.H{
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/auth/account", token, gin.H{
		"password": "pw123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The still-valid JWT no longer grants access.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/entries", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "pw123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
