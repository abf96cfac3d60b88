package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"cricket-stats-game/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthz(t *testing.T) {
	service, logger := newTestRouter()
	rec := httptest.NewRecorder()
	NewRouter(service, logger, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestChallengeEndpoint(t *testing.T) {
	service, logger := newTestRouter()
	router := NewRouter(service, logger, []string{"https://play.example"})

	tests := []struct {
		path   string
		status int
	}{
		{"/api/challenges/" + testDate, http.StatusOK},
		{"/api/challenges/2025-01-10", http.StatusNotFound},
		{"/api/challenges/not-a-date", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/challenges/"+testDate, nil))
	var info challengeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, challengeInfo{Date: testDate, PlayerCount: 2}, info)
}

func TestDatesEndpoint(t *testing.T) {
	service, logger := newTestRouter()
	rec := httptest.NewRecorder()
	NewRouter(service, logger, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dates", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var dates []domain.GameDate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dates))
	require.Len(t, dates, 11)
	for _, d := range dates {
		assert.Equal(t, d.Date == testDate, d.Available, d.Date)
		assert.Equal(t, d.Date == testDate, d.IsToday, d.Date)
	}
}

func TestCORSPreflight(t *testing.T) {
	service, logger := newTestRouter()
	req := httptest.NewRequest(http.MethodOptions, "/api/dates", nil)
	req.Header.Set("Origin", "https://play.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	NewRouter(service, logger, []string{"https://play.example"}).ServeHTTP(rec, req)
	assert.Equal(t, "https://play.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
