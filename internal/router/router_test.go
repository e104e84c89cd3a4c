package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/keya254/smart-serve/internal/middleware"
	"github.com/keya254/smart-serve/internal/realtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	engine := NewEngine([]string{"http://localhost:5173"})
	Setup(engine, db, realtime.NewHub(), realtime.Notifiers{})
	return engine, mock
}

func TestPing(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"pong"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestSetup_RegistersAPIRoutes(t *testing.T) {
	engine, mock := newTestRouter(t)

	mock.ExpectQuery("SELECT name FROM categories").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Starters"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["Starters"]`, w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())

	want := map[string]bool{
		"GET /api/menu-items": true, "POST /api/menu-items": true, "GET /api/categories": true,
		"GET /api/tables": true, "GET /api/tables/:id": true, "POST /api/tables": true, "PUT /api/tables/:id": true,
		"GET /api/orders": true, "GET /api/orders/:id": true, "POST /api/orders": true,
		"PUT /api/orders/:id/status": true, "PUT /api/order-items/:id/status": true,
		"GET /api/staff": true, "POST /api/staff": true, "DELETE /api/staff/:id": true,
		"GET /ws": true, "GET /ping": true,
	}
	for _, r := range engine.Routes() {
		delete(want, r.Method+" "+r.Path)
	}
	assert.Empty(t, want, "routes not registered")
}

func TestUnknownRouteIsJSONNotFound(t *testing.T) {
	engine, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	require.Equal(t, http.StatusNotFound, w.Code)
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
			Details string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
	assert.Equal(t, "API endpoint not found", body.Error.Message)
	assert.Equal(t, "/api/nope", body.Error.Details)
}

func TestCORSPreflight(t *testing.T) {
	engine, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/orders", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
