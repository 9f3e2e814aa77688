package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/logging"
	"github.com/dberzins/budgetsync/internal/models"
	"github.com/dberzins/budgetsync/internal/protocol"
	"github.com/dberzins/budgetsync/internal/server/auth"
)

type fakeSync struct {
	resp   *protocol.Response
	err    error
	gotReq *protocol.Request
}

func (f *fakeSync) Sync(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	f.gotReq = req
	return f.resp, f.err
}

type fakeAdmin struct {
	deleteErr error
	budgets   []*models.Budget
}

func (f *fakeAdmin) CascadeDeleteBudget(ctx context.Context, id string) error   { return f.deleteErr }
func (f *fakeAdmin) CascadeDeleteCategory(ctx context.Context, id string) error { return f.deleteErr }
func (f *fakeAdmin) ListActiveBudgets(ctx context.Context) ([]*models.Budget, error) {
	return f.budgets, nil
}

const testSecret = "test-secret"

func setupRouter(t *testing.T, sync *fakeSync, admin *fakeAdmin) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := NewHandler(sync, admin, []byte(testSecret), time.Hour, logger)
	return NewRouter(h)
}

func deviceToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("dev-1", []byte(testSecret), time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPingIsOpen(t *testing.T) {
	router := setupRouter(t, &fakeSync{}, &fakeAdmin{})
	w := doRequest(router, http.MethodGet, "/api/ping", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncRequiresToken(t *testing.T) {
	router := setupRouter(t, &fakeSync{}, &fakeAdmin{})

	w := doRequest(router, http.MethodPost, "/api/sync", "", `{"lastSyncAt":0}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/sync", "not-a-jwt", `{"lastSyncAt":0}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterDeviceIssuesUsableToken(t *testing.T) {
	sync := &fakeSync{resp: &protocol.Response{SyncedAt: 42}}
	router := setupRouter(t, sync, &fakeAdmin{})

	w := doRequest(router, http.MethodPost, "/api/devices", "", `{"deviceId":"dev-1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	require.NotEmpty(t, reg.Token)

	w = doRequest(router, http.MethodPost, "/api/sync", reg.Token, `{"lastSyncAt":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp protocol.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.SyncedAt)
}

func TestRegisterDeviceRequiresID(t *testing.T) {
	router := setupRouter(t, &fakeSync{}, &fakeAdmin{})
	w := doRequest(router, http.MethodPost, "/api/devices", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncPassesRequestThrough(t *testing.T) {
	sync := &fakeSync{resp: &protocol.Response{}}
	router := setupRouter(t, sync, &fakeAdmin{})

	body := `{"lastSyncAt":100,"budgets":[{"id":"b1","createdAt":100,"updatedAt":100,"name":"X","type":"money","periodType":"month"}]}`
	w := doRequest(router, http.MethodPost, "/api/sync", deviceToken(t), body)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, sync.gotReq)
	assert.Equal(t, int64(100), sync.gotReq.LastSyncAt)
	require.Len(t, sync.gotReq.Budgets, 1)
	assert.Equal(t, "b1", sync.gotReq.Budgets[0].ID)
}

func TestSyncMalformedRoundRejected(t *testing.T) {
	sync := &fakeSync{err: fmt.Errorf("%w: budget without id", common.ErrMalformedRecord)}
	router := setupRouter(t, sync, &fakeAdmin{})

	w := doRequest(router, http.MethodPost, "/api/sync", deviceToken(t), `{"lastSyncAt":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSyncInternalFailure(t *testing.T) {
	sync := &fakeSync{err: fmt.Errorf("db on fire")}
	router := setupRouter(t, sync, &fakeAdmin{})

	w := doRequest(router, http.MethodPost, "/api/sync", deviceToken(t), `{"lastSyncAt":0}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestDeleteBudget(t *testing.T) {
	router := setupRouter(t, &fakeSync{}, &fakeAdmin{})
	w := doRequest(router, http.MethodDelete, "/api/budgets/b1", deviceToken(t), "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteBudgetNotFound(t *testing.T) {
	router := setupRouter(t, &fakeSync{}, &fakeAdmin{deleteErr: common.ErrNotFound})
	w := doRequest(router, http.MethodDelete, "/api/budgets/nope", deviceToken(t), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCategoryNotFound(t *testing.T) {
	router := setupRouter(t, &fakeSync{}, &fakeAdmin{deleteErr: common.ErrNotFound})
	w := doRequest(router, http.MethodDelete, "/api/categories/nope", deviceToken(t), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListBudgets(t *testing.T) {
	admin := &fakeAdmin{budgets: []*models.Budget{{
		SyncMeta: models.SyncMeta{ID: "b1", CreatedAt: 100, UpdatedAt: 100},
		Name:     "Groceries", Type: models.BudgetTypeMoney, PeriodType: models.PeriodTypeMonth,
	}}}
	router := setupRouter(t, &fakeSync{}, admin)

	w := doRequest(router, http.MethodGet, "/api/budgets", deviceToken(t), "")
	require.Equal(t, http.StatusOK, w.Code)

	var out struct {
		Budgets []*models.Budget `json:"budgets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Len(t, out.Budgets, 1)
	assert.Equal(t, "Groceries", out.Budgets[0].Name)
}
