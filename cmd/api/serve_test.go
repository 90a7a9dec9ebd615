package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"loanledger/internal/config"
	"loanledger/internal/testutil/dbtest"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var borrower = strings.Repeat("b", 32)

func testServer(t *testing.T) (*echo.Echo, *redis.Client, *config.Config) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := config.Load()
	cfg.EventStream = "test:events"
	e, err := newServer(cfg, dbtest.Open(t), rdb)
	require.NoError(t, err)
	return e, rdb, cfg
}

func post(e *echo.Echo, path, body, requestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Ax-Account-Id", borrower)
	req.Header.Set("Ax-Request-Id", requestID)
	req.Header.Set("Ax-Request-At", strconv.FormatInt(time.Now().Unix(), 10))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestNewServer_Health(t *testing.T) {
	e, _, _ := testServer(t)

	rec := get(e, "/health")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Status       string            `json:"status"`
		Dependencies map[string]string `json:"dependencies"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"db": "up", "redis": "up"}, body.Dependencies)
}

func TestNewServer_RequestIsIdempotentAndStreamed(t *testing.T) {
	e, rdb, cfg := testServer(t)
	const reqID = "0123456789abcdef0123456789abcdef"
	payload := `{"collateral":"1000","interest_rate":5,"duration_years":2}`

	first := post(e, "/loans", payload, reqID)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	replay := post(e, "/loans", payload, reqID)
	require.Equal(t, http.StatusCreated, replay.Code)
	assert.JSONEq(t, first.Body.String(), replay.Body.String())

	mismatch := post(e, "/loans", `{"collateral":"2000","interest_rate":5,"duration_years":2}`, reqID)
	assert.Equal(t, http.StatusConflict, mismatch.Code)

	rec := get(e, "/accounts/"+borrower+"/loans")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Loans []map[string]any `json:"loans"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Loans, 1)

	n, err := rdb.XLen(context.Background(), cfg.EventStream).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewServer_RequiresRequestHeaders(t *testing.T) {
	e, _, _ := testServer(t)

	req := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewServer_RejectsUnknownInterestMode(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := config.Load()
	cfg.InterestMode = "compound"
	_, err := newServer(cfg, dbtest.Open(t), rdb)
	assert.Error(t, err)
}

func TestRootCmd_Flags(t *testing.T) {
	for _, name := range []string{"verbose", "config"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
	var subs []string
	for _, c := range rootCmd.Commands() {
		subs = append(subs, c.Name())
	}
	assert.Subset(t, subs, []string{"serve", "migrate", "config"})
}
