package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hooplab/shotform/internal/analysis"
	"github.com/hooplab/shotform/internal/config"
	"github.com/hooplab/shotform/internal/pose"
	"github.com/hooplab/shotform/internal/store"
	"github.com/hooplab/shotform/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.MigrateUp("../../migrations"))

	analyzer := analysis.New(nil, config.DefaultDetectorFlags())
	return NewServer(analyzer, st), st
}

func captureBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, pose.WriteJSONL(&buf, testutil.RisingWristSequence(120, 90, 12)))
	return &buf
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.ServeMux()

	req := httptest.NewRequest(http.MethodPost, "/api/analyze?fps=30", captureBody(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.NotEmpty(t, report.Phases)

	// The run was persisted and is fetchable.
	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+report.RunID.String(), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyzeEndpointValidation(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.ServeMux()

	cases := []struct {
		name   string
		method string
		url    string
		body   *bytes.Buffer
		status int
	}{
		{"missing fps", http.MethodPost, "/api/analyze", captureBody(t), http.StatusBadRequest},
		{"bad fps", http.MethodPost, "/api/analyze?fps=0", captureBody(t), http.StatusBadRequest},
		{"bad shooting side", http.MethodPost, "/api/analyze?fps=30&shooting=both", captureBody(t), http.StatusBadRequest},
		{"wrong method", http.MethodGet, "/api/analyze?fps=30", bytes.NewBuffer(nil), http.StatusMethodNotAllowed},
		{"garbage body", http.MethodPost, "/api/analyze?fps=30", bytes.NewBufferString("not json"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.url, tc.body)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestAnalyzeEndpointInsufficientPose(t *testing.T) {
	srv, _ := testServer(t)

	var buf bytes.Buffer
	frames := make([]pose.Frame, 30)
	require.NoError(t, pose.WriteJSONL(&buf, frames))

	req := httptest.NewRequest(http.MethodPost, "/api/analyze?fps=30", &buf)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient pose detection")
}

func TestListRunsEndpoint(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String(), "empty store lists an empty array, not null")

	post := httptest.NewRequest(http.MethodPost, "/api/analyze?fps=30", captureBody(t))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, post)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/runs?limit=10", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var runs []store.RunSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	assert.Len(t, runs, 1)

	req = httptest.NewRequest(http.MethodGet, "/api/runs?limit=zero", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRunByIDErrors(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.ServeMux()

	req := httptest.NewRequest(http.MethodGet, "/api/runs/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/runs/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/runs/"+uuid.NewString(), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestChartEndpoints(t *testing.T) {
	srv, _ := testServer(t)
	mux := srv.ServeMux()

	post := httptest.NewRequest(http.MethodPost, "/api/analyze?fps=30", captureBody(t))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, post)
	require.Equal(t, http.StatusOK, rec.Code)
	var report analysis.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))

	for _, kind := range []string{"severity", "fluidity"} {
		t.Run(kind, func(t *testing.T) {
			url := fmt.Sprintf("/api/runs/%s/charts/%s", report.RunID, kind)
			req := httptest.NewRequest(http.MethodGet, url, nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		})
	}

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/runs/%s/charts/unknown", report.RunID), nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeMux().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
