package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/engine"
	"github.com/rpggio/medchron/internal/metrics"
	"github.com/stretchr/testify/require"
)

func TestObserver_TracksKindsAndRuns(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	obs := m.Observer()

	obs.ProjectsReplaced(map[project.StatusKind]int{
		project.KindCompleted:    3,
		project.KindNotInitiated: 2,
	})
	require.Equal(t, 3.0, testutil.ToFloat64(m.Projects.WithLabelValues("completed")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.Projects.WithLabelValues("review")))

	obs.StatusChanged(project.KindNotInitiated, project.KindPending)
	obs.StatusChanged(project.KindInProgress, project.KindInProgress)
	require.Equal(t, 1.0, testutil.ToFloat64(m.Projects.WithLabelValues("not_initiated")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Projects.WithLabelValues("pending")))

	obs.RunStarted()
	obs.RunStarted()
	obs.RunEnded(engine.OutcomeCompleted)
	obs.Ticked()
	require.Equal(t, 1.0, testutil.ToFloat64(m.RunsActive))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("completed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.TicksTotal))
}

func TestToolCalled(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.ToolCalled("list_projects", nil)
	m.ToolCalled("run_project", errors.New("no documents"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues("list_projects", "ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ToolCallsTotal.WithLabelValues("run_project", "error")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/projects/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/proj-1", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/projects/{id}", "418")))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), "medchron_http_requests_total"))
}
