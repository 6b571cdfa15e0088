package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tracedump/tracedump/internal/pkg/errors"
)

// newTestServer routes tracking-API paths to canned handlers.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, handler := range handlers {
		mux.HandleFunc(path, handler)
	}
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestClient_Health(t *testing.T) {
	t.Run("healthy server", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			"/health": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		require.NoError(t, c.Health(context.Background()))
	})

	t.Run("non-200 health status is tolerated", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			"/health": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		require.NoError(t, c.Health(context.Background()))
	})

	t.Run("unreachable server is a connectivity error", func(t *testing.T) {
		server := newTestServer(t, nil)
		url := server.URL
		server.Close()

		c := New(Config{BaseURL: url}, nil)
		err := c.Health(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsConnectivity(err))
	})
}

func TestClient_BasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var gotOK bool
	server := newTestServer(t, map[string]http.HandlerFunc{
		DefaultAPIPrefix + "/experiments/list": func(w http.ResponseWriter, r *http.Request) {
			gotUser, gotPass, gotOK = r.BasicAuth()
			_, _ = w.Write([]byte(`{"experiments": []}`))
		},
	})

	t.Run("credentials are sent when both are set", func(t *testing.T) {
		c := New(Config{BaseURL: server.URL, Username: "alice", Password: "s3cret"}, nil)
		_, err := c.ListExperiments(context.Background())
		require.NoError(t, err)
		require.True(t, gotOK)
		assert.Equal(t, "alice", gotUser)
		assert.Equal(t, "s3cret", gotPass)
	})

	t.Run("no header without credentials", func(t *testing.T) {
		gotOK = false
		c := New(Config{BaseURL: server.URL}, nil)
		_, err := c.ListExperiments(context.Background())
		require.NoError(t, err)
		assert.False(t, gotOK)
	})
}

func TestClient_ListExperiments(t *testing.T) {
	t.Run("decodes the experiment list", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/experiments/list": jsonHandler(`{
				"experiments": [
					{"experiment_id": "0", "name": "Default"},
					{"experiment_id": "1", "name": "agent-eval", "lifecycle_stage": "active"}
				]
			}`),
		})

		c := New(Config{BaseURL: server.URL}, nil)
		experiments, err := c.ListExperiments(context.Background())
		require.NoError(t, err)
		require.Len(t, experiments, 2)
		assert.Equal(t, "1", experiments[1].ExperimentID)
		assert.Equal(t, "agent-eval", experiments[1].Name)
		assert.Equal(t, "active", experiments[1].LifecycleStage)
	})

	t.Run("non-2xx is a fetch error", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/experiments/list": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		_, err := c.ListExperiments(context.Background())
		require.Error(t, err)
		assert.True(t, apperrors.IsFetch(err))
	})
}

func TestClient_GetExperiment(t *testing.T) {
	t.Run("passes the experiment ID", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/experiments/get": func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "42", r.URL.Query().Get("experiment_id"))
				_, _ = w.Write([]byte(`{"experiment": {"experiment_id": "42", "name": "agent-eval"}}`))
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		experiment, err := c.GetExperiment(context.Background(), "42")
		require.NoError(t, err)
		assert.Equal(t, "42", experiment.ExperimentID)
	})

	t.Run("missing experiment is a not-found error", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/experiments/get": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		_, err := c.GetExperiment(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestClient_SearchRuns(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		DefaultAPIPrefix + "/runs/search": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "7", r.URL.Query().Get("experiment_ids"))
			assert.Equal(t, "1000", r.URL.Query().Get("max_results"))
			_, _ = w.Write([]byte(`{
				"runs": [
					{
						"info": {"run_id": "r1", "run_name": "agent-run", "experiment_id": "7", "status": "FINISHED"},
						"data": {"tags": {"langraph_version": "1.0"}, "params": {"lr": "0.01"}}
					}
				]
			}`))
		},
	})

	c := New(Config{BaseURL: server.URL}, nil)
	runs, err := c.SearchRuns(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "r1", runs[0].Info.RunID)
	assert.Equal(t, "1.0", runs[0].Data.Tags["langraph_version"])
	assert.Equal(t, "0.01", runs[0].Data.Params["lr"])
}

func TestClient_GetMetricHistory(t *testing.T) {
	t.Run("decodes metric points", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/metrics/get-history": jsonHandler(`{
				"metrics": [
					{"key": "loss", "value": 0.42, "timestamp": 1700000000000, "step": 1},
					{"key": "loss", "value": 0.21, "timestamp": 1700000060000, "step": 2}
				]
			}`),
		})

		c := New(Config{BaseURL: server.URL}, nil)
		metrics, err := c.GetMetricHistory(context.Background(), "r1")
		require.NoError(t, err)
		require.Len(t, metrics, 2)
		assert.Equal(t, "loss", metrics[0].Key)
		assert.Equal(t, 0.42, metrics[0].Value)
		assert.Equal(t, int64(2), metrics[1].Step)
	})

	t.Run("non-2xx means no data, not an error", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/metrics/get-history": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		metrics, err := c.GetMetricHistory(context.Background(), "r1")
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})
}

func TestClient_ListArtifacts(t *testing.T) {
	t.Run("decodes the files key", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/artifacts/list": jsonHandler(`{
				"root_uri": "s3://bucket/7/r1/artifacts",
				"files": [
					{"path": "trace.json", "is_dir": false, "size": 2048},
					{"path": "checkpoints", "is_dir": true}
				]
			}`),
		})

		c := New(Config{BaseURL: server.URL}, nil)
		artifacts, err := c.ListArtifacts(context.Background(), "r1")
		require.NoError(t, err)
		require.Len(t, artifacts, 2)
		assert.Equal(t, "trace.json", artifacts[0].Path)
		assert.Equal(t, int64(2048), artifacts[0].Size)
		assert.True(t, artifacts[1].IsDir)
	})

	t.Run("non-2xx means no data, not an error", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/artifacts/list": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		artifacts, err := c.ListArtifacts(context.Background(), "r1")
		require.NoError(t, err)
		assert.Nil(t, artifacts)
	})
}

func TestClient_DownloadArtifact(t *testing.T) {
	t.Run("returns the raw body", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/artifacts/download": func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "r1", r.URL.Query().Get("run_id"))
				assert.Equal(t, "trace.json", r.URL.Query().Get("path"))
				_, _ = w.Write([]byte(`{"steps": []}`))
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		content, err := c.DownloadArtifact(context.Background(), "r1", "trace.json")
		require.NoError(t, err)
		assert.Equal(t, `{"steps": []}`, content)
	})

	t.Run("missing artifact is a fetch error", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/artifacts/download": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		_, err := c.DownloadArtifact(context.Background(), "r1", "trace.json")
		require.Error(t, err)
		assert.True(t, apperrors.IsFetch(err))
	})
}

func TestClient_SearchTraces(t *testing.T) {
	t.Run("returns raw trace documents", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/traces/search": jsonHandler(`{
				"traces": [
					{"trace_id": "tr-1", "spans": 3},
					{"trace_id": "tr-2", "spans": 1}
				]
			}`),
		})

		c := New(Config{BaseURL: server.URL}, nil)
		traces, err := c.SearchTraces(context.Background(), "r1")
		require.NoError(t, err)
		require.Len(t, traces, 2)
		assert.JSONEq(t, `{"trace_id": "tr-1", "spans": 3}`, string(traces[0]))
	})

	t.Run("endpoint absence means no traces, not an error", func(t *testing.T) {
		server := newTestServer(t, map[string]http.HandlerFunc{
			DefaultAPIPrefix + "/traces/search": func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		})

		c := New(Config{BaseURL: server.URL}, nil)
		traces, err := c.SearchTraces(context.Background(), "r1")
		require.NoError(t, err)
		assert.Nil(t, traces)
	})
}

func TestClient_CustomAPIPrefix(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/mlflow-proxy/api/2.0/mlflow/experiments/list": jsonHandler(`{"experiments": []}`),
	})

	c := New(Config{BaseURL: server.URL, APIPrefix: "/mlflow-proxy/api/2.0/mlflow"}, nil)
	experiments, err := c.ListExperiments(context.Background())
	require.NoError(t, err)
	assert.Empty(t, experiments)
}
