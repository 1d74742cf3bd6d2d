package gateway_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mathisescriva/crmdesk/internal/domain/task"
	"github.com/mathisescriva/crmdesk/internal/gateway"
	"github.com/mathisescriva/crmdesk/internal/remote"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSelectRemoteWhenProbeSucceeds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	backend, err := gateway.Select(context.Background(), gateway.Options{
		Remote: remote.Options{BaseURL: srv.URL},
	}, testLogger())
	require.NoError(t, err)
	defer backend.Close()

	require.Equal(t, gateway.ModeRemote, backend.Mode)
}

func TestSelectFallsBackOnProbeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	backend, err := gateway.Select(context.Background(), gateway.Options{
		Remote:       remote.Options{BaseURL: srv.URL},
		ProbeTimeout: 50 * time.Millisecond,
	}, testLogger())
	require.NoError(t, err)
	defer backend.Close()

	require.Equal(t, gateway.ModeLocal, backend.Mode)

	// The local store is usable immediately.
	created, err := backend.Tasks.Create(context.Background(), &task.Task{
		Title:      "Call ACME",
		AssignedTo: []string{"u1"},
		AssignedBy: "u1",
		Priority:   task.PriorityMedium,
		Status:     task.StatusPending,
		CreatedAt:  time.Now(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
}

func TestSelectSkipsProbeWithoutBaseURL(t *testing.T) {
	backend, err := gateway.Select(context.Background(), gateway.Options{}, testLogger())
	require.NoError(t, err)
	defer backend.Close()

	require.Equal(t, gateway.ModeLocal, backend.Mode)
}

func TestSelectProbesExactlyOnce(t *testing.T) {
	var probes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Query().Get("limit") == "1" {
			probes.Add(1)
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	backend, err := gateway.Select(context.Background(), gateway.Options{
		Remote: remote.Options{BaseURL: srv.URL},
	}, testLogger())
	require.NoError(t, err)
	defer backend.Close()

	// Later reads never re-probe; the selection is latched for the session.
	_, err = backend.Tasks.List(context.Background(), task.ListOptions{})
	require.NoError(t, err)
	_, err = backend.Tasks.List(context.Background(), task.ListOptions{})
	require.NoError(t, err)

	require.Equal(t, int32(1), probes.Load())
}
