package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/classroom-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	progressPersist *CounterVec
	playbackActive  *Gauge
	playbackSwept   *CounterVec

	storeCommands *CounterVec
	sessionEvents *CounterVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current is nil until Init runs; every method is nil-safe.
func Current() *Metrics {
	return instance
}

func Init() *Metrics {
	initOnce.Do(func() {
		instance = newMetrics()
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("classroom_api_requests_total", "HTTP requests by route and status.", []string{"method", "route", "status"}),
		apiLatency:  NewHistogramVec("classroom_api_request_duration_seconds", "HTTP request latency.", []string{"method", "route"}, nil),
		apiInflight: NewGauge("classroom_api_inflight_requests", "HTTP requests in flight."),

		progressPersist: NewCounterVec("classroom_progress_persist_total", "Progress records written by playback tracking.", []string{"status"}),
		playbackActive:  NewGauge("classroom_playback_sessions_active", "Playback sessions currently sampling."),
		playbackSwept:   NewCounterVec("classroom_playback_sessions_swept_total", "Idle playback sessions stopped by the sweeper.", []string{"reason"}),

		storeCommands: NewCounterVec("classroom_store_commands_total", "Store commands dispatched.", []string{"command", "origin", "status"}),
		sessionEvents: NewCounterVec("classroom_session_events_total", "Session change events handled.", []string{"kind", "status"}),
	}
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.progressPersist, m.playbackActive, m.playbackSwept,
		m.storeCommands, m.sessionEvents,
	}
	for _, mw := range writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveProgressPersist(err error) {
	if m == nil {
		return
	}
	m.progressPersist.Inc(statusOf(err))
}

func (m *Metrics) SetPlaybackActive(n int) {
	if m == nil {
		return
	}
	m.playbackActive.Set(float64(n))
}

func (m *Metrics) AddPlaybackSwept(n int) {
	if m == nil || n <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		m.playbackSwept.Inc("idle")
	}
}

func (m *Metrics) IncStoreCommand(command, origin string, err error) {
	if m == nil {
		return
	}
	m.storeCommands.Inc(command, origin, statusOf(err))
}

func (m *Metrics) IncSessionEvent(kind string, err error) {
	if m == nil {
		return
	}
	m.sessionEvents.Inc(kind, statusOf(err))
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
