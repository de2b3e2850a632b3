// Package daemon provides the long-running background estimation service.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mohdfareed/health-vaults-sub001/internal/engine"
	"github.com/mohdfareed/health-vaults-sub001/internal/model"
	"github.com/mohdfareed/health-vaults-sub001/internal/pipeline"
	"github.com/mohdfareed/health-vaults-sub001/internal/store"
)

// Config controls the daemon runtime behavior.
type Config struct {
	DBPath       string
	Addr         string
	Schedule     string
	Adjustment   float64
	Engine       engine.Config
	EventsBuffer int
}

// Snapshot is the compact estimation state for status/event payloads.
type Snapshot struct {
	At             time.Time `json:"at"`
	ReferenceDate  time.Time `json:"reference_date"`
	Maintenance    float64   `json:"maintenance"`
	Budget         float64   `json:"budget"`
	Credit         float64   `json:"credit"`
	WeightSlope    float64   `json:"weight_slope"`
	Confidence     float64   `json:"confidence"`
	FallbackSource string    `json:"fallback_source"`
	Valid          bool      `json:"valid"`
}

// Delta captures estimate movement between recomputations.
type Delta struct {
	Maintenance float64 `json:"maintenance"`
	Budget      float64 `json:"budget"`
	Credit      float64 `json:"credit"`
}

func (d Delta) isZero() bool {
	return d.Maintenance == 0 && d.Budget == 0 && d.Credit == 0
}

// Event is emitted whenever the estimate changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastComputeAt   time.Time `json:"last_compute_at"`
	Schedule        string    `json:"schedule"`
	ComputeCount    int64     `json:"compute_count"`
	DBPath          string    `json:"db_path"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service recomputes the estimate on a cron schedule and serves the
// latest state over HTTP.
type Service struct {
	cfg Config
	hub *hub

	mu        sync.RWMutex
	startedAt time.Time
	lastRun   time.Time
	runs      int64
	lastError string
	seeded    bool
	current   Snapshot
}

// New returns a daemon service with defaults applied for any zero
// config fields.
func New(cfg Config) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "15 * * * *"
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7753"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}

	return &Service{
		cfg:       cfg,
		hub:       newHub(cfg.EventsBuffer),
		startedAt: time.Now(),
	}
}

// Run blocks until ctx is canceled, serving the HTTP API and firing
// recomputations on the configured schedule.
func (s *Service) Run(ctx context.Context) error {
	sched := cron.New()
	if _, err := sched.AddFunc(s.cfg.Schedule, s.refresh); err != nil {
		return fmt.Errorf("registering schedule %q: %w", s.cfg.Schedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()

	// Seed a snapshot before the first tick so status is useful
	// immediately.
	s.refresh()

	sched.Start()
	defer sched.Stop()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-serveErr:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

func (s *Service) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)
	mux.HandleFunc("/v1/events", s.handleEvents)
	mux.HandleFunc("/v1/stream", s.handleStream)
	return mux
}

// refresh runs one estimation pass and emits an event when the result
// moved.
func (s *Service) refresh() {
	now := time.Now()
	result, err := s.estimate(now)

	s.mu.Lock()
	s.lastRun = now
	s.runs++
	if err != nil {
		s.lastError = err.Error()
		s.mu.Unlock()
		log.Printf("hvault daemon compute error: %v", err)
		return
	}
	s.lastError = ""

	snap := snapshotFromResult(result, now)
	prev, seeded := s.current, s.seeded
	s.current, s.seeded = snap, true
	s.mu.Unlock()

	if !seeded {
		s.hub.broadcast(newEvent("snapshot", now, snap, Delta{}))
		return
	}
	if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.hub.broadcast(newEvent("estimate_delta", now, snap, delta))
	}
}

func (s *Service) estimate(now time.Time) (pipeline.Result, error) {
	st, err := store.Open(s.cfg.DBPath)
	if err != nil {
		return pipeline.Result{}, err
	}
	defer func() { _ = st.Close() }()

	return pipeline.Compute(st, model.DateOf(now), s.cfg.Adjustment, s.cfg.Engine)
}

func snapshotFromResult(r pipeline.Result, at time.Time) Snapshot {
	return Snapshot{
		At:             at,
		ReferenceDate:  r.Estimate.ReferenceDate,
		Maintenance:    r.Estimate.Maintenance,
		Budget:         r.Budget.Budget,
		Credit:         r.Budget.Credit,
		WeightSlope:    r.Estimate.WeightSlope,
		Confidence:     r.Estimate.Confidence,
		FallbackSource: r.Estimate.FallbackSource,
		Valid:          r.Estimate.Valid(),
	}
}

// diffSnapshots reports movement above noise; sub-calorie jitter from
// float arithmetic does not produce events.
func diffSnapshots(prev, curr Snapshot) Delta {
	quiet := func(v float64) float64 {
		if math.Abs(v) < 0.5 {
			return 0
		}
		return v
	}
	return Delta{
		Maintenance: quiet(curr.Maintenance - prev.Maintenance),
		Budget:      quiet(curr.Budget - prev.Budget),
		Credit:      quiet(curr.Credit - prev.Credit),
	}
}

func (s *Service) status() Status {
	events, subscribers := s.hub.counts()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastComputeAt:   s.lastRun,
		Schedule:        s.cfg.Schedule,
		ComputeCount:    s.runs,
		DBPath:          s.cfg.DBPath,
		Summary:         s.current,
		LastError:       s.lastError,
		EventCount:      events,
		SubscriberCount: subscribers,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.status())
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.hub.history())
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	id, ch := s.hub.subscribe()
	defer s.hub.unsubscribe(id)

	s.mu.RLock()
	opening := newEvent("snapshot", time.Now(), s.current, Delta{})
	s.mu.RUnlock()

	sendSSE(w, flusher, opening)

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			sendSSE(w, flusher, ev)
		}
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func sendSSE(w http.ResponseWriter, flusher http.Flusher, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data)
	flusher.Flush()
}
