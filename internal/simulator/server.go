// Package simulator serves a stand-in for the tribometer backend: a simulated serial device,
// a bounded log, chart generation and the image gallery, over the same HTTP surface.
package simulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/yourusername/tribo-console/internal/backend"
)

const (
	logLimit  = 1000
	logRetain = 800
)

// Image directories per gallery category, relative to the image root
var categoryDirs = map[backend.Category]string{
	backend.CategoryTrial:    "ensaio",
	backend.CategoryAnalysis: "analise",
	backend.CategorySummary:  "resumo",
}

// Options configures a simulated backend
type Options struct {
	Ports     []string
	BusyPorts []string // ports that fail to open
	ImageDir  string
	Seed      uint64
	Logger    zerolog.Logger
	// Shutdown is invoked after /api/shutdown has answered
	Shutdown func()
	Now      func() time.Time
}

// Server is the simulated backend
type Server struct {
	opts   Options
	logger zerolog.Logger
	rng    *rand.Rand
	now    func() time.Time

	mu       sync.Mutex
	port     string // open port, empty when disconnected
	settings settings
	trials   []Trial
	log      []string
	logBase  int // absolute offset of log[0]
	session  string
}

// New creates a simulated backend, creating the image directories if needed
func New(opts Options) (*Server, error) {
	if opts.ImageDir == "" {
		return nil, fmt.Errorf("image directory is required")
	}
	for _, dir := range categoryDirs {
		if err := os.MkdirAll(filepath.Join(opts.ImageDir, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create image directory: %w", err)
		}
	}
	if len(opts.Ports) == 0 {
		opts.Ports = []string{"/dev/ttyUSB0", "/dev/ttyACM0"}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(now().UnixNano())
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger.With().Str("component", "simulator").Logger(),
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		now:      now,
		settings: defaultSettings(),
		session:  uuid.NewString(),
	}
	s.addLog("simulator session " + s.session + " started")
	return s, nil
}

// Router returns the HTTP handler for the backend API
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/ports", s.handlePorts).Methods(http.MethodGet)
	api.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/connect", s.handleConnect).Methods(http.MethodPost)
	api.HandleFunc("/disconnect", s.handleDisconnect).Methods(http.MethodPost)
	api.HandleFunc("/send", s.handleSend).Methods(http.MethodPost)
	api.HandleFunc("/log", s.handleLog).Methods(http.MethodGet)
	api.HandleFunc("/grafico", s.handleChart).Methods(http.MethodPost)
	api.HandleFunc("/analise", s.handleAnalysis).Methods(http.MethodPost)
	api.HandleFunc("/shutdown", s.handleShutdown).Methods(http.MethodPost)
	api.HandleFunc("/graficos", s.handleListing).Methods(http.MethodGet)
	r.HandleFunc("/files/{name:.+}", s.handleFile).Methods(http.MethodGet)
	r.Use(s.logRequests)
	return r
}

// Trials returns the recorded measurements
func (s *Server) Trials() []Trial {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.trials)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get(backend.RequestIDHeader)).
			Dur("elapsed", time.Since(start)).
			Msg("Request served")
	})
}

func (s *Server) handlePorts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.opts.Ports)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	connected := s.port != ""
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, backend.StatusResponse{Connected: connected})
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req backend.ConnectRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	port := strings.TrimSpace(req.Port)
	if port == "" {
		writeJSON(w, http.StatusBadRequest, backend.Ack{OK: false, Msg: "Port not specified."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.port != "":
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: "Already connected."})
	case slices.Contains(s.opts.BusyPorts, port):
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: fmt.Sprintf("Failed to open port %s: port busy", port)})
	case !slices.Contains(s.opts.Ports, port):
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: fmt.Sprintf("Failed to open port %s: no such port", port)})
	default:
		s.port = port
		s.addLog("[Device] ready on " + port)
		writeJSON(w, http.StatusOK, backend.Ack{OK: true, Msg: "Connected."})
	}
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.disconnect()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, backend.Ack{OK: true})
}

func (s *Server) disconnect() {
	if s.port != "" {
		s.addLog("[Device] port " + s.port + " closed")
	}
	s.port = ""
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req backend.SendRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	command := strings.TrimSpace(req.Command)
	if command == "" {
		writeJSON(w, http.StatusBadRequest, backend.Ack{OK: false, Msg: "Empty command."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.port == "" {
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: "Not connected."})
		return
	}
	lines, trial := s.execute(command)
	for _, line := range lines {
		s.addLog("[Device] " + line)
	}
	if trial != nil {
		s.trials = append(s.trials, *trial)
	}
	writeJSON(w, http.StatusOK, backend.Ack{OK: true, Msg: "OK"})
}

func (s *Server) handleLog(w http.ResponseWriter, r *http.Request) {
	since, err := strconv.Atoi(r.URL.Query().Get("desde"))
	if err != nil || since < 0 {
		since = 0
	}

	s.mu.Lock()
	lines, next := s.readLog(since)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, backend.LogResponse{Lines: lines, Next: &next})
}

// readLog returns the lines at absolute offsets >= since. Lines trimmed from the buffer are
// skipped rather than replayed.
func (s *Server) readLog(since int) ([]string, int) {
	end := s.logBase + len(s.log)
	start := max(since, s.logBase)
	if start >= end {
		return []string{}, end
	}
	return slices.Clone(s.log[start-s.logBase:]), end
}

// addLog appends a timestamped line. Callers hold s.mu, except during construction.
func (s *Server) addLog(line string) {
	s.log = append(s.log, fmt.Sprintf("[%s] %s", s.now().Format("15:04:05"), line))
	if len(s.log) > logLimit {
		drop := len(s.log) - logRetain
		s.log = slices.Clone(s.log[drop:])
		s.logBase += drop
	}
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	var req backend.ChartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, backend.Ack{OK: false, Msg: "Invalid offset."})
		return
	}
	if req.Offset < 0 {
		writeJSON(w, http.StatusBadRequest, backend.Ack{OK: false, Msg: "Offset must be >= 0."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Offset >= len(s.trials) {
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: fmt.Sprintf("No trial for g %d.", req.Offset)})
		return
	}
	trial := s.trials[len(s.trials)-1-req.Offset]
	name := "grafico_ensaio_" + trial.Stamp + ".png"
	path := filepath.Join(s.opts.ImageDir, categoryDirs[backend.CategoryTrial], name)
	if err := renderTrialChart(path, trial); err != nil {
		s.logger.Error().Err(err).Msg("Failed to render trial chart")
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: err.Error()})
		return
	}
	s.addLog("chart saved: " + name)
	writeJSON(w, http.StatusOK, backend.Ack{OK: true, Msg: name})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.trials) == 0 {
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: "Analysis failed: no trials recorded."})
		return
	}
	if err := s.analyze(); err != nil {
		s.logger.Error().Err(err).Msg("Analysis failed")
		writeJSON(w, http.StatusOK, backend.Ack{OK: false, Msg: "Analysis failed."})
		return
	}
	s.addLog(fmt.Sprintf("analysis finished over %d trials", len(s.trials)))
	writeJSON(w, http.StatusOK, backend.Ack{OK: true, Msg: "Analysis complete."})
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.disconnect()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, backend.Ack{OK: true, Msg: "Server shutting down..."})
	if s.opts.Shutdown != nil {
		go s.opts.Shutdown()
	}
}

func (s *Server) handleListing(w http.ResponseWriter, r *http.Request) {
	resp := backend.ListingResponse{
		Trial:    s.listImages(backend.CategoryTrial),
		Analysis: s.listImages(backend.CategoryAnalysis),
		Summary:  s.listImages(backend.CategorySummary),
	}
	writeJSON(w, http.StatusOK, resp)
}

// listImages returns the image file names of a category, sorted by name
func (s *Server) listImages(cat backend.Category) []string {
	names := []string{}
	entries, err := os.ReadDir(filepath.Join(s.opts.ImageDir, categoryDirs[cat]))
	if err != nil {
		return names
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg":
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names
}

// handleFile serves an image from the first category directory that contains it
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	for _, cat := range backend.Categories {
		base := filepath.Join(s.opts.ImageDir, categoryDirs[cat])
		candidate := filepath.Join(base, filepath.FromSlash(name))
		rel, err := filepath.Rel(base, candidate)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			http.ServeFile(w, r, candidate)
			return
		}
	}
	http.Error(w, "not found", http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
