package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/example/go-numveil/internal/config"
	"github.com/example/go-numveil/internal/mask"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Masker rewrites numbers that sit near configured keywords.
type Masker interface {
	Mask(ctx context.Context, text string, ov Overrides) (mask.Result, error)
}

// KindLister returns the supported random value kinds.
type KindLister interface {
	ListKinds() []string
}

// Overrides carries per-request masking parameters. Nil fields inherit the
// server's configuration.
type Overrides struct {
	Keywords         *string
	WindowSize       *int
	ReplacementValue *string
}

// ErrInvalidRequest marks failures caused by request parameters rather than
// the server; the handler maps it to a 400 response.
var ErrInvalidRequest = errors.New("invalid request")

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   1 << 20,
		workers:        2,
		requestTimeout: 60 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /mask.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent mask calls.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request masking deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	masker Masker
	kinds  KindLister
	opts   options
	sem    chan struct{} // semaphore for worker pool
	log    *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /kinds, and POST /mask.
func NewHandler(m Masker, kinds KindLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		masker: m,
		kinds:  kinds,
		opts:   opts,
		log:    opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/kinds", h.handleKinds)
	mux.HandleFunc("/mask", h.handleMask)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleKinds(w http.ResponseWriter, _ *http.Request) {
	kinds := h.kinds.ListKinds()
	if kinds == nil {
		kinds = []string{}
	}
	writeJSON(w, http.StatusOK, kinds)
}

type maskRequest struct {
	Text             string  `json:"text"`
	Keywords         *string `json:"keywords"`
	WindowSize       *int    `json:"window_size"`
	ReplacementValue *string `json:"replacement_value"`
}

type maskResponse struct {
	Output  string `json:"output"`
	Matches int    `json:"matches"`
}

func (h *handler) handleMask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	var req maskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	// Acquire a worker slot — honour context cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
			// slot acquired
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	// Apply per-request timeout.
	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	ov := Overrides{
		Keywords:         req.Keywords,
		WindowSize:       req.WindowSize,
		ReplacementValue: req.ReplacementValue,
	}

	start := time.Now()
	res, err := h.masker.Mask(ctx, req.Text, ov)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.log.WarnContext(r.Context(), "masking timed out",
				slog.Int("text_len", len(req.Text)),
				slog.Int64("duration_ms", durationMS),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusGatewayTimeout, "masking timed out")
			return
		}
		if errors.Is(err, ErrInvalidRequest) {
			h.log.WarnContext(r.Context(), "masking rejected",
				slog.Int("text_len", len(req.Text)),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.log.ErrorContext(r.Context(), "masking failed",
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.log.InfoContext(r.Context(), "masking complete",
		slog.Int("text_len", len(req.Text)),
		slog.Int64("duration_ms", durationMS),
		slog.Int("matches", res.Matches),
		slog.Int("output_bytes", len(res.Output)),
	)

	writeJSON(w, http.StatusOK, maskResponse{
		Output:  res.Output,
		Matches: res.Matches,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	masker          Masker
	shutdownTimeout time.Duration
}

// New builds a Server from the runtime configuration. A nil masker is built
// from the config's mask section when Start runs, so configuration problems
// fail startup rather than the first request.
func New(cfg config.Config, m Masker) *Server {
	timeout := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Server{
		cfg:             cfg,
		masker:          m,
		shutdownTimeout: timeout,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	m := s.masker
	if m == nil {
		em, err := newEngineMasker(s.cfg.Mask)
		if err != nil {
			return fmt.Errorf("initialize mask engine: %w", err)
		}
		m = em
	}

	handlerOpts := []Option{
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout) * time.Second),
	}

	h := NewHandler(m, staticKindLister{kinds: config.ValueKinds()}, handlerOpts...)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}

type staticKindLister struct {
	kinds []string
}

func (s staticKindLister) ListKinds() []string {
	return append([]string(nil), s.kinds...)
}

// engineMasker serves requests from a shared engine built out of the base
// configuration; a request carrying overrides gets a throwaway engine so
// the shared one stays immutable.
type engineMasker struct {
	base config.MaskConfig
	eng  *mask.Engine
}

func newEngineMasker(cfg config.MaskConfig) (*engineMasker, error) {
	eng, err := mask.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &engineMasker{base: cfg, eng: eng}, nil
}

func (m *engineMasker) Mask(ctx context.Context, text string, ov Overrides) (mask.Result, error) {
	eng := m.eng
	if ov.Keywords != nil || ov.WindowSize != nil || ov.ReplacementValue != nil {
		cfg := m.base
		if ov.Keywords != nil {
			cfg.Keywords = *ov.Keywords
		}
		if ov.WindowSize != nil {
			cfg.WindowSize = *ov.WindowSize
		}
		if ov.ReplacementValue != nil {
			cfg.ReplacementValue = *ov.ReplacementValue
		}
		override, err := mask.NewFromConfig(cfg)
		if err != nil {
			return mask.Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		eng = override
	}

	if err := ctx.Err(); err != nil {
		return mask.Result{}, err
	}
	return eng.Mask(text)
}
