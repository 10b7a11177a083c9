package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordexpand/internal/metrics"
	"github.com/bastiangx/wordexpand/pkg/config"
	"github.com/bastiangx/wordexpand/pkg/expand"
	"github.com/bastiangx/wordexpand/pkg/session"
	"github.com/bastiangx/wordexpand/pkg/triggers"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

var (
	// ErrUnknownOp is reported for requests with an op the server doesn't know.
	ErrUnknownOp = errors.New("unknown op")
	// ErrUnknownBuffer is reported for session ops on a buffer that was never edited.
	ErrUnknownBuffer = errors.New("unknown buffer")
)

// requestError carries the code sent back with the error message.
type requestError struct {
	code int
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return &requestError{code: http.StatusBadRequest, err: fmt.Errorf(format, args...)}
}

func codeOf(err error) int {
	var re *requestError
	if errors.As(err, &re) {
		return re.code
	}
	switch {
	case errors.Is(err, ErrUnknownOp):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnknownBuffer), errors.Is(err, triggers.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, triggers.ErrInvalidTrigger), errors.Is(err, config.ErrInvalidValue):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Server handles msgpack IPC for text expansion.
type Server struct {
	store      *triggers.Store
	sessions   *session.Manager
	config     *config.Config
	configPath string
	metrics    *metrics.Metrics

	reader       io.Reader
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	requestCount int
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin/stdout, mostly for tests and embedding.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = bufio.NewWriter(w)
	}
}

// WithMetrics records every request on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a server over store. configPath is re-read every
// reload_every requests; an empty path disables reloading.
func NewServer(store *triggers.Store, cfg *config.Config, configPath string, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	s := &Server{
		store:      store,
		sessions:   session.NewManager(store.Index()),
		config:     cfg,
		configPath: configPath,
		reader:     os.Stdin,
		writer:     bufio.NewWriter(os.Stdout),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.encoder = msgpack.NewEncoder(s.writer)
	return s
}

// Sessions returns the session manager.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

// Start sends the ready message and serves requests until the input ends.
// ctx is only checked between requests: a read blocked on stdin is not
// interrupted, so shutdown happens when the client closes its end. Trigger store
// changes reach open sessions while it runs.
func (s *Server) Start(ctx context.Context) error {
	log.Debug("Starting Server.")

	unsubscribe := s.store.Subscribe(func(ix *expand.Index) {
		s.sessions.SetExpander(ix)
		s.metrics.SetTriggers(ix.Len())
		log.Debugf("Sessions now use %d triggers", ix.Len())
	})
	defer unsubscribe()
	s.metrics.SetTriggers(s.store.Len())

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	dec := msgpack.NewDecoder(bufio.NewReader(s.reader))
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		raw, err := dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				log.Debug("Input closed, stopping server")
				return nil
			}
			log.Errorf("Reading from stdin: %v", err)
			return err
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Errorf("Unmarshaling request: %v", err)
			if err := s.sendError("", badRequest("invalid msgpack request")); err != nil {
				return err
			}
			continue
		}

		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches one request and writes its response. Only write
// failures are returned.
func (s *Server) handleRequest(req Request) error {
	start := time.Now()
	resp, err := s.dispatch(req)
	elapsed := time.Since(start)

	code := http.StatusOK
	if err != nil {
		code = codeOf(err)
		log.Debug("Request failed", "id", req.ID, "op", req.Op, "code", code, "err", err)
	}
	s.metrics.ObserveRequest(req.Op, code, elapsed)
	s.maybeReloadConfig()

	if err != nil {
		return s.sendError(req.ID, err)
	}
	return s.send(resp)
}

func (s *Server) dispatch(req Request) (any, error) {
	switch req.Op {
	case OpMatch:
		return s.handleMatch(req)
	case OpExpand:
		return s.handleExpand(req)
	case OpEdit:
		return s.handleEdit(req)
	case OpKey:
		return s.handleKey(req)
	case OpAccept:
		return s.handleAccept(req)
	case OpClose:
		return s.handleClose(req)
	case OpTriggers:
		return s.handleTriggers(req)
	case OpHealth:
		return StatusResponse{ID: req.ID, Status: "ok"}, nil
	case OpConfig:
		return s.handleConfig(req)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, req.Op)
	}
}

func (s *Server) checkText(text string) error {
	limit := s.config.Server.MaxText
	if limit > 0 && utf8.RuneCountInString(text) > limit {
		return &requestError{
			code: http.StatusRequestEntityTooLarge,
			err:  fmt.Errorf("text exceeds maximum length of %d characters", limit),
		}
	}
	return nil
}

func (s *Server) truncate(c []Candidate) []Candidate {
	if limit := s.config.Server.MaxCandidates; limit > 0 && len(c) > limit {
		return c[:limit]
	}
	return c
}

func (s *Server) handleMatch(req Request) (any, error) {
	if err := s.checkText(req.Text); err != nil {
		return nil, err
	}

	start := time.Now()
	ix := s.store.Index()
	var candidates []Candidate
	if req.Verbose {
		for _, m := range ix.Explain(req.Text, req.Cursor) {
			candidates = append(candidates, Candidate{
				Key:        m.Trigger.Key,
				Expansion:  m.Trigger.Expansion,
				Strategies: m.Strategies.Names(),
			})
		}
	} else {
		candidates = toCandidates(ix.FindMatches(req.Text, req.Cursor))
	}
	candidates = s.truncate(candidates)
	if candidates == nil {
		candidates = []Candidate{}
	}
	s.metrics.ObserveCandidates(len(candidates))

	return MatchResponse{
		ID:         req.ID,
		Candidates: candidates,
		Count:      len(candidates),
		TimeTaken:  time.Since(start).Microseconds(),
	}, nil
}

func (s *Server) handleExpand(req Request) (any, error) {
	if req.Expansion == nil {
		return nil, badRequest("missing 'exp' parameter")
	}
	if err := s.checkText(req.Text); err != nil {
		return nil, err
	}

	start := time.Now()
	plan := s.store.Index().PlanReplacement(req.Text, req.Cursor, *req.Expansion)
	return ExpandResponse{
		ID:        req.ID,
		Text:      plan.NewText,
		Cursor:    plan.NewCursor,
		Start:     plan.Start,
		End:       plan.End,
		Key:       plan.Key,
		TimeTaken: time.Since(start).Microseconds(),
	}, nil
}

func (s *Server) handleEdit(req Request) (any, error) {
	if req.Buf == "" {
		return nil, badRequest("missing 'buf' parameter")
	}
	if err := s.checkText(req.Text); err != nil {
		return nil, err
	}

	start := time.Now()
	sess := s.sessions.Get(req.Buf)
	s.metrics.SetSessions(s.sessions.Len())
	state := sess.HandleEdit(req.Text, req.Cursor)
	s.metrics.ObserveCandidates(len(state.Candidates))
	return s.sessionResponse(req, sess, false, false, start), nil
}

func (s *Server) handleKey(req Request) (any, error) {
	sess, err := s.lookup(req.Buf)
	if err != nil {
		return nil, err
	}
	k, ok := session.ParseKey(req.Key)
	if !ok {
		return nil, badRequest("unknown key %q", req.Key)
	}

	start := time.Now()
	consumed, _, applied := sess.HandleKey(k)
	return s.sessionResponse(req, sess, consumed, applied, start), nil
}

func (s *Server) handleAccept(req Request) (any, error) {
	sess, err := s.lookup(req.Buf)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var applied bool
	if req.Index != nil {
		_, applied = sess.AcceptIndex(*req.Index)
	} else {
		_, applied = sess.Accept()
	}
	return s.sessionResponse(req, sess, false, applied, start), nil
}

func (s *Server) handleClose(req Request) (any, error) {
	if !s.sessions.Close(req.Buf) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuffer, req.Buf)
	}
	s.metrics.SetSessions(s.sessions.Len())
	return StatusResponse{ID: req.ID, Status: "closed"}, nil
}

func (s *Server) lookup(buf string) (*session.Session, error) {
	if buf == "" {
		return nil, badRequest("missing 'buf' parameter")
	}
	sess, ok := s.sessions.Lookup(buf)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBuffer, buf)
	}
	return sess, nil
}

func (s *Server) sessionResponse(req Request, sess *session.Session, consumed, applied bool, start time.Time) SessionResponse {
	buf := sess.Buffer()
	state := sess.Popup()
	candidates := make([]Candidate, len(state.Candidates))
	for i, t := range state.Candidates {
		candidates[i] = Candidate{Key: t.Key, Expansion: t.Expansion}
	}
	return SessionResponse{
		ID:         req.ID,
		Buf:        req.Buf,
		Text:       buf.Text,
		Cursor:     buf.Cursor,
		Visible:    state.Visible,
		Candidates: candidates,
		Selected:   state.Selected,
		Consumed:   consumed,
		Applied:    applied,
		TimeTaken:  time.Since(start).Microseconds(),
	}
}

func (s *Server) handleTriggers(req Request) (any, error) {
	var err error
	switch req.Action {
	case "list", "":
	case "add":
		if req.Trigger == nil {
			return nil, badRequest("missing 'trigger' parameter")
		}
		err = s.store.Add(*req.Trigger)
	case "update":
		if req.Trigger == nil || req.Index == nil {
			return nil, badRequest("update needs 'idx' and 'trigger'")
		}
		err = s.store.Update(*req.Index, *req.Trigger)
	case "remove":
		if req.Index == nil {
			return nil, badRequest("missing 'idx' parameter")
		}
		err = s.store.Remove(*req.Index)
	case "reload":
		err = s.store.Reload()
	default:
		return nil, badRequest("unknown triggers action %q", req.Action)
	}
	if err != nil {
		return nil, err
	}

	list := s.store.Snapshot()
	return TriggersResponse{
		ID:       req.ID,
		Status:   "ok",
		Triggers: list,
		Count:    len(list),
	}, nil
}

// handleConfig updates the server limits and saves them so the periodic reload
// keeps them. Without a config file they only live in memory.
func (s *Server) handleConfig(req Request) (any, error) {
	if err := s.config.Update(s.configPath, req.MaxText, req.MaxCandidates); err != nil {
		return nil, err
	}
	log.Debug("Updated server config", "max_text", s.config.Server.MaxText, "max_candidates", s.config.Server.MaxCandidates)
	return ConfigResponse{
		ID:            req.ID,
		Status:        "ok",
		MaxText:       s.config.Server.MaxText,
		MaxCandidates: s.config.Server.MaxCandidates,
	}, nil
}

// maybeReloadConfig re-reads the server limits every reload_every requests.
// Engine and trigger settings need a restart.
func (s *Server) maybeReloadConfig() {
	s.requestCount++
	every := s.config.Server.ReloadEvery
	if every <= 0 || s.configPath == "" || s.requestCount%every != 0 {
		return
	}

	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		log.Warnf("Failed to reload config from %s: %v", s.configPath, err)
		return
	}
	s.config.Server = cfg.Server
	log.Debug("Reloaded server config", "max_text", cfg.Server.MaxText, "max_candidates", cfg.Server.MaxCandidates)
}

func toCandidates(matches []*expand.Trigger) []Candidate {
	out := make([]Candidate, len(matches))
	for i, m := range matches {
		out[i] = Candidate{Key: m.Key, Expansion: m.Expansion}
	}
	return out
}

// send encodes a response and flushes it so the client sees it right away.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Marshaling response: %v", err)
		return err
	}
	return s.writer.Flush()
}

// sendError sends an error response
func (s *Server) sendError(id string, err error) error {
	return s.send(ErrorResponse{
		ID:    id,
		Error: err.Error(),
		Code:  codeOf(err),
	})
}
