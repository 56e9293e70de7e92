package server

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/bastiangx/typeaid/internal/logger"
	"github.com/bastiangx/typeaid/pkg/suggest"
	"github.com/bastiangx/typeaid/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// StatusReporter exposes the vocabulary load report. *vocab.Store implements it.
type StatusReporter interface {
	Status() vocab.Status
}

// Server handles msgpack IPC for suggestions.
type Server struct {
	suggester    suggest.Suggester
	status       StatusReporter
	dec          *msgpack.Decoder
	enc          *msgpack.Encoder
	defaultLimit atomic.Int64
	requestCount int
	log          *log.Logger
}

// NewServer creates a server reading requests from r and writing responses to w.
func NewServer(suggester suggest.Suggester, status StatusReporter, defaultLimit int, r io.Reader, w io.Writer) *Server {
	s := &Server{
		suggester: suggester,
		status:    status,
		dec:       msgpack.NewDecoder(r),
		enc:       msgpack.NewEncoder(w),
		log:       logger.New("server"),
	}
	s.SetDefaultLimit(defaultLimit)
	return s
}

// SetDefaultLimit changes the limit used by requests that carry none.
// It is safe to call while Start is running.
func (s *Server) SetDefaultLimit(limit int) {
	if limit <= 0 || limit > suggest.MaxSuggestions {
		limit = suggest.MaxSuggestions
	}
	s.defaultLimit.Store(int64(limit))
}

// DefaultLimit returns the limit used by requests that carry none.
func (s *Server) DefaultLimit() int {
	return int(s.defaultLimit.Load())
}

// Start announces readiness and serves requests until the input ends.
// A clean EOF returns nil.
func (s *Server) Start() error {
	s.log.Debug("Starting server")
	if err := s.send(map[string]string{"status": "ready"}); err != nil {
		return err
	}

	for {
		var req Request
		if err := s.dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Client disconnected", "requests", s.requestCount)
				return nil
			}
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("read request: %w", err)
			}
			s.log.Errorf("Decoding request: %v", err)
			if sendErr := s.sendError("", "invalid msgpack request", 400); sendErr != nil {
				return sendErr
			}
			continue
		}
		s.requestCount++
		if err := s.handleRequest(req); err != nil {
			return err
		}
	}
}

// handleRequest dispatches on the action. Only write failures are returned.
func (s *Server) handleRequest(req Request) error {
	switch req.Action {
	case "", ActionSuggest:
		return s.handleSuggest(req)
	case ActionStatus:
		return s.handleStatus(req)
	case ActionWordChar:
		return s.handleWordChar(req)
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleSuggest(req Request) error {
	limit := req.Limit
	if limit <= 0 {
		limit = s.DefaultLimit()
	}

	start := time.Now()
	words := s.suggester.Suggestions(req.Input, limit)
	elapsed := time.Since(start)

	if words == nil {
		words = []string{}
	}
	s.log.Debugf("Took [ %v ] for input %q", elapsed, req.Input)

	return s.send(SuggestResponse{
		ID:          req.ID,
		Suggestions: words,
		Count:       len(words),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handleStatus(req Request) error {
	if s.status == nil {
		return s.sendError(req.ID, "status unavailable", 500)
	}
	st := s.status.Status()
	counts := make([]int, len(vocab.AllTiers))
	for i, id := range vocab.AllTiers {
		counts[i] = st.Counts[id]
	}
	msg := st.Message
	if st.Level == vocab.LevelOK {
		msg = vocab.NoErrorMessage
	}
	return s.send(StatusResponse{
		ID:      req.ID,
		Status:  st.Level.String(),
		Failed:  st.Failed,
		Message: msg,
		Counts:  counts,
	})
}

func (s *Server) handleWordChar(req Request) error {
	r := []rune(req.Char)
	if len(r) != 1 {
		return s.sendError(req.ID, "word_char needs exactly one character", 400)
	}
	return s.send(WordCharResponse{ID: req.ID, OK: suggest.IsWordChar(r[0])})
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Encoding response: %v", err)
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(CompletionError{ID: id, Error: message, Code: code})
}
