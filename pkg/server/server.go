package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/kkuko-utils/jokak/internal/logger"
	"github.com/kkuko-utils/jokak/pkg/combine"
	"github.com/kkuko-utils/jokak/pkg/config"
	"github.com/kkuko-utils/jokak/pkg/inventory"
	"github.com/kkuko-utils/jokak/pkg/solver"
	"github.com/samber/lo"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles msgpack IPC for tile combination.
type Server struct {
	solver   *solver.Solver
	cfg      config.ServerConfig
	decoder  *msgpack.Decoder
	writer   *bufio.Writer
	encoder  *msgpack.Encoder
	log      *log.Logger
	requests int
}

// NewServer creates a server reading requests from r and writing replies to w.
// The binary passes os.Stdin and os.Stdout.
func NewServer(s *solver.Solver, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	bw := bufio.NewWriter(w)
	return &Server{
		solver:  s,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(bufio.NewReader(r)),
		writer:  bw,
		encoder: msgpack.NewEncoder(bw),
		log:     logger.New("server"),
	}
}

// Start announces readiness and serves requests until the input ends or ctx
// is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server")
	if err := s.send(StatusResponse{Status: StatusReady}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		// each message is read raw first so a malformed one never desyncs the stream
		var raw msgpack.RawMessage
		if err := s.decoder.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.log.Errorf("Decoding request: %v", err)
			if err := s.send(StatusResponse{Status: StatusError, Error: "invalid request"}); err != nil {
				return err
			}
			continue
		}
		if err := s.handle(ctx, req); err != nil {
			return err
		}
	}
}

// handle dispatches one request. Only write errors are returned.
func (s *Server) handle(ctx context.Context, req Request) error {
	s.requests++
	s.log.Debug("Request", "id", req.ID, "action", req.Action)

	switch req.Action {
	case ActionCombine:
		return s.send(s.handleCombine(ctx, req))
	case ActionInventory:
		return s.send(s.handleInventory(ctx, req))
	case ActionDictInfo:
		return s.send(s.dictInfo(req.ID))
	case ActionWords:
		return s.send(s.handleWords(req))
	case ActionReload:
		return s.send(s.handleReload(ctx, req))
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: StatusOK})
	default:
		return s.send(StatusResponse{
			ID:     req.ID,
			Status: StatusError,
			Error:  fmt.Sprintf("unknown action: %q", req.Action),
		})
	}
}

func (s *Server) handleCombine(ctx context.Context, req Request) CombineResponse {
	start := time.Now()
	res, err := s.solver.Solve(ctx, req.Tiles, req.Tiers...)
	resp := CombineResponse{
		ID:        req.ID,
		Status:    StatusOK,
		Passes:    passRecords(res.Passes),
		Leftover:  res.Leftover,
		TimeTaken: time.Since(start).Microseconds(),
	}
	if err != nil {
		s.log.Warnf("Combine %s: %v", req.ID, err)
		resp.Status = StatusError
		resp.Error = err.Error()
	}
	return resp
}

func (s *Server) handleInventory(ctx context.Context, req Request) InventoryResponse {
	start := time.Now()
	resp := InventoryResponse{ID: req.ID, Status: StatusOK, Grades: []GradeRecord{}}
	fail := func(err error) InventoryResponse {
		s.log.Warnf("Inventory %s: %v", req.ID, err)
		resp.Status = StatusError
		resp.Error = err.Error()
		resp.TimeTaken = time.Since(start).Microseconds()
		return resp
	}

	if s.cfg.MaxHTMLBytes > 0 && len(req.HTML) > s.cfg.MaxHTMLBytes {
		return fail(fmt.Errorf("html is %d bytes, limit %d", len(req.HTML), s.cfg.MaxHTMLBytes))
	}
	inv, err := inventory.ParseHTML(strings.NewReader(req.HTML))
	if err != nil {
		return fail(err)
	}

	results, err := s.solver.SolveInventory(ctx, inv, req.Tiers...)
	if err != nil {
		return fail(err)
	}
	resp.Grades = lo.Map(results, func(g solver.GradeResult, _ int) GradeRecord {
		rec := GradeRecord{
			Grade:    g.Grade.String(),
			Tiles:    g.Tiles,
			Passes:   passRecords(g.Result.Passes),
			Leftover: g.Result.Leftover,
		}
		if g.Err != nil {
			s.log.Warnf("Inventory %s: %v", req.ID, g.Err)
			rec.Error = g.Err.Error()
		}
		return rec
	})
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) dictInfo(id string) DictionaryResponse {
	stats := s.solver.Loader().Stats()
	resp := DictionaryResponse{
		ID:         id,
		Status:     StatusOK,
		Tiers:      stats.Tiers,
		TotalWords: stats.TotalWords,
	}
	if !stats.LoadedAt.IsZero() {
		resp.LoadedAt = stats.LoadedAt.Unix()
	}
	return resp
}

func (s *Server) handleWords(req Request) WordsResponse {
	start := time.Now()
	resp := WordsResponse{ID: req.ID, Status: StatusOK, Words: []string{}}

	d, err := s.solver.Loader().Get(req.Tier)
	if err != nil {
		resp.Status = StatusError
		resp.Error = err.Error()
		return resp
	}

	limit := req.Limit
	if limit <= 0 || (s.cfg.MaxWordsLimit > 0 && limit > s.cfg.MaxWordsLimit) {
		limit = s.cfg.MaxWordsLimit
	}
	if words := d.StartingWith(req.Prefix, limit); words != nil {
		resp.Words = words
	}
	resp.Count = len(resp.Words)
	resp.TimeTaken = time.Since(start).Microseconds()
	return resp
}

func (s *Server) handleReload(ctx context.Context, req Request) DictionaryResponse {
	loader := s.solver.Loader()
	var err error
	if req.Tier == "" {
		err = loader.LoadAll(ctx)
	} else {
		err = loader.Reload(req.Tier)
	}
	resp := s.dictInfo(req.ID)
	if err != nil {
		s.log.Errorf("Reload %q: %v", req.Tier, err)
		resp.Status = StatusError
		resp.Error = err.Error()
	}
	return resp
}

func passRecords(passes []combine.PassResult) []PassRecord {
	return lo.Map(passes, func(p combine.PassResult, _ int) PassRecord {
		return PassRecord{Tier: p.Name, Words: p.Words, Count: len(p.Words)}
	})
}

// send encodes one reply and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	return s.writer.Flush()
}
