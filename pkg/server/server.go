package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/chmc/listall/internal/utils"
	"github.com/chmc/listall/pkg/config"
	"github.com/chmc/listall/pkg/store"
	"github.com/chmc/listall/pkg/suggest"
)

// Server handles the IPC for item suggestions and store mutations
type Server struct {
	engine  *suggest.Engine
	items   store.Store
	cfg     config.ServerConfig
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
}

// NewServer creates a new suggestion server using stdin/stdout for IPC
func NewServer(engine *suggest.Engine, items store.Store, cfg config.ServerConfig) *Server {
	return NewServerWithIO(engine, items, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over explicit streams, used by tests and
// embedding callers.
func NewServerWithIO(engine *suggest.Engine, items store.Store, cfg config.ServerConfig, r io.Reader, w io.Writer) *Server {
	return &Server{
		engine:  engine,
		items:   items,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
	}
}

// Start begins listening for IPC requests. It returns nil on EOF.
func (s *Server) Start() error {
	log.Debug("Starting server.")

	for {
		var request Request
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

func (s *Server) handleRequest(request Request) {
	switch request.Op {
	case OpSuggest:
		s.handleSuggest(request)
	case OpPut:
		s.handlePut(request)
	case OpDelete:
		s.handleDelete(request)
	case OpCross:
		s.handleCross(request)
	case OpPing:
		s.send(ItemResponse{ID: request.ID, Status: "ok"})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// handleSuggest validates the query, asks the engine and replies with the
// ranked suggestions plus timing info.
func (s *Server) handleSuggest(request Request) {
	if !utils.IsValidQuery(request.Query, s.cfg.MaxQueryLen) {
		s.sendError(request.ID, "Invalid query", 400)
		log.Debugf("Rejected query of %d bytes", len(request.Query))
		return
	}
	if utils.IsRepetitive(request.Query) {
		log.Debugf("Repetitive query %q", request.Query)
	}

	limit := request.Limit
	if limit < 1 || limit > s.cfg.MaxLimit {
		limit = s.cfg.MaxLimit
	}

	start := time.Now()
	results := s.engine.Suggest(request.Query, suggest.Scope{ListID: request.ListID}, request.ExcludeID)
	elapsed := time.Since(start)

	if len(results) > limit {
		results = results[:limit]
	}

	payload := make([]SuggestionPayload, len(results))
	for i, r := range results {
		payload[i] = SuggestionPayload{
			ItemID:      r.ItemID,
			Title:       r.Title,
			Description: r.Description,
			Quantity:    r.Quantity,
			Score:       r.Score,
			Occurrences: r.Occurrences,
			LastUsed:    r.LastUsed.Unix(),
			AvgGapSecs:  int64(r.AvgGap / time.Second),
		}
	}

	s.send(SuggestResponse{
		ID:          request.ID,
		Suggestions: payload,
		Count:       len(payload),
		TimeTaken:   elapsed.Microseconds(),
	})
}

func (s *Server) handlePut(request Request) {
	if request.Item == nil || request.Item.Title == "" {
		s.sendError(request.ID, "Missing item payload or title", 400)
		return
	}
	item, err := s.items.Put(store.Item{
		ID:          request.Item.ID,
		Title:       request.Item.Title,
		Description: request.Item.Description,
		Quantity:    request.Item.Quantity,
		ListID:      request.Item.ListID,
		ImageRefs:   request.Item.ImageRefs,
	})
	if err != nil {
		s.sendError(request.ID, err.Error(), 500)
		return
	}
	s.send(ItemResponse{ID: request.ID, Status: "ok", ItemID: item.ID})
}

func (s *Server) handleDelete(request Request) {
	if err := s.items.Delete(request.ItemID); err != nil {
		code := 500
		if err == store.ErrNotFound {
			code = 404
		}
		s.sendError(request.ID, err.Error(), code)
		return
	}
	s.send(ItemResponse{ID: request.ID, Status: "ok", ItemID: request.ItemID})
}

func (s *Server) handleCross(request Request) {
	if err := s.items.SetCrossed(request.ItemID, request.Crossed); err != nil {
		code := 500
		if err == store.ErrNotFound {
			code = 404
		}
		s.sendError(request.ID, err.Error(), code)
		return
	}
	s.send(ItemResponse{ID: request.ID, Status: "ok", ItemID: request.ItemID})
}

func (s *Server) send(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
