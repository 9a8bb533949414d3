// Package server hosts the emojikit demo: an HTTP page presenting the
// current picker state and a WebSocket endpoint streaming regenerated row
// sequences to connected preview clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/chitchat/emojikit/internal/emoji"
	"github.com/chitchat/emojikit/internal/logging"
	"github.com/chitchat/emojikit/internal/picker"
	"github.com/chitchat/emojikit/internal/rows"
)

// Server serves the demo page and live row updates for one picker session.
type Server struct {
	host    string
	port    int
	session *picker.Session
	logger  logging.Logger

	httpServer *http.Server

	clientsMutex sync.RWMutex
	clients      map[*websocket.Conn]struct{}
}

// New creates a demo server around session.
func New(host string, port int, session *picker.Session, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Server{
		host:    host,
		port:    port,
		session: session,
		logger:  logger.WithComponent("server"),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Start runs the server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/rows", s.handleRows)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/api/select", s.handleSelect)
	mux.HandleFunc("/api/navigate", s.handleNavigate)
	mux.HandleFunc("/ws", s.handleWebSocket)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.host, s.port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	updates := s.session.Subscribe()
	go s.broadcastLoop(ctx, updates)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "demo server listening", "addr", s.httpServer.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeClients()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := demoPage(s.session).Render(r.Context(), w); err != nil {
		s.logger.Error(r.Context(), err, "rendering demo page failed")
	}
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, rowsPayload(s.session.Snapshot(), s.session))
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.session.SetSearchText(r.URL.Query().Get("q"))
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	selected, err := s.session.SelectEmoji(r.URL.Query().Get("id"))
	if err != nil {
		if errors.Is(err, picker.ErrEmojiNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	s.writeJSON(w, selected)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	category := emoji.Category(r.URL.Query().Get("category"))
	index, err := s.session.NavigateToCategory(category)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	s.writeJSON(w, map[string]any{"category": category, "rowIndex": index})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{s.httpServer.Addr, "localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		s.logger.Warn(r.Context(), err, "websocket accept failed")
		return
	}

	s.clientsMutex.Lock()
	s.clients[conn] = struct{}{}
	s.clientsMutex.Unlock()

	// Send the current state immediately so late joiners render something.
	snapshot, err := json.Marshal(rowsPayload(s.session.Snapshot(), s.session))
	if err == nil {
		writeCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		_ = conn.Write(writeCtx, websocket.MessageText, snapshot)
		cancel()
	}

	// CloseRead surfaces client disconnects; the demo never reads messages.
	readCtx := conn.CloseRead(r.Context())
	<-readCtx.Done()

	s.clientsMutex.Lock()
	delete(s.clients, conn)
	s.clientsMutex.Unlock()
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) broadcastLoop(ctx context.Context, updates <-chan picker.Update) {
	for {
		select {
		case <-ctx.Done():
			s.session.Unsubscribe(updates)
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			payload, err := json.Marshal(rowsPayload(picker.Snapshot{
				Generation: update.Generation,
				Rows:       update.Rows,
				EmojiSize:  update.EmojiSize,
			}, s.session))
			if err != nil {
				s.logger.Error(ctx, err, "encoding row update failed")
				continue
			}
			s.broadcast(ctx, payload)
		}
	}
}

func (s *Server) broadcast(ctx context.Context, payload []byte) {
	s.clientsMutex.RLock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.clientsMutex.RUnlock()

	for _, conn := range conns {
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := conn.Write(writeCtx, websocket.MessageText, payload); err != nil {
			s.logger.Debug(ctx, "dropping websocket client", "error", err.Error())
			s.clientsMutex.Lock()
			delete(s.clients, conn)
			s.clientsMutex.Unlock()
			conn.Close(websocket.StatusPolicyViolation, "write failed")
		}
		cancel()
	}
}

func (s *Server) closeClients() {
	s.clientsMutex.Lock()
	defer s.clientsMutex.Unlock()
	for conn := range s.clients {
		conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
	s.clients = make(map[*websocket.Conn]struct{})
}

func (s *Server) writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error(context.Background(), err, "encoding response failed")
	}
}

// rowPayload is the wire shape of one row.
type rowPayload struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Category string        `json:"category,omitempty"`
	Label    string        `json:"label,omitempty"`
	Emojis   []emojiButton `json:"emojis,omitempty"`
}

type emojiButton struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Name  string `json:"name"`
}

type updatePayload struct {
	Generation uint64       `json:"generation"`
	EmojiSize  float64      `json:"emojiSize"`
	Rows       []rowPayload `json:"rows"`
}

func rowsPayload(snap picker.Snapshot, session *picker.Session) updatePayload {
	payload := updatePayload{
		Generation: snap.Generation,
		EmojiSize:  snap.EmojiSize,
		Rows:       make([]rowPayload, 0, len(snap.Rows)),
	}
	for _, row := range snap.Rows {
		p := rowPayload{ID: row.ID, Type: row.Kind.String()}
		switch row.Kind {
		case rows.KindCategory:
			p.Category = string(row.Category)
			p.Label = session.Translate(row.Label)
		case rows.KindEmoji:
			for _, e := range row.Emojis {
				p.Emojis = append(p.Emojis, emojiButton{ID: e.ID, Value: e.Value, Name: e.Name})
			}
		}
		payload.Rows = append(payload.Rows, p)
	}
	return payload
}
