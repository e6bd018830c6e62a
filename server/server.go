// Package server exposes a Sheet over a WebSocket endpoint so several
// browser clients can edit the same in-memory spreadsheet and see each
// other's updates live.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"sheetengine/position"
	"sheetengine/sheet"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server serves a single shared Sheet to any number of WebSocket
// clients, broadcasting a full snapshot after every accepted mutation.
type Server struct {
	Sheet *sheet.Sheet
	log   *logrus.Logger

	mu      sync.Mutex // guards clients and every read or write of Sheet
	clients map[string]*websocket.Conn
}

// New returns a Server wrapping sh, logging through log.
func New(sh *sheet.Sheet, log *logrus.Logger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{
		Sheet:   sh,
		log:     log,
		clients: make(map[string]*websocket.Conn),
	}
}

// updateRequest is the wire shape of a client-initiated mutation.
type updateRequest struct {
	Type string `json:"type"`
	Pos  string `json:"pos"`
	Text string `json:"text"`
}

// cellUpdate is the wire shape of a single cell's rendered state.
type cellUpdate struct {
	Type  string `json:"type"`
	Pos   string `json:"pos"`
	Value string `json:"value"`
	Text  string `json:"text"`
}

// HandleWebSocket upgrades the connection and services it until a read
// from the client fails (typically a disconnect). Malformed messages and
// updates the engine rejects are logged and skipped; they do not end
// the session.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.clients[id] = conn
	s.sendSnapshot(conn)
	s.mu.Unlock()
	s.log.WithField("session", id).Info("client connected")

	defer func() {
		s.mu.Lock()
		delete(s.clients, id)
		s.mu.Unlock()
		conn.Close()
		s.log.WithField("session", id).Info("client disconnected")
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var req updateRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.log.WithError(err).Warn("malformed client message")
			continue
		}
		if req.Type != "set_cell" {
			continue
		}
		s.applyUpdate(id, req)
	}
}

func (s *Server) applyUpdate(session string, req updateRequest) {
	pos, err := position.Parse(req.Pos)
	if err != nil || !pos.IsValid() {
		s.log.WithFields(logrus.Fields{"session": session, "pos": req.Pos}).Warn("rejected invalid position")
		return
	}
	s.mu.Lock()
	err = s.Sheet.SetCell(pos, req.Text)
	s.mu.Unlock()
	if err != nil {
		s.log.WithFields(logrus.Fields{"session": session, "pos": req.Pos, "err": err}).Warn("rejected cell update")
		return
	}
	s.broadcastSnapshot()
}

// sendSnapshot writes the entire printable rectangle to one connection.
func (s *Server) sendSnapshot(conn *websocket.Conn) {
	size := s.Sheet.GetPrintableSize()
	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Cols; col++ {
			pos := position.New(row, col)
			h, ok, err := s.Sheet.GetCell(pos)
			if err != nil || !ok {
				continue
			}
			label, _ := position.Format(pos)
			update := cellUpdate{
				Type:  "cell",
				Pos:   label,
				Value: h.GetValue().String(),
				Text:  h.GetText(),
			}
			if err := conn.WriteJSON(update); err != nil {
				return
			}
		}
	}
}

// broadcastSnapshot sends the full printable rectangle to every
// connected client. The engine has no per-mutation changed-cell
// report, so a full resend is the simplest correct broadcast; a future
// version could narrow this to the invalidated subgraph.
func (s *Server) broadcastSnapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, conn := range s.clients {
		if err := conn.WriteJSON(cellUpdate{Type: "reset"}); err != nil {
			s.log.WithField("session", id).WithError(err).Warn("broadcast failed, dropping client")
			conn.Close()
			delete(s.clients, id)
			continue
		}
		s.sendSnapshot(conn)
	}
}

// ListenAndServe starts the HTTP server on addr, serving static assets
// from dir (if present) at "/" and the WebSocket endpoint at "/ws".
func (s *Server) ListenAndServe(addr, dir string) error {
	mux := http.NewServeMux()

	if _, err := os.Stat(dir); err == nil {
		mux.Handle("/", http.FileServer(http.Dir(dir)))
	} else {
		s.log.WithField("dir", dir).Debug("no static asset directory, serving websocket endpoint only")
	}
	mux.HandleFunc("/ws", s.HandleWebSocket)

	s.log.WithField("addr", addr).Info("starting sheetengine server")
	return http.ListenAndServe(addr, mux)
}
