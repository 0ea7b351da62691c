package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/sidenav/internal/nav"
	"github.com/ziadkadry99/sidenav/internal/sidebar"
	"github.com/ziadkadry99/sidenav/internal/variant"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type       string   `json:"type"` // "insert", "click", "toggle" or "scroll"
	Location   string   `json:"location,omitempty"`
	PathToRoot *string  `json:"path_to_root,omitempty"`
	Target     string   `json:"target,omitempty"`
	ScrollTop  *float64 `json:"scroll_top,omitempty"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type    string            `json:"type"` // "view", "outcome" or "error"
	Session string            `json:"session"`
	View    *sidebar.Snapshot `json:"view,omitempty"`
	Outcome *sidebar.Outcome  `json:"outcome,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	v, err := s.registry.Get(chi.URLParam(r, "variant"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	sessionID := requestSession(r)
	header := http.Header{}
	if sessionID == "" {
		sessionID = uuid.NewString()
		header.Add("Set-Cookie", sessionCookie(sessionID).String())
		header.Set(SessionHeader, sessionID)
	}

	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		s.logger.Warn("websocket upgrade", "err", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read", "err", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.send(conn, wsResponse{Type: "error", Session: sessionID, Error: "invalid message format"})
			continue
		}

		switch req.Type {
		case "insert":
			s.handleWSInsert(conn, r, v, sessionID, req)
		case string(sidebar.EventClick), string(sidebar.EventToggle), string(sidebar.EventScroll):
			ev := sidebar.Event{Kind: sidebar.EventKind(req.Type), Target: req.Target, ScrollTop: req.ScrollTop}
			out, snap, err := s.dispatch(r.Context(), v, sessionID, ev)
			if err != nil {
				s.send(conn, wsResponse{Type: "error", Session: sessionID, Error: err.Error()})
				continue
			}
			s.send(conn, wsResponse{Type: "outcome", Session: sessionID, Outcome: &out, View: &snap})
		default:
			s.send(conn, wsResponse{Type: "error", Session: sessionID, Error: "unknown message type: " + req.Type})
		}
	}
}

func (s *Server) handleWSInsert(conn *websocket.Conn, r *http.Request, v *variant.Variant, sessionID string, req wsRequest) {
	if req.Location == "" {
		s.send(conn, wsResponse{Type: "error", Session: sessionID, Error: "location is required"})
		return
	}
	page := sidebar.Page{
		Location:   req.Location,
		PathToRoot: nav.PathToRoot(req.Location),
		Session:    sessionID,
	}
	if req.PathToRoot != nil {
		page.PathToRoot = *req.PathToRoot
	}
	snap := s.insert(r.Context(), v, page, nil)
	s.send(conn, wsResponse{Type: "view", Session: sessionID, View: &snap})
}

func (s *Server) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		s.logger.Warn("websocket write", "err", err)
	}
}
