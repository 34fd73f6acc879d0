// Package session binds a scroll tracker to the websocket of one page view.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sitetoc/sitetoc/internal/db"
	"github.com/sitetoc/sitetoc/internal/tracker"
)

// HeaderSessionID carries the session id in the upgrade response.
const HeaderSessionID = "X-Session-Id"

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is the incoming WebSocket message format.
type clientMessage struct {
	Type    string           `json:"type"` // "layout", "scroll" or "click"
	Anchors []tracker.Anchor `json:"anchors,omitempty"`
	Y       float64          `json:"y"`
	Index   int              `json:"index"`
}

// Outgoing WebSocket messages.
type (
	activeMessage struct {
		Type  string `json:"type"` // "active"
		Index int    `json:"index"`
		ID    string `json:"id"`
	}
	scrollMessage struct {
		Type     string  `json:"type"` // "scroll_to"
		Top      float64 `json:"top"`
		Behavior string  `json:"behavior"`
	}
	errorMessage struct {
		Type    string `json:"type"` // "error"
		Message string `json:"message"`
	}
)

// Handler serves /ws/track. Every connection is one page view with its own
// tracker, started by the first layout message and torn down on close.
type Handler struct {
	store *db.DB // optional
	opts  tracker.Options
	log   *zap.Logger

	active atomic.Int64
}

// New creates a Handler. store may be nil, in which case layouts are not
// checked against recorded outlines.
func New(store *db.DB, opts tracker.Options, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, opts: opts, log: log.Named("session")}
}

// RegisterRoutes mounts the tracker websocket onto the given router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/track", h.ServeHTTP)
}

// Active returns the number of open sessions.
func (h *Handler) Active() int {
	return int(h.active.Load())
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	page := pagePath(r.URL.Query().Get("page"))

	conn, err := upgrader.Upgrade(w, r, http.Header{HeaderSessionID: {id}})
	if err != nil {
		h.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.active.Add(1)
	defer h.active.Add(-1)

	s := &session{
		conn: conn,
		page: page,
		log:  h.log.With(zap.String("session", id), zap.String("page", page)),
	}
	t := tracker.New(s, h.opts, s.log)
	defer t.Teardown()

	s.log.Debug("Session opened")
	started := false
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Websocket read failed", zap.Error(err))
			}
			s.log.Debug("Session closed")
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendError("invalid message format")
			continue
		}

		if !started && msg.Type != "layout" {
			s.sendError("layout must be sent first")
			continue
		}

		switch msg.Type {
		case "layout":
			if err := h.checkLayout(r.Context(), page, msg.Anchors); err != nil {
				s.sendError(err.Error())
				continue
			}
			layout := tracker.LayoutEvent{Anchors: msg.Anchors, Y: msg.Y}
			if !started {
				if err := t.Init(layout); err != nil {
					s.sendError(err.Error())
					return
				}
				started = true
				continue
			}
			t.HandleLayout(layout)
		case "scroll":
			t.HandleScroll(tracker.ScrollEvent{Y: msg.Y})
		case "click":
			if !t.HandleClick(tracker.ClickEvent{Index: msg.Index}) {
				s.sendError(fmt.Sprintf("no toc entry at index %d", msg.Index))
			}
		default:
			s.sendError("unknown message type: " + msg.Type)
		}
	}
}

// checkLayout compares the anchor count with the page's recorded outline.
// Pages without a recorded outline are accepted as is.
func (h *Handler) checkLayout(ctx context.Context, page string, anchors []tracker.Anchor) error {
	if h.store == nil || page == "" {
		return nil
	}
	outline, err := h.store.Page(ctx, page)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		h.log.Warn("Outline lookup failed", zap.String("page", page), zap.Error(err))
		return nil
	}
	if want := len(outline.TOC.Entries); len(anchors) != want {
		return fmt.Errorf("layout has %d anchors, page outline has %d entries", len(anchors), want)
	}
	return nil
}

// pagePath normalizes the page query parameter to a site-relative path.
// Pages that report location.pathname send it percent-encoded.
func pagePath(p string) string {
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	p = strings.TrimPrefix(p, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index.html"
	}
	return p
}

// session is the tracker sink of one connection. Writes are serialized
// because tracker timers and the read loop both send.
type session struct {
	conn *websocket.Conn
	page string
	log  *zap.Logger

	mu sync.Mutex
}

func (s *session) SetActive(a tracker.Active) {
	s.send(activeMessage{Type: "active", Index: a.Index, ID: a.ID})
}

func (s *session) ScrollTo(req tracker.ScrollRequest) {
	behavior := "auto"
	if req.Smooth {
		behavior = "smooth"
	}
	s.send(scrollMessage{Type: "scroll_to", Top: req.Top, Behavior: behavior})
}

func (s *session) sendError(message string) {
	s.send(errorMessage{Type: "error", Message: message})
}

func (s *session) send(msg any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		s.log.Debug("Websocket write failed", zap.Error(err))
	}
}
