package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/sidenav/internal/sidebar"
)

const (
	// SessionCookie carries the browser session ID.
	SessionCookie = "sidenav_session"
	// SessionHeader carries the session ID for clients without cookies.
	SessionHeader = "X-Sidenav-Session"
)

// session holds the last inserted view per variant of one browser session.
// mu serialises every operation on the views.
type session struct {
	mu    sync.Mutex
	views map[string]*sidebar.View
	seen  time.Time
}

type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
	now  func() time.Time
}

func newSessions() *sessions {
	return &sessions{
		byID: make(map[string]*session),
		now:  time.Now,
	}
}

// get returns the session for id, creating it when create is set.
func (s *sessions) get(id string, create bool) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byID[id]
	if !ok {
		if !create {
			return nil
		}
		sess = &session{views: make(map[string]*sidebar.View)}
		s.byID[id] = sess
	}
	sess.seen = s.now()
	return sess
}

// prune drops sessions not used within idle and returns how many were dropped.
func (s *sessions) prune(idle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-idle)
	n := 0
	for id, sess := range s.byID {
		if sess.seen.Before(cutoff) {
			delete(s.byID, id)
			n++
		}
	}
	return n
}

func (s *sessions) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// requestSession returns the session ID the request carries, or "". IDs that are not
// UUIDs are ignored.
func requestSession(r *http.Request) string {
	id := r.Header.Get(SessionHeader)
	if id == "" {
		if c, err := r.Cookie(SessionCookie); err == nil {
			id = c.Value
		}
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

// sessionCookie builds the cookie that hands a new session ID to the browser.
func sessionCookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ensureSession returns the request's session ID, issuing a new one through w when
// the request has none.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	if id := requestSession(r); id != "" {
		return id
	}
	id := uuid.NewString()
	http.SetCookie(w, sessionCookie(id))
	w.Header().Set(SessionHeader, id)
	return id
}
