package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"genfity-order-admin/internal/refresh"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RefreshMessage tells a console to re-sync its list.
type RefreshMessage struct {
	Type    string `json:"type"`
	Version uint64 `json:"version"`
}

// Server pushes refresh-counter bumps to connected consoles.
type Server struct {
	Logger    *zap.Logger
	Counter   *refresh.Counter
	Heartbeat time.Duration
}

func New(logger *zap.Logger, counter *refresh.Counter, heartbeat time.Duration) *Server {
	if heartbeat <= 0 {
		heartbeat = 30 * time.Second
	}
	return &Server{Logger: logger, Counter: counter, Heartbeat: heartbeat}
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(value)
}

func (c *client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func refreshMessage(version uint64) RefreshMessage {
	return RefreshMessage{Type: "orders.refresh", Version: version}
}

// OrdersRefreshWS sends the current version on connect and then one message per
// bump. Bumps that arrive faster than the client reads are coalesced.
func (s *Server) OrdersRefreshWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	versions, unsubscribe := s.Counter.Subscribe()
	defer unsubscribe()

	c := &client{conn: conn}
	if err := c.writeJSON(refreshMessage(s.Counter.Current())); err != nil {
		return
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	heartbeat := time.NewTicker(s.Heartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		case version := <-versions:
			if err := c.writeJSON(refreshMessage(version)); err != nil {
				s.debug("refresh push failed", err)
				return
			}
		case <-heartbeat.C:
			if err := c.ping(); err != nil {
				s.debug("heartbeat failed", err)
				return
			}
		}
	}
}

func (s *Server) debug(msg string, err error) {
	if s.Logger != nil {
		s.Logger.Debug(msg, zap.Error(err))
	}
}
