package bridge

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 64
)

// HubConfig configures a Hub.
type HubConfig struct {
	Players int          // Peers per arena, clamped to 2..4
	Seed    func() int64 // Arena seed source, defaults to the clock
}

// Hub relays messages between the peers of one arena. Peers announce a
// name with MSG_MYNAME; once Players names are in, the hub multicasts
// MSG_START with the seed and the roster. When every peer has left the hub
// accepts a new arena.
type Hub struct {
	players  int
	seed     func() int64
	logger   *log.Logger
	upgrader websocket.Upgrader

	register   chan *peerConn
	unregister chan *peerConn
	inbound    chan inbound
	done       chan struct{}
	stopOnce   sync.Once

	// Owned by Run.
	conns   map[*peerConn]struct{}
	named   map[string]*peerConn
	roster  []string
	started bool
}

type peerConn struct {
	conn *websocket.Conn
	send chan Message
	name string // set by Run
}

type inbound struct {
	from *peerConn
	msg  Message
	err  error
}

// NewHub creates a hub. A nil logger discards output.
func NewHub(cfg HubConfig, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	seed := cfg.Seed
	if seed == nil {
		seed = func() int64 { return time.Now().UnixNano() }
	}
	return &Hub{
		players:    min(max(cfg.Players, 2), 4),
		seed:       seed,
		logger:     logger,
		register:   make(chan *peerConn),
		unregister: make(chan *peerConn),
		inbound:    make(chan inbound, 64),
		done:       make(chan struct{}),
		conns:      make(map[*peerConn]struct{}),
		named:      make(map[string]*peerConn),
	}
}

// Players returns the number of peers an arena waits for.
func (h *Hub) Players() int {
	return h.players
}

// ServeHTTP upgrades the request to a websocket and serves the peer until
// it disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &peerConn{conn: conn, send: make(chan Message, sendBuffer)}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(c)
	h.readPump(c)
}

func (h *Hub) readPump(c *peerConn) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("read failed", "remote", c.conn.RemoteAddr(), "error", err)
			}
			return
		}
		msg, err := Decode(string(data))
		select {
		case h.inbound <- inbound{from: c, msg: msg, err: err}:
		case <-h.done:
			return
		}
	}
}

func (h *Hub) writePump(c *peerConn) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
		if err := c.conn.WriteMessage(websocket.TextMessage, []byte(msg.Encode())); err != nil {
			h.logger.Debug("write failed", "remote", c.conn.RemoteAddr(), "error", err)
			c.conn.Close()
			return
		}
	}
	c.conn.WriteControl( //nolint:errcheck
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeWait),
	)
}

// Run processes registrations and messages until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer h.stopOnce.Do(func() {
		close(h.done)
		for c := range h.conns {
			close(c.send)
		}
	})

	for {
		select {
		case c := <-h.register:
			h.conns[c] = struct{}{}

		case c := <-h.unregister:
			h.remove(c)

		case in := <-h.inbound:
			if _, ok := h.conns[in.from]; !ok {
				continue
			}
			if in.err != nil {
				h.deliver(in.from, h.errorMessage(in.err.Error()))
				continue
			}
			h.route(in.from, in.msg)

		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) remove(c *peerConn) {
	if _, ok := h.conns[c]; !ok {
		return
	}
	delete(h.conns, c)
	close(c.send)

	if c.name == "" {
		return
	}
	delete(h.named, c.name)
	h.logger.Info("peer left", "peer", c.name, "peers", len(h.named))

	if !h.started {
		h.roster = removeName(h.roster, c.name)
		return
	}
	h.multicast(c, Message{Source: c.name, Destination: DestEverybody, Kind: KindLeave})
	if len(h.named) == 0 {
		h.started = false
		h.roster = nil
		h.logger.Info("arena closed")
	}
}

func (h *Hub) route(c *peerConn, m Message) {
	if c.name == "" {
		h.join(c, m)
		return
	}

	// Peers cannot speak for each other.
	m.Source = c.name

	switch m.Destination {
	case DestMultegula:
		h.logger.Debug("hub message", "peer", c.name, "kind", m.Kind, "content", m.Content)
	case DestEverybody:
		if !h.started {
			h.deliver(c, h.errorMessage("arena not started"))
			return
		}
		h.multicast(c, m)
	default:
		to, ok := h.named[m.Destination]
		if !ok || !h.started {
			h.deliver(c, h.errorMessage("unknown peer "+m.Destination))
			return
		}
		h.deliver(to, m)
	}
}

func (h *Hub) join(c *peerConn, m Message) {
	if m.Kind != KindMyName {
		h.deliver(c, h.errorMessage("send "+KindMyName+" first"))
		return
	}
	name := strings.TrimSpace(m.Content)
	switch _, taken := h.named[name]; {
	case h.started:
		h.deliver(c, h.errorMessage("arena already started"))
		return
	case !validName(name):
		h.deliver(c, h.errorMessage("invalid name"))
		return
	case taken:
		h.deliver(c, h.errorMessage("name taken"))
		return
	}

	c.name = name
	h.named[name] = c
	h.roster = append(h.roster, name)
	h.logger.Info("peer joined", "peer", name, "peers", len(h.roster), "want", h.players)

	if len(h.roster) < h.players {
		return
	}
	h.started = true
	start := Start{Seed: h.seed(), Roster: append([]string(nil), h.roster...)}
	for _, name := range h.roster {
		h.deliver(h.named[name], start.Message())
	}
	h.logger.Info("arena started", "roster", strings.Join(h.roster, ","), "seed", start.Seed)
}

// multicast delivers m to every named peer except the sender.
func (h *Hub) multicast(from *peerConn, m Message) {
	for _, name := range h.roster {
		if to, ok := h.named[name]; ok && to != from {
			h.deliver(to, m)
		}
	}
}

// deliver queues m for c. A peer whose queue is full loses the message.
func (h *Hub) deliver(c *peerConn, m Message) {
	select {
	case c.send <- m:
	default:
		h.logger.Warn("send queue full", "peer", c.name, "kind", m.Kind)
	}
}

func (h *Hub) errorMessage(reason string) Message {
	return NewMessage(DestMultegula, "", KindError, reason)
}

func removeName(names []string, name string) []string {
	out := names[:0]
	for _, n := range names {
		if n != name {
			out = append(out, n)
		}
	}
	return out
}
