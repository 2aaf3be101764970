package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrClosed is returned once the connection to the hub is gone.
var ErrClosed = errors.New("bridge: connection closed")

// Client is a peer connection to a hub.
type Client struct {
	name string
	conn *websocket.Conn

	writeMu  sync.Mutex
	incoming chan Message

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to the hub at url and announces name.
func Dial(ctx context.Context, url, name string) (*Client, error) {
	if !validName(name) {
		return nil, fmt.Errorf("bridge: invalid peer name %q", name)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: cannot dial %s: %w", url, err)
	}

	c := &Client{
		name:     name,
		conn:     conn,
		incoming: make(chan Message, sendBuffer),
		done:     make(chan struct{}),
	}
	go c.readLoop()

	if err := c.Send(NewMessage(name, DestMultegula, KindMyName, name)); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Name returns the announced peer name.
func (c *Client) Name() string {
	return c.name
}

func (c *Client) readLoop() {
	defer close(c.incoming)
	c.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		msg, err := Decode(string(data))
		if err != nil {
			continue
		}
		select {
		case c.incoming <- msg:
		case <-c.done:
			return
		}
	}
}

// Incoming returns the messages relayed by the hub. The channel is closed
// when the connection ends.
func (c *Client) Incoming() <-chan Message {
	return c.incoming
}

// Send writes a message. An empty source is filled with the peer name.
func (c *Client) Send(m Message) error {
	if m.Source == "" {
		m.Source = c.name
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(m.Encode())); err != nil {
		return fmt.Errorf("bridge: cannot send %s: %w", m.Kind, err)
	}
	return nil
}

// WaitStart blocks until the hub starts the arena. Other messages received
// before the start are dropped.
func (c *Client) WaitStart(ctx context.Context) (Start, error) {
	for {
		select {
		case <-ctx.Done():
			return Start{}, ctx.Err()
		case m, ok := <-c.incoming:
			if !ok {
				return Start{}, ErrClosed
			}
			switch m.Kind {
			case KindError:
				return Start{}, fmt.Errorf("bridge: hub refused %s: %s", c.name, m.Content)
			case KindStart:
				return ParseStart(m)
			}
		}
	}
}

// Close says goodbye to the hub and closes the connection. Safe to call
// multiple times.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		c.writeMu.Lock()
		c.conn.WriteControl( //nolint:errcheck
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		c.writeMu.Unlock()
		err = c.conn.Close()
	})
	return err
}
