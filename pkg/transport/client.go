package transport

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// State represents the connection state of the live alert feed
type State string

const (
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateClosed     State = "closed"
)

// DefaultReconnectDelay is the fixed delay before a reconnect attempt.
// There is no backoff: the observed production behavior retries at a
// constant interval.
const DefaultReconnectDelay = 3 * time.Second

// Conn is the subset of a websocket connection the client needs.
// gorilla's *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
}

// Dialer opens a connection to the alert feed endpoint
type Dialer interface {
	DialContext(ctx context.Context, url string) (Conn, error)
}

type wsDialer struct {
	dialer *websocket.Dialer
}

func (d wsDialer) DialContext(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := d.dialer.DialContext(ctx, url, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// Sink receives transport events. Frames are delivered in arrival order from
// a single goroutine; a frame handler runs to completion before the next
// frame is delivered.
type Sink interface {
	HandleFrame(payload []byte)
	HandleStateChange(state State)
}

// Client maintains one logical connection to the live alert feed, surfacing
// state changes and inbound frames, and reconnecting on unexpected closure.
type Client struct {
	url            string
	sink           Sink
	dialer         Dialer
	reconnectDelay time.Duration

	mu        sync.Mutex
	state     State
	conn      Conn
	reconnect *time.Timer // pending reconnect timer, at most one per closure
	shutdown  bool
	ctx       context.Context
}

// NewClient creates a transport client for the given feed URL
func NewClient(url string, sink Sink, reconnectDelay time.Duration) *Client {
	if reconnectDelay <= 0 {
		reconnectDelay = DefaultReconnectDelay
	}
	return &Client{
		url:            url,
		sink:           sink,
		dialer:         wsDialer{dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second}},
		reconnectDelay: reconnectDelay,
		state:          StateClosed,
		ctx:            context.Background(),
	}
}

// State returns the current connection state
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the connection. Idempotent: a no-op while already open or
// connecting. The dial happens asynchronously; the sink observes the outcome
// through state changes.
func (c *Client) Connect(ctx context.Context) {
	c.mu.Lock()
	if c.shutdown || c.state == StateOpen || c.state == StateConnecting {
		c.mu.Unlock()
		return
	}
	c.state = StateConnecting
	c.ctx = ctx
	c.mu.Unlock()

	c.sink.HandleStateChange(StateConnecting)
	go c.dial(ctx)
}

func (c *Client) dial(ctx context.Context) {
	conn, err := c.dialer.DialContext(ctx, c.url)
	if err != nil {
		logrus.Warnf("Live alert feed connection failed: %v", err)
		c.handleClose()
		return
	}

	c.mu.Lock()
	if c.shutdown {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.state = StateOpen
	c.mu.Unlock()

	logrus.Infof("Live alert feed connected to %s", c.url)
	c.sink.HandleStateChange(StateOpen)
	c.readLoop(conn)
}

// readLoop delivers frames until the connection drops, then runs the close
// transition exactly once
func (c *Client) readLoop(conn Conn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Warnf("Live alert feed read error: %v", err)
			}
			break
		}
		c.sink.HandleFrame(payload)
	}
	c.handleClose()
}

// handleClose transitions to Closed and schedules at most one reconnect.
// Safe to run more than once per closure: a pending reconnect timer is
// never doubled.
func (c *Client) handleClose() {
	c.mu.Lock()
	alreadyClosed := c.state == StateClosed
	c.state = StateClosed
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	scheduled := false
	if !c.shutdown && c.reconnect == nil {
		ctx := c.ctx
		c.reconnect = time.AfterFunc(c.reconnectDelay, func() {
			c.mu.Lock()
			c.reconnect = nil
			c.mu.Unlock()
			c.Connect(ctx)
		})
		scheduled = true
	}
	c.mu.Unlock()

	if !alreadyClosed {
		c.sink.HandleStateChange(StateClosed)
	}
	if scheduled {
		logrus.Infof("Live alert feed disconnected, reconnecting in %s", c.reconnectDelay)
	}
}

// Shutdown tears the client down: cancels any pending reconnect and closes
// the connection. The client cannot be reused afterwards.
func (c *Client) Shutdown() {
	c.mu.Lock()
	c.shutdown = true
	if c.reconnect != nil {
		c.reconnect.Stop()
		c.reconnect = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.state = StateClosed
	c.mu.Unlock()
}
