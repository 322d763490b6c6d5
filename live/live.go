// Package live serves the interactive diff loop over a websocket. Each
// connection edits one base/comparison pair and receives a status message
// for every scheduler transition
package live

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/qri-io/jsondiff"
	"github.com/qri-io/jsondiff/schedule"
)

const (
	// TypeEdit is sent by clients carrying new document contents
	TypeEdit = "edit"
	// TypeStatus is sent by the server on every scheduler transition
	TypeStatus = "status"
	// TypeError is sent by the server when a client message is unusable
	TypeError = "error"

	writeWait = 10 * time.Second
)

// Error kinds reported to clients
const (
	KindEmptyInput = "emptyInput"
	KindParse      = "parse"
	KindTraversal  = "traversal"
	KindProtocol   = "protocol"
)

// EditMessage is the only message clients send
type EditMessage struct {
	Type       string `json:"type"`
	Base       string `json:"base"`
	Comparison string `json:"comparison"`
}

// ErrorBody describes a failure
type ErrorBody struct {
	Kind string `json:"kind"`
	// Document names the unparseable side for KindParse
	Document string `json:"document,omitempty"`
	Message  string `json:"message"`
}

// StatusMessage mirrors a schedule.Update
type StatusMessage struct {
	Type      string             `json:"type"`
	State     schedule.State     `json:"state,omitempty"`
	Telemetry schedule.Telemetry `json:"telemetry"`
	Hints     schedule.Hints     `json:"hints"`
	Result    *jsondiff.Result   `json:"result,omitempty"`
	Error     *ErrorBody         `json:"error,omitempty"`
}

// errorBody classifies an error for the wire
func errorBody(err error) *ErrorBody {
	if err == nil {
		return nil
	}
	body := &ErrorBody{Kind: KindTraversal, Message: err.Error()}
	var perr *jsondiff.ParseError
	switch {
	case errors.Is(err, jsondiff.ErrEmptyInput):
		body.Kind = KindEmptyInput
	case errors.As(err, &perr):
		body.Kind = KindParse
		body.Document = perr.Doc.String()
	}
	return body
}

func statusMessage(u schedule.Update) StatusMessage {
	return StatusMessage{
		Type:      TypeStatus,
		State:     u.State,
		Telemetry: u.Telemetry,
		Hints:     u.Hints,
		Result:    u.Result,
		Error:     errorBody(u.Err),
	}
}

// Config configures a Handler
type Config struct {
	Upgrader *websocket.Upgrader
	Logger   *slog.Logger
	// Scheduler options applied to every connection's scheduler
	Scheduler []schedule.Option
}

// Option adjusts a Config
type Option func(cfg *Config)

// OptionUpgrader swaps the websocket upgrader, to restrict origins say
func OptionUpgrader(u *websocket.Upgrader) Option {
	return func(cfg *Config) {
		cfg.Upgrader = u
	}
}

// OptionLogger sets the logger for connection events
func OptionLogger(l *slog.Logger) Option {
	return func(cfg *Config) {
		cfg.Logger = l
	}
}

// OptionScheduler adds options for per-connection schedulers
func OptionScheduler(opts ...schedule.Option) Option {
	return func(cfg *Config) {
		cfg.Scheduler = append(cfg.Scheduler, opts...)
	}
}

// Handler is an http.Handler that runs one scheduler per websocket
type Handler struct {
	runner schedule.Runner
	cfg    Config
}

// NewHandler creates a Handler diffing with runner
func NewHandler(runner schedule.Runner, opts ...Option) *Handler {
	cfg := Config{
		Upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Handler{runner: runner, cfg: cfg}
}

// conn serializes writes to a websocket, listeners fire from timer
// goroutines while the read loop may be replying too
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !websocket.IsWebSocketUpgrade(r) {
		http.Error(w, "websocket upgrade required", http.StatusBadRequest)
		return
	}

	ws, err := h.cfg.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.cfg.Logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer ws.Close()

	log := h.cfg.Logger.With("remote", ws.RemoteAddr().String())
	log.Info("client connected")
	defer log.Info("client disconnected")

	c := &conn{ws: ws}
	opts := append([]schedule.Option{schedule.OptionLogger(log)}, h.cfg.Scheduler...)
	opts = append(opts, schedule.OptionListener(func(u schedule.Update) {
		if err := c.send(statusMessage(u)); err != nil {
			log.Debug("status write failed", "state", u.State, "err", err)
		}
	}))
	sched, err := schedule.New(h.runner, opts...)
	if err != nil {
		log.Error("creating scheduler", "err", err)
		return
	}
	defer sched.Stop()

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read failed", "err", err)
			}
			return
		}

		msg := EditMessage{}
		if err := json.Unmarshal(data, &msg); err != nil {
			h.protocolError(c, log, fmt.Errorf("decoding message: %w", err))
			continue
		}
		if msg.Type != TypeEdit {
			h.protocolError(c, log, fmt.Errorf("unknown message type %q", msg.Type))
			continue
		}
		sched.Edit([]byte(msg.Base), []byte(msg.Comparison))
	}
}

func (h *Handler) protocolError(c *conn, log *slog.Logger, err error) {
	log.Debug("bad client message", "err", err)
	msg := StatusMessage{
		Type:  TypeError,
		Error: &ErrorBody{Kind: KindProtocol, Message: err.Error()},
	}
	if err := c.send(msg); err != nil {
		log.Debug("error write failed", "err", err)
	}
}
