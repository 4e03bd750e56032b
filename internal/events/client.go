package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/faisal004/pulseboard/internal/models"
)

// ErrClosed is returned by Call after the client has been closed
var ErrClosed = errors.New("client closed")

// RemoteError is a failure reported by the daemon for one call. The daemon
// does not translate storage errors, so the text is whatever the repository
// propagated.
type RemoteError struct {
	Method string
	Text   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Method, e.Text)
}

// Client is the UI-process side of the sync bridge. It issues requests over
// the daemon's Unix domain socket, matches responses to calls by id, and
// surfaces pushed events on a channel.
type Client struct {
	socketPath string

	conn    net.Conn
	encoder *json.Encoder
	writeMu sync.Mutex // one writer at a time on the socket

	nextID  atomic.Int64
	pending map[int64]chan Message
	mu      sync.Mutex // protects pending and closed
	closed  bool

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

// NewClient creates a client for the given socket path without connecting
func NewClient(socketPath string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		socketPath: socketPath,
		pending:    make(map[int64]chan Message),
		events:     make(chan Event, 100),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Connect dials the daemon socket and starts the read loop
func (c *Client) Connect(ctx context.Context) error {
	dialer := net.Dialer{}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("failed to dial daemon socket: %w", err)
	}

	c.conn = conn
	c.encoder = json.NewEncoder(conn)

	go c.readLoop()

	return nil
}

// SocketPath returns the path this client dials
func (c *Client) SocketPath() string {
	return c.socketPath
}

// Events returns the channel of daemon-pushed events. Slow consumers lose
// events rather than stalling the read loop.
func (c *Client) Events() <-chan Event {
	return c.events
}

// Call issues one request and blocks until its response, ctx cancellation or
// client close. A request cannot be cancelled once written; ctx only bounds
// how long the caller waits.
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal params: %w", err)
		}
		raw = data
	}

	id := c.nextID.Add(1)
	respCh := make(chan Message, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.pending[id] = respCh
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	msg := Message{
		Version: ProtocolVersion,
		Type:    "request",
		ID:      id,
		Method:  method,
		Params:  raw,
	}
	if err := c.write(msg); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return ErrClosed
	case resp := <-respCh:
		if resp.Error != "" {
			return &RemoteError{Method: method, Text: resp.Error}
		}
		if result != nil && len(resp.Result) > 0 {
			if err := json.Unmarshal(resp.Result, result); err != nil {
				return fmt.Errorf("failed to unmarshal result: %w", err)
			}
		}
		return nil
	}
}

// readLoop decodes messages from the socket and routes them
func (c *Client) readLoop() {
	decoder := json.NewDecoder(c.conn)

	for {
		var msg Message
		if err := decoder.Decode(&msg); err != nil {
			c.failPending()
			return
		}

		if msg.Version != 0 && msg.Version != ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", ProtocolVersion)
		}

		switch msg.Type {
		case "response":
			c.mu.Lock()
			ch, ok := c.pending[msg.ID]
			c.mu.Unlock()
			if ok {
				ch <- msg
			}

		case "event":
			if msg.Event != nil {
				select {
				case c.events <- *msg.Event:
				default:
					slog.Warn("event channel full, dropping event", "type", msg.Event.Type)
				}
			}

		case "ping":
			if err := c.write(Message{Version: ProtocolVersion, Type: "pong"}); err != nil {
				slog.Warn("failed to send pong", "error", err)
			}
		}
	}
}

// failPending unblocks callers waiting on a dead connection
func (c *Client) failPending() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel()
}

func (c *Client) write(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.encoder.Encode(msg)
}

// Close tears down the connection and unblocks in-flight calls
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Typed helpers for the board operations

func (c *Client) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	var task models.Task
	if err := c.Call(ctx, MethodKanbanCreate, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) FindAllTasks(ctx context.Context) ([]*models.Task, error) {
	var tasks []*models.Task
	if err := c.Call(ctx, MethodKanbanFindAll, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) UpdateTask(ctx context.Context, task *models.Task) (*models.Task, error) {
	var updated models.Task
	if err := c.Call(ctx, MethodKanbanUpdate, task, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status models.Status) error {
	return c.Call(ctx, MethodKanbanUpdateStatus, UpdateStatusParams{ID: id, Status: status}, nil)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.Call(ctx, MethodKanbanDelete, IDParams{ID: id}, nil)
}

func (c *Client) CreateSubtask(ctx context.Context, taskID, title string) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := c.Call(ctx, MethodKanbanCreateSubtask, CreateSubtaskParams{TaskID: taskID, Title: title}, &subtask); err != nil {
		return nil, err
	}
	return &subtask, nil
}

func (c *Client) ToggleSubtask(ctx context.Context, id string, completed bool) error {
	return c.Call(ctx, MethodKanbanToggleSubtask, ToggleSubtaskParams{ID: id, Completed: completed}, nil)
}

func (c *Client) DeleteSubtask(ctx context.Context, id string) error {
	return c.Call(ctx, MethodKanbanDeleteSubtask, IDParams{ID: id}, nil)
}
