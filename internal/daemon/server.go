package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/faisal004/pulseboard/internal/events"
)

// Handler executes one bridge request and returns its result value (or nil)
type Handler func(ctx context.Context, method string, params json.RawMessage) (any, error)

// client represents a connected UI process
type client struct {
	conn      net.Conn
	send      chan events.Message
	lastPong  time.Time
	mu        sync.Mutex // protects lastPong
	closeOnce sync.Once  // ensures send channel is closed only once
}

// Server is the privileged-process end of the sync bridge. It accepts UI
// clients on a Unix domain socket, dispatches their requests to the handler
// and pushes events (board changes, stats samples, update lifecycle) to every
// connected client.
type Server struct {
	socketPath       string
	listener         net.Listener
	handler          Handler
	clients          map[*client]bool
	mu               sync.RWMutex
	ctx              context.Context
	cancel           context.CancelFunc
	broadcast        chan events.Event
	metrics          *Metrics
	sequenceCounter  atomic.Int64
	clientBufferSize int
	shutdownOnce     sync.Once
}

// getEnvInt reads an integer from an environment variable, returning defaultVal if not set or invalid
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

// NewServer creates a new bridge server listening on socketPath
func NewServer(socketPath string, handler Handler) (*Server, error) {
	dir := filepath.Dir(socketPath)
	if dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create socket directory: %w", err)
		}
	}

	// Remove stale socket file if it exists
	if _, err := os.Stat(socketPath); err == nil {
		if err := os.Remove(socketPath); err != nil {
			return nil, fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	lc := net.ListenConfig{}
	listener, err := lc.Listen(context.Background(), "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create socket listener: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	broadcastBuffer := getEnvInt("PULSEBOARD_DAEMON_BROADCAST_BUFFER", 100)
	clientBuffer := getEnvInt("PULSEBOARD_DAEMON_CLIENT_BUFFER", 32)

	return &Server{
		socketPath:       socketPath,
		listener:         listener,
		handler:          handler,
		clients:          make(map[*client]bool),
		ctx:              ctx,
		cancel:           cancel,
		broadcast:        make(chan events.Event, broadcastBuffer),
		metrics:          NewMetrics(),
		clientBufferSize: clientBuffer,
	}, nil
}

// Metrics exposes the server's counters
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start runs the bridge server until ctx is cancelled.
// It starts three goroutines: accept, broadcast and health monitoring.
func (s *Server) Start(ctx context.Context) error {
	slog.Info("bridge starting", "socket_path", s.socketPath)

	combinedCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		<-s.ctx.Done()
		cancel()
	}()

	acceptErr := make(chan error, 1)
	go func() {
		acceptErr <- s.acceptLoop(combinedCtx)
	}()

	go s.broadcastLoop(combinedCtx)
	go s.monitorHealth(combinedCtx)

	select {
	case <-combinedCtx.Done():
		slog.Info("bridge context cancelled, shutting down")
	case err := <-acceptErr:
		if err != nil {
			slog.Error("accept loop error", "error", err)
		}
	}

	return s.Shutdown()
}

// acceptLoop accepts incoming client connections
func (s *Server) acceptLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		// Deadline so the loop can notice context cancellation
		if err := s.listener.(*net.UnixListener).SetDeadline(time.Now().Add(1 * time.Second)); err != nil {
			slog.Warn("error setting listener deadline", "error", err)
		}

		conn, err := s.listener.Accept()
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("accept error: %w", err)
		}

		c := &client{
			conn:     conn,
			send:     make(chan events.Message, s.clientBufferSize),
			lastPong: time.Now(),
		}

		s.mu.Lock()
		s.clients[c] = true
		s.mu.Unlock()
		s.updateClientCount()

		slog.Info("client connected", "total_clients", s.getClientCount())

		go s.handleClient(ctx, c)
		go s.clientWriter(c)
	}
}

// handleClient reads messages from one client. Requests are dispatched
// synchronously in this goroutine, so a single client's calls are applied in
// the order it awaits them; concurrent clients are serialized only by the
// storage engine.
func (s *Server) handleClient(ctx context.Context, c *client) {
	defer func() {
		s.removeClient(c)
		slog.Info("client disconnected", "total_clients", s.getClientCount())
	}()

	decoder := json.NewDecoder(c.conn)

	for {
		var msg events.Message
		if err := decoder.Decode(&msg); err != nil {
			return
		}

		if msg.Version != 0 && msg.Version != events.ProtocolVersion {
			slog.Warn("protocol version mismatch", "got", msg.Version, "want", events.ProtocolVersion)
		}

		switch msg.Type {
		case "request":
			resp := s.dispatch(ctx, msg)
			if !s.sendToClient(c, resp) {
				slog.Warn("client send queue full, response dropped", "method", msg.Method)
			}

		case "pong":
			c.mu.Lock()
			c.lastPong = time.Now()
			c.mu.Unlock()
		}
	}
}

// dispatch executes one request against the handler and wraps the outcome.
// Handler errors travel as strings, untranslated.
func (s *Server) dispatch(ctx context.Context, msg events.Message) events.Message {
	resp := events.Message{
		Version: events.ProtocolVersion,
		Type:    "response",
		ID:      msg.ID,
	}

	result, err := s.handler(ctx, msg.Method, msg.Params)
	if err != nil {
		s.metrics.IncRequestsFailed()
		resp.Error = err.Error()
		return resp
	}
	s.metrics.IncRequestsServed()

	if result != nil {
		data, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			resp.Error = fmt.Sprintf("failed to marshal result: %v", marshalErr)
			return resp
		}
		resp.Result = data
	}
	return resp
}

// clientWriter is the single writer for one client's connection
func (s *Server) clientWriter(c *client) {
	encoder := json.NewEncoder(c.conn)

	for msg := range c.send {
		if err := encoder.Encode(msg); err != nil {
			return
		}
	}
}

// broadcastLoop distributes events to every connected client
func (s *Server) broadcastLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return

		case event := <-s.broadcast:
			event.SequenceID = s.sequenceCounter.Add(1)
			if event.Timestamp.IsZero() {
				event.Timestamp = time.Now()
			}

			msg := events.Message{
				Version: events.ProtocolVersion,
				Type:    "event",
				Event:   &event,
			}

			s.mu.RLock()
			for c := range s.clients {
				// Non-blocking send; a slow client loses the event
				if !s.sendToClient(c, msg) {
					s.metrics.IncEventsDropped()
				}
			}
			s.mu.RUnlock()
		}
	}
}

// monitorHealth sends ping messages and removes stale clients
func (s *Server) monitorHealth(ctx context.Context) {
	pingTicker := time.NewTicker(30 * time.Second)
	defer pingTicker.Stop()

	healthTicker := time.NewTicker(60 * time.Second)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-pingTicker.C:
			s.mu.RLock()
			clients := make([]*client, 0, len(s.clients))
			for c := range s.clients {
				clients = append(clients, c)
			}
			s.mu.RUnlock()

			pingMsg := events.Message{
				Version: events.ProtocolVersion,
				Type:    "ping",
			}

			for _, c := range clients {
				if !s.sendToClient(c, pingMsg) {
					slog.Warn("failed to send ping to client (queue full)")
				}
			}

		case <-healthTicker.C:
			// Two-phase: collect stale clients under the read lock, drop them after
			s.mu.RLock()
			staleClients := make([]*client, 0)
			now := time.Now()
			for c := range s.clients {
				c.mu.Lock()
				lastPong := c.lastPong
				c.mu.Unlock()

				if now.Sub(lastPong) > 90*time.Second {
					staleClients = append(staleClients, c)
				}
			}
			s.mu.RUnlock()

			for _, c := range staleClients {
				slog.Info("removing stale client", "since_last_pong", now.Sub(c.lastPong))
				s.removeClient(c)
			}
		}
	}
}

// SendEvent queues an event for broadcast (non-blocking).
// This makes *Server the EventPublisher the service layer writes to.
func (s *Server) SendEvent(event events.Event) error {
	select {
	case s.broadcast <- event:
		return nil
	default:
		s.metrics.IncEventsDropped()
		return fmt.Errorf("broadcast channel full")
	}
}

var _ events.EventPublisher = (*Server)(nil)

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	s.shutdownOnce.Do(func() {
		slog.Info("shutting down bridge")

		s.cancel()

		if s.listener != nil {
			if closeErr := s.listener.Close(); closeErr != nil {
				slog.Warn("error closing listener", "error", closeErr)
			}
		}

		s.mu.Lock()
		for c := range s.clients {
			if closeErr := c.conn.Close(); closeErr != nil {
				slog.Warn("error closing client connection", "error", closeErr)
			}
			c.closeOnce.Do(func() {
				close(c.send)
			})
		}
		s.clients = make(map[*client]bool)
		s.mu.Unlock()

		if removeErr := os.Remove(s.socketPath); removeErr != nil && !os.IsNotExist(removeErr) {
			slog.Warn("failed to remove socket file", "error", removeErr)
		}
	})

	return nil
}

// Helper methods

func (s *Server) getClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *Server) updateClientCount() {
	s.metrics.SetConnectedClients(int32(s.getClientCount()))
}

// removeClient safely removes a client from the server
func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()

	if err := c.conn.Close(); err != nil {
		slog.Debug("error closing client connection", "error", err)
	}
	c.closeOnce.Do(func() {
		close(c.send)
	})

	s.updateClientCount()
}

// sendToClient attempts to enqueue a message for a client (non-blocking).
// Returns true if successful, false if the queue is full.
func (s *Server) sendToClient(c *client, msg events.Message) bool {
	select {
	case c.send <- msg:
		if msg.Type == "event" {
			s.metrics.IncEventsSent()
		}
		return true
	default:
		return false
	}
}
