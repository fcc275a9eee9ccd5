// Package webpresenter serves the comparison preview in a browser: the
// composited frames stream over a websocket as JPEG messages, and the
// page sends back JSON commands that map 1:1 to player operations.
package webpresenter

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/user/vidcomp/pkg/compare"
	"github.com/user/vidcomp/pkg/player"
	"github.com/user/vidcomp/pkg/ports"
)

//go:embed index.html
var pageFS embed.FS

// Controller is the set of player operations the control page can invoke.
// *player.Engine satisfies it.
type Controller interface {
	Play()
	Pause()
	TogglePlay()
	Step(delta int)
	Seek(index int)
	SeekToStart()
	SeekToEnd()
	SetMode(mode compare.Mode)
	SetSplit(split float64)
	SetOpacity(opacity float64)
	Toggle()
	SetOffset(offset int)
	AdjustOffset(delta int)
	Snapshot(path string) (string, error)
	Status() player.Status
}

// command is a control message from the page.
type command struct {
	Cmd   string  `json:"cmd"`
	Value float64 `json:"value,omitempty"`
	Mode  string  `json:"mode,omitempty"`
}

// event is a JSON message to the page. Frames travel as separate binary
// messages.
type event struct {
	Type    string         `json:"type"`
	Message string         `json:"message,omitempty"`
	Status  *player.Status `json:"status,omitempty"`
}

type outMsg struct {
	binary bool
	data   []byte
}

type client struct {
	id   string
	conn *websocket.Conn

	// mu guards send against offers racing the disconnect close.
	mu     sync.Mutex
	send   chan outMsg
	closed bool
}

// Server implements ports.Presenter over a local HTTP server.
type Server struct {
	addr     string
	renderer ports.Renderer
	logger   ports.Logger
	quality  int

	ctrl Controller

	mu       sync.Mutex
	clients  map[string]*client
	lastJPEG []byte

	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New creates a Server listening on addr once Start is called.
func New(addr string, renderer ports.Renderer, logger ports.Logger, jpegQuality int) *Server {
	if jpegQuality <= 0 {
		jpegQuality = 85
	}
	return &Server{
		addr:     addr,
		renderer: renderer,
		logger:   logger.WithComponent("presenter"),
		quality:  jpegQuality,
		clients:  make(map[string]*client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Local tool; the page is served from the same listener.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetController wires the player operations. Must be called before Start.
func (s *Server) SetController(ctrl Controller) {
	s.ctrl = ctrl
}

// Start runs the HTTP server until the context is canceled.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	s.httpSrv = &http.Server{Addr: s.addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpSrv.ListenAndServe()
	}()

	s.logger.Info("Preview available at http://%s", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("presenter server: %w", err)
		}
		return nil
	}
}

// Display encodes the composite as JPEG and broadcasts it to all
// connected clients. Slow clients drop frames rather than blocking the
// render loop.
func (s *Server) Display(frame ports.CompositeFrame) {
	data, err := s.renderer.EncodeImage(frame.Image, ports.FormatJPEG, s.quality)
	if err != nil {
		s.logger.Error("Failed to encode frame: %s", err)
		return
	}

	s.mu.Lock()
	s.lastJPEG = data
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		c.offer(outMsg{binary: true, data: data})
	}
	s.broadcastStatus()
}

// Notify broadcasts a transient notice to all clients.
func (s *Server) Notify(message string) {
	s.broadcastJSON(event{Type: "notice", Message: message})
}

var _ ports.Presenter = (*Server)(nil)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page, err := pageFS.ReadFile("index.html")
	if err != nil {
		http.Error(w, "page missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed: %s", err)
		return
	}

	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan outMsg, 16),
	}

	s.mu.Lock()
	s.clients[c.id] = c
	last := s.lastJPEG
	s.mu.Unlock()

	s.logger.Debug("Client %s connected", c.id)

	go s.writePump(c)
	if last != nil {
		c.offer(outMsg{binary: true, data: last})
	}
	s.sendStatus(c)

	s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer s.dropClient(c)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.logger.Debug("Bad command from %s: %s", c.id, err)
			continue
		}
		s.dispatch(cmd)
		s.broadcastStatus()
	}
}

func (s *Server) writePump(c *client) {
	for msg := range c.send {
		msgType := websocket.TextMessage
		if msg.binary {
			msgType = websocket.BinaryMessage
		}
		if err := c.conn.WriteMessage(msgType, msg.data); err != nil {
			return
		}
	}
}

// dispatch maps one page command onto the controller.
func (s *Server) dispatch(cmd command) {
	if s.ctrl == nil {
		return
	}
	switch cmd.Cmd {
	case "play":
		s.ctrl.Play()
	case "pause":
		s.ctrl.Pause()
	case "toggle-play":
		s.ctrl.TogglePlay()
	case "step":
		s.ctrl.Step(int(cmd.Value))
	case "seek":
		s.ctrl.Seek(int(cmd.Value))
	case "seek-start":
		s.ctrl.SeekToStart()
	case "seek-end":
		s.ctrl.SeekToEnd()
	case "mode":
		s.ctrl.SetMode(compare.ParseMode(cmd.Mode))
	case "split":
		s.ctrl.SetSplit(cmd.Value)
	case "opacity":
		s.ctrl.SetOpacity(cmd.Value)
	case "toggle":
		s.ctrl.Toggle()
	case "offset":
		s.ctrl.SetOffset(int(cmd.Value))
	case "offset-adjust":
		s.ctrl.AdjustOffset(int(cmd.Value))
	case "snapshot":
		path, err := s.ctrl.Snapshot("")
		if err != nil {
			s.Notify(fmt.Sprintf("snapshot failed: %s", err))
		} else {
			s.Notify(fmt.Sprintf("snapshot saved: %s", path))
		}
	default:
		s.logger.Debug("Unknown command %q", cmd.Cmd)
	}
}

func (s *Server) sendStatus(c *client) {
	if s.ctrl == nil {
		return
	}
	status := s.ctrl.Status()
	data, err := json.Marshal(event{Type: "status", Status: &status})
	if err != nil {
		return
	}
	c.offer(outMsg{data: data})
}

func (s *Server) broadcastStatus() {
	if s.ctrl == nil {
		return
	}
	status := s.ctrl.Status()
	s.broadcastJSON(event{Type: "status", Status: &status})
}

func (s *Server) broadcastJSON(ev event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()
	for _, c := range clients {
		c.offer(outMsg{data: data})
	}
}

func (s *Server) dropClient(c *client) {
	s.mu.Lock()
	delete(s.clients, c.id)
	s.mu.Unlock()
	c.shutdown()
	c.conn.Close()
	s.logger.Debug("Client %s disconnected", c.id)
}

// offer enqueues a message, dropping the oldest queued one when the
// client cannot keep up. Offers racing or following a disconnect are
// discarded: Display snapshots the client list before sending, so a
// client may drop in between.
func (c *client) offer(msg outMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- msg:
	default:
		select {
		case <-c.send:
		default:
		}
		select {
		case c.send <- msg:
		default:
		}
	}
}

// shutdown closes the send queue exactly once, ending the write pump.
func (c *client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()
}
