package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/1broseidon/tagwm/internal/runtimepath"
	"github.com/1broseidon/tagwm/internal/wm"
)

// ErrLoopClosed is returned by an Executor once the event loop has stopped.
var ErrLoopClosed = errors.New("event loop is not running")

// Handler carries out requests. Its methods are only called through the
// server's Executor, so they may touch window manager state directly.
type Handler interface {
	Status() wm.Status
	Do(a wm.Action) error
	// View shows a tagview on a monitor, or on the active one when monitor
	// is nil.
	View(monitor *int, tagview int) error
	SetLayout(p LayoutPayload) error
}

// Executor runs fn on the goroutine that owns the window manager and waits
// for it to finish.
type Executor func(fn func()) error

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	handler      Handler
	exec         Executor
	log          zerolog.Logger
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
	wg           sync.WaitGroup
}

// NewServer creates a new IPC server
func NewServer(handler Handler, exec Executor, log zerolog.Logger) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove a stale socket from a previous run
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		handler:    handler,
		exec:       exec,
		log:        log.With().Str("component", "ipc").Logger(),
		startTime:  time.Now(),
	}, nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string { return s.socketPath }

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	s.log.Info().Str("socket", s.socketPath).Msg("IPC server listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.stopping() {
				return
			}
			s.log.Warn().Err(err).Msg("IPC accept error")
			continue
		}

		go s.handleConnection(conn)
	}
}

func (s *Server) stopping() bool {
	s.shutdownMu.Lock()
	defer s.shutdownMu.Unlock()
	return s.shuttingDown
}

// handleConnection serves a single request-response exchange.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// One JSON request per line
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		s.log.Debug().Err(err).Msg("IPC read error")
		return
	}

	req, err := ParseRequest(data)
	if err != nil {
		s.send(conn, NewErrorResponse(fmt.Sprintf("Invalid request: %v", err)))
		return
	}

	var resp *Response
	err = s.exec(func() {
		resp = s.handleCommand(req)
	})
	if err != nil {
		resp = NewErrorResponse(err.Error())
	}
	s.send(conn, resp)
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	s.log.Debug().Str("command", string(req.Command)).Msg("IPC request")

	switch req.Command {
	case CommandGetStatus:
		return ok(StatusData{
			Status:        s.handler.Status(),
			UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		})
	case CommandGetMonitors:
		return ok(MonitorsData{Monitors: s.handler.Status().Monitors})
	case CommandView:
		var p TagviewPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return result(s.handler.View(p.Monitor, p.Tagview))
	case CommandSend:
		var p TagviewPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return result(s.handler.Do(wm.Action{Name: wm.ActionSend, Tagview: p.Tagview}))
	case CommandCycle:
		return s.directional(req, wm.ActionFocusNext, wm.ActionFocusPrev)
	case CommandFocusMonitor:
		return s.directional(req, wm.ActionFocusMonitorNext, wm.ActionFocusMonitorPrev)
	case CommandSetLayout:
		var p LayoutPayload
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
		return result(s.handler.SetLayout(p))
	case CommandPromote:
		return result(s.handler.Do(wm.Action{Name: wm.ActionZoom}))
	case CommandToggleFloating:
		return result(s.handler.Do(wm.Action{Name: wm.ActionToggleFloating}))
	case CommandKill:
		return result(s.handler.Do(wm.Action{Name: wm.ActionKill}))
	case CommandReload:
		return result(s.handler.Do(wm.Action{Name: wm.ActionReload}))
	case CommandQuit:
		return result(s.handler.Do(wm.Action{Name: wm.ActionQuit}))
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) directional(req *Request, next, prev string) *Response {
	p := DirectionPayload{Direction: 1}
	if len(req.Payload) > 0 {
		if err := decodePayload(req.Payload, &p); err != nil {
			return NewErrorResponse(err.Error())
		}
	}
	name := next
	if p.Direction < 0 {
		name = prev
	}
	return result(s.handler.Do(wm.Action{Name: name}))
}

func ok(data interface{}) *Response {
	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func result(err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return ok(nil)
}

func (s *Server) send(conn net.Conn, resp *Response) {
	data, err := resp.Marshal()
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to marshal IPC response")
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.log.Debug().Err(err).Msg("failed to send IPC response")
	}
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
		s.wg.Wait()
	}
	os.Remove(s.socketPath)
}
