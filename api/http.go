package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	general_i "github.com/beka-birhanu/vinom-common/interfaces/general"
	"github.com/beka-birhanu/vinom-maze3d/gameencoder"
	"github.com/beka-birhanu/vinom-maze3d/service"
	"github.com/beka-birhanu/vinom-maze3d/service/i"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
)

const (
	wsReadLimit    = 1 << 16
	wsPongWait     = 60 * time.Second
	wsPingInterval = 25 * time.Second
	wsWriteWait    = 10 * time.Second
)

// HTTPConfig holds the dependencies of an HTTPServer.
type HTTPConfig struct {
	GameSessionManager i.GameSessionManager
	Logger             general_i.Logger
	// ActionDecoder must match the encoder the session manager publishes with.
	ActionDecoder service.Encoder
	// MessageType is the websocket frame type for snapshots.
	MessageType int
	CheckOrigin func(r *http.Request) bool
}

// HTTPServer exposes sessions over REST and websockets.
type HTTPServer struct {
	router             *way.Router
	gameSessionManager i.GameSessionManager
	logger             general_i.Logger
	decoder            service.Encoder
	messageType        int
	upgrader           websocket.Upgrader
}

func NewHTTPServer(c *HTTPConfig) (*HTTPServer, error) {
	if c.GameSessionManager == nil {
		return nil, errors.New("nil game session manager")
	}
	if c.Logger == nil {
		return nil, service.ErrMissingLogger
	}
	decoder := c.ActionDecoder
	if decoder == nil {
		decoder = &gameencoder.JSON{}
	}
	messageType := c.MessageType
	if messageType == 0 {
		messageType = websocket.TextMessage
	}

	s := &HTTPServer{
		gameSessionManager: c.GameSessionManager,
		logger:             c.Logger,
		decoder:            decoder,
		messageType:        messageType,
		upgrader:           websocket.Upgrader{CheckOrigin: c.CheckOrigin},
	}
	s.routes()
	return s, nil
}

func (s *HTTPServer) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("POST", "/sessions", s.handleNewSession)
	s.router.HandleFunc("GET", "/sessions/:id", s.handleSnapshot)
	s.router.HandleFunc("GET", "/sessions/:id/ws", s.handleWebsocket)
	s.router.HandleFunc("DELETE", "/sessions/:id", s.handleCloseSession)
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) handleNewSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.gameSessionManager.NewSession()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"sessionId": id.String()})
}

func (s *HTTPServer) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	snap, err := s.gameSessionManager.Snapshot(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, gameencoder.FromSnapshot(snap))
}

func (s *HTTPServer) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	if err := s.gameSessionManager.CloseSession(id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleWebsocket pushes every published snapshot to the client and
// dispatches the actions it sends. Rejected actions are answered with an
// error frame and do not close the connection.
func (s *HTTPServer) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	updates, cancel, err := s.gameSessionManager.Subscribe(id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warning(fmt.Sprintf("upgrading %s: %s", id, err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	ctx, stop := context.WithCancel(r.Context())
	defer stop()
	errs := make(chan []byte, 1)
	go s.readPump(ctx, stop, conn, id, errs)

	// Initial state, so clients do not wait for the next change.
	if snap, err := s.gameSessionManager.Snapshot(ctx, id); err == nil {
		if b, err := encodeFrame(s.messageType, snap); err == nil {
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(s.messageType, b); err != nil {
				return
			}
		}
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()
	for {
		var (
			msgType = s.messageType
			payload []byte
		)
		select {
		case <-ctx.Done():
			return
		case b, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(wsWriteWait))
				return
			}
			payload = b
		case b := <-errs:
			msgType, payload = websocket.TextMessage, b
		case <-ping.C:
			msgType = websocket.PingMessage
		}
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteMessage(msgType, payload); err != nil {
			s.logger.Warning(fmt.Sprintf("writing to %s: %s", id, err))
			return
		}
	}
}

func (s *HTTPServer) readPump(ctx context.Context, stop context.CancelFunc, conn *websocket.Conn, id uuid.UUID, errs chan<- []byte) {
	defer stop()
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warning(fmt.Sprintf("reading from %s: %s", id, err))
			}
			return
		}
		a, err := s.decoder.UnmarshalAction(msg)
		if err == nil {
			err = s.gameSessionManager.Dispatch(ctx, id, a)
		}
		if err != nil {
			b, _ := json.Marshal(map[string]string{"error": err.Error()})
			select {
			case errs <- b:
			default:
			}
		}
	}
}

// encodeFrame renders the initial snapshot in the same form as published ones.
func encodeFrame(messageType int, snap service.Snapshot) ([]byte, error) {
	if messageType == websocket.BinaryMessage {
		return (&gameencoder.Msgpack{}).MarshalSnapshot(snap)
	}
	return (&gameencoder.JSON{}).MarshalSnapshot(snap)
}

func (s *HTTPServer) sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(way.Param(r.Context(), "id"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("parsing session id: %s", err)})
		return uuid.Nil, false
	}
	return id, true
}

func (s *HTTPServer) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrGameStopped):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrTooManySessions):
		code = http.StatusServiceUnavailable
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrNoMaze), errors.Is(err, service.ErrNotAtExit):
		code = http.StatusConflict
	}
	if code == http.StatusInternalServerError {
		s.logger.Error(err.Error())
	}
	s.writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warning(fmt.Sprintf("writing response: %s", err))
	}
}
