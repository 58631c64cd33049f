package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vyrodovalexey/rental-inventory/internal/model"
	"github.com/vyrodovalexey/rental-inventory/internal/notify"
)

// WebSocket configuration constants.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// ToastSource is the notification queue the feed mirrors.
type ToastSource interface {
	List() []model.Toast
	Subscribe() (<-chan notify.Event, func())
}

// WebSocketHandler streams toast changes to connected pages.
type WebSocketHandler struct {
	source   ToastSource
	upgrader websocket.Upgrader
	logger   *zap.Logger
	mu       sync.RWMutex
	clients  map[*websocket.Conn]context.CancelFunc
}

// NewWebSocketHandler creates a new WebSocketHandler instance.
func NewWebSocketHandler(source ToastSource, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:  logger,
		clients: make(map[*websocket.Conn]context.CancelFunc),
	}
}

// RegisterRoutes registers the WebSocket routes with the router.
func (h *WebSocketHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.HandleWebSocket).Methods(http.MethodGet)
}

// HandleWebSocket upgrades the connection and starts streaming toasts.
//
//nolint:contextcheck // the connection outlives the upgrade request
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("failed to upgrade connection", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	h.mu.Lock()
	h.clients[conn] = cancel
	h.mu.Unlock()

	// Subscribe before taking the snapshot so no change is missed; the page
	// script ignores toasts it already shows.
	events, unsubscribe := h.source.Subscribe()
	snapshot := h.source.List()

	h.logger.Info("websocket client connected", zap.String("remote_addr", conn.RemoteAddr().String()))

	go h.writePump(ctx, conn, snapshot, events, unsubscribe)
	go h.readPump(ctx, conn, cancel)
}

// readPump consumes client frames so pongs and close frames are processed.
func (h *WebSocketHandler) readPump(ctx context.Context, conn *websocket.Conn, cancel context.CancelFunc) {
	defer func() {
		cancel()
		h.removeClient(conn)
		if err := conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		h.logger.Error("failed to set read deadline", zap.Error(err))
		return
	}

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, message, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					h.logger.Warn("websocket read error", zap.Error(err))
				}
				return
			}
			h.logger.Debug("received message", zap.ByteString("message", message))
		}
	}
}

// writePump sends the current toasts, then every queue change, until the
// connection or the queue goes away.
func (h *WebSocketHandler) writePump(
	ctx context.Context,
	conn *websocket.Conn,
	snapshot []model.Toast,
	events <-chan notify.Event,
	unsubscribe func(),
) {
	pingTicker := time.NewTicker(pingPeriod)

	defer func() {
		pingTicker.Stop()
		unsubscribe()
	}()

	for _, toast := range snapshot {
		if err := h.sendMessage(conn, model.NewToastMessage(model.WSMessageTypeToastAdded, toast)); err != nil {
			h.logger.Debug("failed to send toast snapshot", zap.Error(err))
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			h.sendCloseMessage(conn)
			return
		case ev, ok := <-events:
			if !ok {
				h.sendCloseMessage(conn)
				return
			}
			if err := h.sendMessage(conn, toastMessage(ev)); err != nil {
				h.logger.Debug("failed to send toast event", zap.Error(err))
				return
			}
		case <-pingTicker.C:
			if err := h.sendPing(conn); err != nil {
				h.logger.Debug("failed to send ping", zap.Error(err))
				return
			}
		}
	}
}

func toastMessage(ev notify.Event) model.WebSocketMessage {
	msgType := model.WSMessageTypeToastAdded
	if ev.Kind == notify.EventRemoved {
		msgType = model.WSMessageTypeToastRemoved
	}
	return model.NewToastMessage(msgType, ev.Toast)
}

func (h *WebSocketHandler) sendMessage(conn *websocket.Conn, msg model.WebSocketMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (h *WebSocketHandler) sendPing(conn *websocket.Conn) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *WebSocketHandler) sendCloseMessage(conn *websocket.Conn) {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		h.logger.Debug("failed to set write deadline for close", zap.Error(err))
		return
	}

	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "server shutting down")
	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		h.logger.Debug("failed to send close message", zap.Error(err))
	}
}

func (h *WebSocketHandler) removeClient(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cancel, exists := h.clients[conn]; exists {
		cancel()
		delete(h.clients, conn)
		h.logger.Info("websocket client disconnected", zap.String("remote_addr", conn.RemoteAddr().String()))
	}
}

// ClientCount returns the number of connected clients.
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseAllConnections closes all active WebSocket connections.
func (h *WebSocketHandler) CloseAllConnections() {
	h.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(h.clients))
	for _, cancel := range h.clients {
		cancels = append(cancels, cancel)
	}
	h.mu.Unlock()

	// Cancelling lets each writePump send its close frame.
	for _, cancel := range cancels {
		cancel()
	}

	time.Sleep(100 * time.Millisecond)

	h.mu.Lock()
	for conn := range h.clients {
		if err := conn.Close(); err != nil {
			h.logger.Debug("error closing connection", zap.Error(err))
		}
		delete(h.clients, conn)
	}
	h.mu.Unlock()

	h.logger.Info("all websocket connections closed")
}
