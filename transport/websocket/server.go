package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

var ErrUnknownAction = errors.New("unknown action")

type gameManager interface {
	Connect(ctx context.Context, sessionID string) (string, entity.Game)
	MakeMove(ctx context.Context, sessionID string, cell int) (entity.Game, error)
	ResetGame(ctx context.Context, sessionID string) entity.Game
	ChangeGameMode(ctx context.Context, sessionID, mode string) (entity.Game, error)
	ChangeAIDifficulty(ctx context.Context, sessionID, difficulty string) (entity.Game, error)
	State(ctx context.Context, sessionID string) entity.Game
}

// session holds the per-connection state: which game session the client
// bound itself to with the connect action.
type session struct {
	id string
}

type Server struct {
	logger *slog.Logger
	games  gameManager

	handlers map[string]func(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error
}

func New(logger *slog.Logger, games gameManager) *Server {
	server := &Server{
		logger: logger,
		games:  games,

		handlers: make(map[string]func(context.Context, *session, *Message, *bufio.ReadWriter) error),
	}

	server.handlers["connect"] = server.handleConnect
	server.handlers["game:move"] = server.handleMove
	server.handlers["game:reset"] = server.handleReset
	server.handlers["game:mode"] = server.handleMode
	server.handlers["game:difficulty"] = server.handleDifficulty
	server.handlers["game:state"] = server.handleState

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			that.logger.Error("failed to shut down server", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking", "error", http.StatusText(http.StatusInternalServerError))
		return
	}

	conn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer conn.Close()

	log.Info("WebSocket connection established")

	if err = that.handleMessages(ctx, bufrw); err != nil {
		log.Error("error handling messages", "error", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, bufrw *bufio.ReadWriter) error {
	log := that.logger.With("method", "handleMessages")

	sess := &session{}

	for {
		reqBody, err := that.readRequest(bufrw)
		if err != nil {
			log.Error("error reading message", "error", err)
			return err
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		if err = that.processMessage(ctx, sess, &message, bufrw); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) processMessage(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	handler, ok := that.handlers[message.Action]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownAction, message.Action)
	}

	return handler(ctx, sess, message, bufrw)
}
