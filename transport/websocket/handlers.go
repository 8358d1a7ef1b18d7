package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/minigames-backend/internal/entity"
)

var ErrNotConnected = errors.New("session not established, send connect first")

func (that *Server) handleConnect(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	var payload ConnectPayload

	if len(message.Payload) > 0 {
		if err := json.Unmarshal(message.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal session info: %w", err)
		}
	}

	sessionID, game := that.games.Connect(ctx, payload.Session.ID)
	sess.id = sessionID

	if payload.Session.ID == sessionID {
		that.logger.Info("session reconnected", "sessionID", sessionID)
	} else {
		that.logger.Info("registered new session", "sessionID", sessionID)
	}

	return that.respondGame(bufrw, message.Action, sess, game)
}

func (that *Server) handleMove(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	if sess.id == "" {
		return ErrNotConnected
	}

	var payload MovePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal move: %w", err)
	}

	game, err := that.games.MakeMove(ctx, sess.id, payload.Cell)
	if err != nil {
		return that.respondError(ctx, bufrw, message.Action, sess, err)
	}

	return that.respondGame(bufrw, message.Action, sess, game)
}

func (that *Server) handleReset(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	if sess.id == "" {
		return ErrNotConnected
	}

	game := that.games.ResetGame(ctx, sess.id)

	return that.respondGame(bufrw, message.Action, sess, game)
}

func (that *Server) handleMode(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	if sess.id == "" {
		return ErrNotConnected
	}

	var payload ModePayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal mode: %w", err)
	}

	game, err := that.games.ChangeGameMode(ctx, sess.id, payload.Mode)
	if err != nil {
		return that.respondError(ctx, bufrw, message.Action, sess, err)
	}

	return that.respondGame(bufrw, message.Action, sess, game)
}

func (that *Server) handleDifficulty(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	if sess.id == "" {
		return ErrNotConnected
	}

	var payload DifficultyPayload
	if err := json.Unmarshal(message.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal difficulty: %w", err)
	}

	game, err := that.games.ChangeAIDifficulty(ctx, sess.id, payload.Difficulty)
	if err != nil {
		return that.respondError(ctx, bufrw, message.Action, sess, err)
	}

	return that.respondGame(bufrw, message.Action, sess, game)
}

func (that *Server) handleState(ctx context.Context, sess *session, message *Message, bufrw *bufio.ReadWriter) error {
	if sess.id == "" {
		return ErrNotConnected
	}

	game := that.games.State(ctx, sess.id)

	return that.respondGame(bufrw, message.Action, sess, game)
}

func (that *Server) respondGame(bufrw *bufio.ReadWriter, action string, sess *session, game entity.Game) error {
	payload := ResponsePayload{
		Session: SessionInfo{ID: sess.id},
		Game:    &game,
	}

	if err := that.sendMessage(bufrw, action, payload); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	return nil
}

// respondError - rejected input is routine client noise: the error goes back
// to the client together with the unchanged game state.
func (that *Server) respondError(ctx context.Context, bufrw *bufio.ReadWriter, action string, sess *session, reason error) error {
	game := that.games.State(ctx, sess.id)

	payload := ResponsePayload{
		Session: SessionInfo{ID: sess.id},
		Game:    &game,
		Error:   reason.Error(),
	}

	if err := that.sendMessage(bufrw, action, payload); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
