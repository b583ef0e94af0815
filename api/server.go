// Package api is the protocol adapter: it owns the websocket endpoint and
// translates connection events into engine operations and engine output into
// wire frames. Nothing in here mutates game state directly.
package api

import (
	"fmt"
	"math/rand"
	"net/http"

	"github.com/TurbsaDurps/MultiplayerMazeGame/service"
	"github.com/TurbsaDurps/MultiplayerMazeGame/service/i"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Server terminates websocket connections for the game engine.
type Server struct {
	directory i.SessionDirectory
	auth      i.Authenticator
	abilities i.AbilityProvider
	hub       *Hub
	upgrader  websocket.Upgrader
	logger    logrus.FieldLogger
}

// ServerConfig carries the server's collaborators.
type ServerConfig struct {
	Directory i.SessionDirectory
	Auth      i.Authenticator
	Abilities i.AbilityProvider
	Hub       *Hub
	Logger    logrus.FieldLogger
}

// NewServer wires a websocket server to the engine.
func NewServer(c *ServerConfig) (*Server, error) {
	if c.Directory == nil || c.Auth == nil || c.Abilities == nil || c.Hub == nil {
		return nil, fmt.Errorf("server config is missing a dependency")
	}
	logger := c.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		directory: c.Directory,
		auth:      c.Auth,
		abilities: c.Abilities,
		hub:       c.Hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}, nil
}

// HandleWS authenticates, upgrades and runs one connection. Query parameters:
// token (required), room (optional explicit room id), name (optional display
// name override). The connection joins its room before any frame is read and
// leaves it when the socket drops, identically to an explicit leave.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	playerID, name, err := s.auth.Authenticate(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}
	if n := r.URL.Query().Get("name"); n != "" {
		name = n
	}

	roomID := uuid.Nil
	if raw := r.URL.Query().Get("room"); raw != "" {
		// Unknown or malformed room ids fall back to join-or-create.
		roomID, _ = uuid.Parse(raw)
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WithError(err).Warn("websocket upgrade failed")
		return
	}

	color := fmt.Sprintf("#%06x", rand.Intn(0xFFFFFF))
	res, err := s.directory.Join(playerID, name, color, roomID, s.abilities.StartingAbilities(playerID))
	if err != nil {
		s.rejectJoin(conn, err)
		return
	}

	client := newClient(conn, playerID, res.Room.ID, s.logger)
	s.hub.Register(client)
	go client.writePump()

	snap := res.Room.Snapshot()
	joined, err := marshalEnvelope(msgJoined, joinedPayload{
		RoomID:      res.Room.ID,
		PlayerID:    playerID,
		Maze:        newMazePayload(res.Room.Maze()),
		Checkpoints: snap.Checkpoints,
		Abilities:   res.Player.Abilities,
	})
	if err != nil {
		s.logger.WithError(err).Error("marshaling join reply")
	} else {
		client.trySend(joined)
	}

	client.readPump(s.dispatch)

	s.hub.Unregister(client)
	close(client.send)
	s.directory.Leave(playerID)
}

// dispatch routes one inbound frame. Returns false when the connection should
// end.
func (s *Server) dispatch(c *Client, msg clientMessage) bool {
	switch msg.Type {
	case msgReady:
		s.directory.SetReady(c.playerID)
	case msgMove:
		s.directory.Move(c.playerID, service.Position{X: msg.X, Y: msg.Y}, msg.Angle)
	case msgUseAbility:
		s.directory.UseAbility(c.playerID, msg.AbilityID, service.Position{X: msg.TargetX, Y: msg.TargetY})
	case msgLeave:
		return false
	default:
		c.logger.WithField("type", msg.Type).Warn("unknown message type")
	}
	return true
}

// rejectJoin reports a failed join on the fresh connection and closes it.
func (s *Server) rejectJoin(conn *websocket.Conn, cause error) {
	payload := errorPayload{Message: cause.Error(), Category: "join"}
	if data, err := marshalEnvelope(msgError, payload); err == nil {
		_ = conn.WriteMessage(websocket.TextMessage, data)
	}
	_ = conn.Close()
}
