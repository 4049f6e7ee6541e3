package websocket

import (
	"context"
	"encoding/json"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const writeTimeout = 10 * time.Second

// connection is one accepted socket. matchID is owned by the dispatch loop.
type connection struct {
	id      string
	send    chan Message
	cancel  context.CancelFunc
	matchID string
}

func newConnection(id string, buffer int, cancel context.CancelFunc) *connection {
	return &connection{
		id:     id,
		send:   make(chan Message, buffer),
		cancel: cancel,
	}
}

// readLoop forwards every inbound frame to the dispatch loop until the socket fails.
func (that *Server) readLoop(ctx context.Context, ws *websocket.Conn, conn *connection) {
	log := that.logger.With("method", "readLoop", "connection_id", conn.id)

	for {
		typ, data, err := ws.Read(ctx)
		if err != nil {
			if status := websocket.CloseStatus(err); status == -1 && ctx.Err() == nil {
				log.Debug("connection read failed", "error", err)
			}
			return
		}

		ev := event{kind: eventMessage, conn: conn}
		if typ != websocket.MessageText || json.Unmarshal(data, &ev.msg) != nil || ev.msg.Action == "" {
			ev.malformed = true
		}

		if !that.push(ev) {
			return
		}
	}
}

// writeLoop drains the outbound queue onto the socket.
func (that *Server) writeLoop(ctx context.Context, ws *websocket.Conn, conn *connection) {
	log := that.logger.With("method", "writeLoop", "connection_id", conn.id)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-conn.send:
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(writeCtx, ws, msg)
			cancel()

			if err != nil {
				log.Debug("failed to write message", "action", msg.Action, "error", err)
				conn.cancel()
				return
			}
		}
	}
}

// enqueue never blocks the dispatch loop; a connection that cannot keep up is dropped.
func (that *Server) enqueue(conn *connection, action string, payload any) {
	log := that.logger.With("method", "enqueue", "connection_id", conn.id)

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Error("failed to marshal payload", "action", action, "error", err)
		return
	}

	select {
	case conn.send <- Message{Action: action, Payload: raw}:
	default:
		log.Warn("outbound queue is full, dropping connection", "action", action)
		conn.cancel()
	}
}

func (that *Server) broadcast(matchID, action string, payload any) {
	for _, conn := range that.rooms[matchID] {
		that.enqueue(conn, action, payload)
	}
}

func (that *Server) bind(conn *connection, matchID string) {
	conn.matchID = matchID

	room, ok := that.rooms[matchID]
	if !ok {
		room = make(map[string]*connection)
		that.rooms[matchID] = room
	}
	room[conn.id] = conn
}

func (that *Server) unbind(conn *connection) {
	room, ok := that.rooms[conn.matchID]
	if !ok {
		return
	}

	delete(room, conn.id)
	if len(room) == 0 {
		delete(that.rooms, conn.matchID)
	}
}
