// Package hub keeps the websocket connections of the admin live feed and
// pushes booking events to them.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/VitalijsFilipovs/booking-bot/models"
	"github.com/VitalijsFilipovs/booking-bot/services"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	EventTableUpdate    = "table_update"
	EventTableCreate    = "table_create"
	EventBookingDeleted = "booking_deleted"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client serializes writes to one connection; websocket connections take
// a single writer at a time.
type client struct {
	conn   Conn
	userID int64
	write  sync.Mutex
}

func (c *client) send(data []byte) error {
	c.write.Lock()
	defer c.write.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub holds the connected admin clients, keyed by connection.
type Hub struct {
	clients map[Conn]*client
	mutex   sync.Mutex
	log     logrus.FieldLogger
}

func New(log logrus.FieldLogger) *Hub {
	return &Hub{
		clients: make(map[Conn]*client),
		log:     log,
	}
}

func (h *Hub) Register(conn Conn, userID int64) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = &client{conn: conn, userID: userID}
	h.log.WithFields(logrus.Fields{"user_id": userID, "clients": len(h.clients)}).Info("feed client connected")
}

func (h *Hub) Unregister(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(conn)
}

func (h *Hub) drop(conn Conn) {
	if _, ok := h.clients[conn]; !ok {
		return
	}
	delete(h.clients, conn)
	conn.Close()
}

func (h *Hub) Clients() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

func (h *Hub) SinkName() string { return "feed" }

// Deliver forwards an outbox notification to every connected client.
func (h *Hub) Deliver(_ context.Context, n services.Notification) error {
	h.Broadcast(Message{Event: string(n.Kind), Data: n.Booking})
	return nil
}

func (h *Hub) BroadcastTableUpdate(table models.Table) {
	h.Broadcast(Message{Event: EventTableUpdate, Data: table})
}

func (h *Hub) BroadcastTableCreate(table models.Table) {
	h.Broadcast(Message{Event: EventTableCreate, Data: table})
}

func (h *Hub) BroadcastBookingDeleted(id uint) {
	h.Broadcast(Message{Event: EventBookingDeleted, Data: map[string]uint{"id": id}})
}

// Broadcast sends msg to all clients. Writes happen outside the hub lock,
// so a stalled client cannot hold up Register or Clients. A client that
// cannot be written to is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal feed message")
		return
	}

	h.mutex.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mutex.Unlock()

	if len(clients) == 0 {
		return
	}
	h.log.WithFields(logrus.Fields{"event": msg.Event, "clients": len(clients)}).Debug("broadcasting feed message")

	for _, c := range clients {
		if err := c.send(data); err != nil {
			h.log.WithError(err).WithField("user_id", c.userID).Warn("dropping feed client")
			h.Unregister(c.conn)
		}
	}
}
