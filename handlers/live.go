// handlers/live.go - WebSocket fan-out of session and lock state
package handlers

import (
	"log"
	"strconv"
	"sync"
	"time"

	"codeclash/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second // Time allowed to write a message
	pingPeriod = 15 * time.Second // Send pings at this interval

	// Send channel buffer size. A consumer that falls this far behind is
	// dropped rather than back-pressuring a lifecycle transition.
	sendBufferSize = 64
)

// LiveMessage is the tagged envelope every broadcast uses. Seq is a
// monotonically increasing per-challenge sequence number; clients keep the
// highest Seq they have seen and discard anything older, so a pause can
// never be observed after a later resume on a slow connection.
type LiveMessage struct {
	Type    string                 `json:"type"`
	Seq     uint64                 `json:"seq"`
	Payload map[string]interface{} `json:"payload"`
}

// liveClient is one connected session (participant editor or admin monitor).
type liveClient struct {
	sessionID     string
	challengeID   uint
	participantID uint // 0 for admin monitors
	isAdmin       bool
	send          chan LiveMessage
	closeOnce     sync.Once
}

func (c *liveClient) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// Hub is the per-challenge broadcast registry. It is a notification layer
// over authoritative state in the store, not a log of record: nothing is
// durable here, and reconnecting clients re-fetch state over REST.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uint]map[*liveClient]struct{}
	seqs     map[uint]uint64
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[uint]map[*liveClient]struct{}),
		seqs:     make(map[uint]uint64),
	}
}

var _ services.Broadcaster = (*Hub)(nil)

func (h *Hub) register(c *liveClient) {
	h.mu.Lock()
	if h.sessions[c.challengeID] == nil {
		h.sessions[c.challengeID] = make(map[*liveClient]struct{})
	}
	h.sessions[c.challengeID][c] = struct{}{}
	total := len(h.sessions[c.challengeID])
	h.mu.Unlock()

	log.Printf("🔌 Session %s connected to challenge %d (admin=%v, total=%d)", c.sessionID, c.challengeID, c.isAdmin, total)
}

func (h *Hub) unregister(c *liveClient) {
	h.mu.Lock()
	if clients, ok := h.sessions[c.challengeID]; ok {
		if _, present := clients[c]; present {
			delete(clients, c)
			c.close()
		}
		if len(clients) == 0 {
			delete(h.sessions, c.challengeID)
		}
	}
	h.mu.Unlock()

	log.Printf("🔌 Session %s disconnected from challenge %d", c.sessionID, c.challengeID)
}

// Publish tags the message with the challenge's next sequence number and
// fans it out. Sends never block: a client whose buffer is full is dropped
// from the broadcast set on the spot. Delivery is best-effort by design;
// state-machine correctness never depends on it.
func (h *Hub) Publish(challengeID uint, msgType string, payload map[string]interface{}) {
	h.mu.Lock()
	h.seqs[challengeID]++
	msg := LiveMessage{Type: msgType, Seq: h.seqs[challengeID], Payload: payload}

	var dropped []*liveClient
	for c := range h.sessions[challengeID] {
		select {
		case c.send <- msg:
		default:
			dropped = append(dropped, c)
		}
	}
	for _, c := range dropped {
		delete(h.sessions[challengeID], c)
		c.close()
		log.Printf("⚠️ Dropped slow client on challenge %d (buffer full, type=%s)", challengeID, msgType)
	}
	h.mu.Unlock()
}

// clientCount is used by tests and the debug endpoint.
func (h *Hub) clientCount(challengeID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[challengeID])
}

// UpgradeGuard rejects plain HTTP requests on websocket routes before the
// upgrade handler runs.
func UpgradeGuard(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveSocket returns the websocket handler for /ws/challenges/:id. The auth
// middleware has already stashed the caller's role in Locals; admins may
// watch any challenge, participants only their own.
func LiveSocket(hub *Hub) func(*websocket.Conn) {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		challengeID64, err := strconv.ParseUint(conn.Params("id"), 10, 32)
		if err != nil {
			return
		}
		challengeID := uint(challengeID64)

		isAdmin, _ := conn.Locals("isAdmin").(bool)
		var participantID uint
		if !isAdmin {
			pid, ok := conn.Locals("participantId").(uint)
			if !ok {
				return
			}
			ownChallenge, _ := conn.Locals("challengeId").(uint)
			if ownChallenge != challengeID {
				return
			}
			participantID = pid
		}

		client := &liveClient{
			sessionID:     uuid.NewString(),
			challengeID:   challengeID,
			participantID: participantID,
			isAdmin:       isAdmin,
			send:          make(chan LiveMessage, sendBufferSize),
		}
		hub.register(client)
		defer hub.unregister(client)

		done := make(chan struct{})
		go writePump(conn, client, done)
		readPump(conn, client)
		close(done)
	}
}

// readPump consumes client messages until disconnect. Participants may report
// focus violations over the socket; it shares the exact code path with the
// REST endpoint. Everything else is ignored except ping.
func readPump(conn *websocket.Conn, client *liveClient) {
	for {
		var msg struct {
			Type string `json:"type"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "violation":
			if client.isAdmin || client.participantID == 0 {
				continue
			}
			if _, _, err := violationService.RecordViolation(client.participantID); err != nil {
				log.Printf("⚠️ WS violation report failed for participant %d: %v", client.participantID, err)
			}
		case "ping":
			// Latency probe; answered outside the sequenced stream.
			_ = conn.WriteJSON(LiveMessage{Type: "pong"})
		}
	}
}

// writePump drains the client's send channel onto the wire and keeps the
// connection alive with periodic pings.
func writePump(conn *websocket.Conn, client *liveClient, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.send:
			if !ok {
				conn.Close()
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("❌ WS write failed: %v", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
