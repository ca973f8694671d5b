package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lookbusy1344/rv64-emulator/vm"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return isAllowedOrigin(r.Header.Get("Origin")) },
}

// hartSnapshot is the wire format pushed to stream clients and served at
// /state: the full architectural state needed to render the machine.
type hartSnapshot struct {
	PC     uint64     `json:"pc"`
	Xregs  [32]uint64 `json:"xregs"`
	Cycles uint64     `json:"cycles"`
}

func snapshotOf(m *vm.Machine) hartSnapshot {
	snap := hartSnapshot{PC: m.Hart.PC(), Cycles: m.Cycles}
	for i := range snap.Xregs {
		snap.Xregs[i] = m.Hart.Xreg(uint32(i))
	}
	return snap
}

// hub fans a snapshot out to every connected stream client. A client whose
// buffer is full misses that snapshot (it stays connected) rather than
// blocking the run loop that calls broadcast.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]chan hartSnapshot
}

func newHub() *hub {
	return &hub{clients: make(map[*websocket.Conn]chan hartSnapshot)}
}

func (h *hub) add(conn *websocket.Conn) chan hartSnapshot {
	ch := make(chan hartSnapshot, 16)
	h.mu.Lock()
	h.clients[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.clients[conn]; ok {
		close(ch)
		delete(h.clients, conn)
	}
	h.mu.Unlock()
}

func (h *hub) broadcast(snap hartSnapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.clients {
		select {
		case ch <- snap:
		default:
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, ch := range h.clients {
		close(ch)
		_ = conn.Close()
	}
	h.clients = make(map[*websocket.Conn]chan hartSnapshot)
}

// handleStream upgrades to a WebSocket and pushes a snapshot to the client
// every time Server.Broadcast is called, until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	ch := s.hub.add(conn)
	go s.readUntilClosed(conn)

	defer func() {
		s.hub.remove(conn)
		_ = conn.Close()
	}()

	for snap := range ch {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}

// readUntilClosed discards client messages and returns once a read fails.
// A pong from the client extends the read deadline by pongWait; the server
// sends no pings and sets no initial deadline, so an idle connection is
// never timed out here.
func (s *Server) readUntilClosed(conn *websocket.Conn) {
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
