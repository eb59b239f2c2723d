package dashboard

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 512
)

// upgrader allows all origins: the dashboard binds to localhost unless
// --addr names another host, matching the teacher's own local-mode upgrader.
var upgrader = websocket.Upgrader{
	CheckOrigin:       func(*http.Request) bool { return true },
	EnableCompression: true,
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.logger.Error("dashboard: websocket upgrade failed", "err", err)
		return
	}
	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		d.logger.Error("dashboard: set read deadline", "err", err)
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	d.sendInitialState(conn)
	writeMu := d.registerClient(conn)

	done := make(chan struct{})
	d.clientWg.Add(2)
	go d.clientReadPump(conn, done)
	go d.clientWritePump(conn, done, writeMu)
}

func (d *Dashboard) sendInitialState(conn *websocket.Conn) {
	st, err := d.repo.ComputeStatus()
	if err != nil {
		d.logger.Error("dashboard: initial status failed", "err", err)
		return
	}
	log, err := d.commitLog(0)
	if err != nil {
		d.logger.Error("dashboard: initial log failed", "err", err)
		return
	}
	d.writeToClient(conn, Update{Status: st, Log: log})
}

func (d *Dashboard) registerClient(conn *websocket.Conn) *sync.Mutex {
	writeMu := &sync.Mutex{}
	d.clientsMu.Lock()
	d.clients[conn] = writeMu
	d.clientsMu.Unlock()
	d.logger.Info("dashboard: client connected", "addr", conn.RemoteAddr())
	return writeMu
}

func (d *Dashboard) removeClient(conn *websocket.Conn) {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	if _, ok := d.clients[conn]; ok {
		delete(d.clients, conn)
		_ = conn.Close()
	}
}

func (d *Dashboard) writeToClient(conn *websocket.Conn, msg Update) error {
	d.clientsMu.RLock()
	mu, ok := d.clients[conn]
	d.clientsMu.RUnlock()
	if !ok {
		// Not yet registered (initial send); write without the shared lock.
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}
	mu.Lock()
	defer mu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func (d *Dashboard) broadcastUpdate(msg Update) {
	select {
	case d.broadcast <- msg:
	default:
		d.logger.Warn("dashboard: broadcast channel full, dropping update")
	}
}

func (d *Dashboard) handleBroadcast() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case msg := <-d.broadcast:
			d.sendToAllClients(msg)
		}
	}
}

func (d *Dashboard) sendToAllClients(msg Update) {
	d.clientsMu.RLock()
	snapshot := make([]*websocket.Conn, 0, len(d.clients))
	for conn := range d.clients {
		snapshot = append(snapshot, conn)
	}
	d.clientsMu.RUnlock()

	for _, conn := range snapshot {
		if err := d.writeToClient(conn, msg); err != nil {
			d.logger.Error("dashboard: broadcast to client failed", "addr", conn.RemoteAddr(), "err", err)
			d.removeClient(conn)
		}
	}
}

func (d *Dashboard) clientReadPump(conn *websocket.Conn, done chan struct{}) {
	defer d.clientWg.Done()
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (d *Dashboard) clientWritePump(conn *websocket.Conn, done chan struct{}, writeMu *sync.Mutex) {
	defer d.clientWg.Done()
	defer d.removeClient(conn)
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			writeMu.Lock()
			err := conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err == nil {
				err = conn.WriteMessage(websocket.PingMessage, nil)
			}
			writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
