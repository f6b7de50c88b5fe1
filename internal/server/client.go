package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"touchdown/internal/game"
	"touchdown/internal/render"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 10 * time.Second
	writeWait  = 10 * time.Second
)

// StatusMessage is sent as a text frame whenever the session state changes.
type StatusMessage struct {
	Type    string   `json:"type"`
	Session string   `json:"session"`
	State   string   `json:"state"`
	Lines   []string `json:"lines"`
}

// wsClient is one connected player with its own session.
type wsClient struct {
	id      string
	conn    *websocket.Conn
	session *game.Session
	done    chan struct{}

	mu      sync.Mutex
	pending game.Controls
}

// mergeControls folds an input message into the pending controls. Held keys
// take the latest value, one-shot actions stay set until consumed and mouse
// movement accumulates.
func mergeControls(dst *game.Controls, src game.Controls) {
	dst.Forward = src.Forward
	dst.Back = src.Back
	dst.TurnLeft = src.TurnLeft
	dst.TurnRight = src.TurnRight
	dst.MouseDX += src.MouseDX

	dst.Start = dst.Start || src.Start
	dst.ToggleMap = dst.ToggleMap || src.ToggleMap
	dst.ToggleTexture = dst.ToggleTexture || src.ToggleTexture
	dst.PauseMusic = dst.PauseMusic || src.PauseMusic
	dst.Quit = dst.Quit || src.Quit
}

// take returns the pending controls and clears everything but held keys.
func (c *wsClient) take() game.Controls {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.pending
	c.pending = game.Controls{
		Forward:   out.Forward,
		Back:      out.Back,
		TurnLeft:  out.TurnLeft,
		TurnRight: out.TurnRight,
	}
	return out
}

func (s *FrameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	sess := s.newSession()
	c := &wsClient{
		id:      sess.ID,
		conn:    conn,
		session: sess,
		done:    make(chan struct{}),
	}
	s.registerClient(c)
	log.Printf("Client %s: connected", c.id)

	go c.writePump(s)
	c.readPump(s)
}

// readPump decodes control messages until the connection fails.
func (c *wsClient) readPump(s *FrameServer) {
	defer func() {
		s.unregisterClient(c)
		close(c.done)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Client %s: unexpected close: %v", c.id, err)
			}
			return
		}
		var ctrl game.Controls
		if err := json.Unmarshal(message, &ctrl); err != nil {
			log.Printf("Client %s: bad control message: %v", c.id, err)
			continue
		}
		c.mu.Lock()
		mergeControls(&c.pending, ctrl)
		c.mu.Unlock()
	}
}

// writePump runs the session at the configured rate, streaming each frame
// as a binary PNG message.
func (c *wsClient) writePump(s *FrameServer) {
	fps := s.cfg.Server.FPS
	if fps <= 0 {
		fps = 15
	}
	tick := time.Second / time.Duration(fps)
	frameTicker := time.NewTicker(tick)
	pingTicker := time.NewTicker(pingPeriod)
	defer func() {
		frameTicker.Stop()
		pingTicker.Stop()
		c.conn.Close()
	}()

	fb := render.NewFramebuffer(s.cfg.Server.FrameWidth, s.cfg.Server.FrameHeight)
	lastState := c.session.State()
	if err := c.sendStatus(); err != nil {
		return
	}

	for {
		select {
		case <-frameTicker.C:
			c.session.Update(c.take(), tick)
			if c.session.Quit() {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "quit"))
				return
			}
			if st := c.session.State(); st != lastState {
				lastState = st
				if err := c.sendStatus(); err != nil {
					return
				}
			}

			c.session.Render(fb)
			data, err := encodePNG(fb)
			if err != nil {
				log.Printf("Client %s: %v", c.id, err)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				log.Printf("Client %s: error sending frame: %v", c.id, err)
				return
			}

		case <-pingTicker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *wsClient) sendStatus() error {
	msg := StatusMessage{
		Type:    "status",
		Session: c.id,
		State:   c.session.State().String(),
		Lines:   c.session.StatusLines(),
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(msg); err != nil {
		log.Printf("Client %s: error sending status: %v", c.id, err)
		return err
	}
	return nil
}
