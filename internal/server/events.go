package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // token auth runs before the upgrade
	},
}

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Event is pushed to websocket clients.
type Event struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

const EventImagesInvalidated = "images.invalidated"

// events streams image cache invalidations. The current token is sent on
// connect so clients can compare it with what they hold.
func (s *Server) events(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		c.Logger().Errorf("websocket upgrade: %v", err)
		return nil
	}
	defer conn.Close()

	updates, cancel := s.app.Signal.Subscribe()
	defer cancel()

	// Reader goroutine: notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(token string) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(Event{Type: EventImagesInvalidated, Token: token})
	}
	if err := send(s.app.Signal.Token()); err != nil {
		return nil
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case token, ok := <-updates:
			if !ok {
				return nil
			}
			if err := send(token); err != nil {
				c.Logger().Debugf("websocket write: %v", err)
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case <-closed:
			return nil
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
