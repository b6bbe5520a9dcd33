// file: websocket/connection_test.go
package websocket

import (
	"errors"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPump_UnregistersOnError(t *testing.T) {
	hub := NewHub()
	fc := &fakeConn{readErr: errors.New("connection reset")}
	c := newConnection(hub, fc, 1, 10, 100)
	hub.register(c)

	c.readPump()

	assert.Zero(t, hub.RoomSize(100))
	assert.True(t, fc.closed)
}

func TestWritePump_WritesThenClosesOnUnregister(t *testing.T) {
	hub := NewHub()
	fc := &fakeConn{}
	c := newConnection(hub, fc, 1, 10, 100)
	hub.register(c)

	done := make(chan struct{})
	go func() {
		c.writePump()
		close(done)
	}()

	c.send <- []byte(`{"action":"chatMessage"}`)
	require.Eventually(t, func() bool { return len(fc.messageTypes()) == 1 }, time.Second, 5*time.Millisecond)

	hub.unregister(c)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writePump did not return after the send channel closed")
	}

	assert.Equal(t, []int{websocket.TextMessage, websocket.CloseMessage}, fc.messageTypes())
}
