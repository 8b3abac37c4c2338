package handlers

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWSConn records written frames for inspection.
type fakeWSConn struct {
	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func (f *fakeWSConn) WriteMessage(messageType int, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeWSConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeWSConn) frameCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.frames)
}

func (f *fakeWSConn) messages(t *testing.T) []WSMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	msgs := make([]WSMessage, len(f.frames))
	for i, frame := range f.frames {
		require.NoError(t, json.Unmarshal(frame, &msgs[i]))
	}
	return msgs
}

func TestSendWSMessageEnvelope(t *testing.T) {
	conn := &fakeWSConn{}
	sendWSMessage(conn, "pong", nil)

	msgs := conn.messages(t)
	require.Len(t, msgs, 1)
	assert.Equal(t, "pong", msgs[0].Type)
}

func TestStreamDashboardAnswersPingsFromWriterLoop(t *testing.T) {
	conn := &fakeWSConn{}
	pings := make(chan struct{}, 1)
	done := make(chan struct{})

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		streamDashboard(conn, nil, pings, done)
	}()

	pings <- struct{}{}
	require.Eventually(t, func() bool {
		return conn.frameCount() == 1
	}, time.Second, 10*time.Millisecond)

	pings <- struct{}{}
	require.Eventually(t, func() bool {
		return conn.frameCount() == 2
	}, time.Second, 10*time.Millisecond)

	for _, msg := range conn.messages(t) {
		assert.Equal(t, "pong", msg.Type)
	}

	close(done)
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("writer loop did not stop when the reader hung up")
	}
}
