package net

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"HandwritingBoard/internal/state"
)

func TestPadRoundTrip(t *testing.T) {
	pm := NewPeerManager(nil)
	got := make(chan PadMessage, 4)
	pm.OnMessage = func(_ string, m PadMessage) { got <- m }

	srv := httptest.NewServer(pm.Handler())
	defer srv.Close()

	link := LinkScheme + srv.Listener.Addr().String()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := DialPad(ctx, link)
	require.NoError(t, err)

	require.NoError(t, client.Send(PadMessage{Type: "hello"}))
	require.NoError(t, client.Send(PadMessage{Type: MsgPointer, Kind: "down", X: 0.5, Y: 0.25}))

	select {
	case m := <-got:
		assert.Equal(t, MsgPointer, m.Type, "unknown message types are dropped")
		assert.Equal(t, state.PointerInput{Kind: state.PointerDown, X: 400, Y: 150},
			m.Pointer(state.Size{Width: 800, Height: 600}))
	case <-time.After(5 * time.Second):
		t.Fatal("no message received")
	}
	assert.Equal(t, 1, pm.Count())

	require.NoError(t, client.Close())
	assert.Eventually(t, func() bool { return pm.Count() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestTouchMapping(t *testing.T) {
	m := PadMessage{Type: MsgTouch, Kind: "move", Touches: []state.Touch{
		{ID: 1, X: 0, Y: 0},
		{ID: 2, X: 1.5, Y: 0.5},
	}}
	ev := m.Touch(state.Size{Width: 200, Height: 100})
	assert.Equal(t, state.TouchMove, ev.Phase)
	require.Len(t, ev.Touches, 2)
	assert.Equal(t, state.Touch{ID: 2, X: 200, Y: 50}, ev.Touches[1], "coordinates are clamped to the surface")
}

func TestParseLink(t *testing.T) {
	addr, err := ParseLink("inkboard://192.168.1.4:8888/")
	require.NoError(t, err)
	assert.Equal(t, "192.168.1.4:8888", addr)

	assert.Equal(t, "inkboard://10.0.0.2:9000", ShareLink("10.0.0.2", 9000))

	_, err = ParseLink("http://example.com")
	assert.Error(t, err)
	_, err = ParseLink("inkboard://nohost")
	assert.Error(t, err)
}

func TestDialPadRejectsBadLink(t *testing.T) {
	_, err := DialPad(context.Background(), "localboard://1.2.3.4:1")
	assert.Error(t, err)
}
