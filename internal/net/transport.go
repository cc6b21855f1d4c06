package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"HandwritingBoard/internal/state"
)

const (
	// LinkScheme prefixes share links handed to remote pads.
	LinkScheme = "inkboard://"
	// PadPath is the websocket endpoint on the host.
	PadPath = "/pad"

	writeWait = 5 * time.Second
)

// Message types on the pad channel.
const (
	MsgPointer = "pointer"
	MsgTouch   = "touch"
)

// PadMessage is one input event from a remote pad. Coordinates are
// normalized to 0..1 of the pad surface so the host can map them onto any
// canvas size.
type PadMessage struct {
	Type    string        `json:"type"`
	Kind    string        `json:"kind,omitempty"`
	X       float64       `json:"x,omitempty"`
	Y       float64       `json:"y,omitempty"`
	Touches []state.Touch `json:"touches,omitempty"`
}

// Pointer maps a pointer message onto a canvas of the given logical size.
func (m PadMessage) Pointer(size state.Size) state.PointerInput {
	return state.PointerInput{
		Kind: state.PointerKind(m.Kind),
		X:    clamp01(m.X) * size.Width,
		Y:    clamp01(m.Y) * size.Height,
	}
}

// Touch maps a touch message onto a canvas of the given logical size.
func (m PadMessage) Touch(size state.Size) state.TouchEvent {
	ev := state.TouchEvent{Phase: state.TouchPhase(m.Kind)}
	for _, t := range m.Touches {
		ev.Touches = append(ev.Touches, state.Touch{
			ID: t.ID,
			X:  clamp01(t.X) * size.Width,
			Y:  clamp01(t.Y) * size.Height,
		})
	}
	return ev
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ShareLink builds the link a pad opens to reach this host.
func ShareLink(ip string, port int) string {
	return fmt.Sprintf("%s%s:%d", LinkScheme, ip, port)
}

// ParseLink returns the host:port part of a share link.
func ParseLink(link string) (string, error) {
	if !strings.HasPrefix(link, LinkScheme) {
		return "", fmt.Errorf("not a pad link: %q", link)
	}
	addr := strings.TrimSuffix(strings.TrimPrefix(link, LinkScheme), "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("bad pad address %q: %w", addr, err)
	}
	return addr, nil
}

// Peer is a connected remote pad.
type Peer struct {
	Addr string
	conn *websocket.Conn
}

// PeerManager is used by the host to accept and track remote pads.
type PeerManager struct {
	peers    map[string]*Peer
	mu       sync.RWMutex
	upgrader websocket.Upgrader
	logger   *slog.Logger

	// OnMessage is called from the peer's reader goroutine.
	OnMessage func(addr string, m PadMessage)
}

func NewPeerManager(logger *slog.Logger) *PeerManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &PeerManager{
		peers: make(map[string]*Peer),
		upgrader: websocket.Upgrader{
			// pads connect from other devices on the LAN
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Add registers a peer that just connected.
func (pm *PeerManager) Add(peer *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[peer.Addr] = peer
	pm.logger.Info("pad connected", "addr", peer.Addr)
}

func (pm *PeerManager) Remove(addr string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if _, ok := pm.peers[addr]; ok {
		delete(pm.peers, addr)
		pm.logger.Info("pad disconnected", "addr", addr)
	}
}

// Count returns the number of connected pads.
func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// ServeHTTP upgrades the request and reads pad messages until the peer goes away.
func (pm *PeerManager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := pm.upgrader.Upgrade(w, r, nil)
	if err != nil {
		pm.logger.Warn("pad upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	peer := &Peer{Addr: conn.RemoteAddr().String(), conn: conn}
	pm.Add(peer)
	defer func() {
		pm.Remove(peer.Addr)
		conn.Close()
	}()

	for {
		var msg PadMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				pm.logger.Warn("pad read failed", "addr", peer.Addr, "error", err)
			}
			return
		}
		if msg.Type != MsgPointer && msg.Type != MsgTouch {
			pm.logger.Debug("ignoring pad message", "addr", peer.Addr, "type", msg.Type)
			continue
		}
		if pm.OnMessage != nil {
			pm.OnMessage(peer.Addr, msg)
		}
	}
}

// Handler returns a mux serving the pad endpoint.
func (pm *PeerManager) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(PadPath, pm)
	return mux
}

// StartServer listens on port and serves pads in the background. The
// returned server is stopped with Shutdown.
func (pm *PeerManager) StartServer(port int) (*http.Server, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("listen on port %d: %w", port, err)
	}
	srv := &http.Server{Handler: pm.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pm.logger.Error("pad server stopped", "error", err)
		}
	}()
	pm.logger.Info("pad server listening", "port", port)
	return srv, nil
}

// CloseAll sends a close frame to every peer.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for _, p := range pm.peers {
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	}
}

// PadClient is the pad side of the channel.
type PadClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// DialPad connects to the host named by a share link.
func DialPad(ctx context.Context, link string) (*PadClient, error) {
	addr, err := ParseLink(link)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+addr+PadPath, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", addr, err)
	}
	return &PadClient{conn: conn}, nil
}

// Send writes one message. It is safe for concurrent use.
func (c *PadClient) Send(m PadMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(m)
}

// LocalAddr is the client's side of the connection.
func (c *PadClient) LocalAddr() string {
	return c.conn.LocalAddr().String()
}

func (c *PadClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	return c.conn.Close()
}
