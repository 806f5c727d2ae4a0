package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// socketURL converts the configured server URL into the websocket endpoint
func socketURL(serverURL, token string) (string, error) {
	u, err := url.Parse(strings.TrimSuffix(serverURL, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	u.Path = "/ws"
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// dialSocket opens an authenticated websocket connection
func dialSocket() (*websocket.Conn, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("not logged in (no token)")
	}

	wsURL, err := socketURL(cfg.ServerURL, cfg.Token)
	if err != nil {
		return nil, err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.Dial(wsURL, nil)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("connection refused (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return conn, nil
}

// sendFrame marshals and writes one frame, stamping in the auth token
func sendFrame(conn *websocket.Conn, frame map[string]any) error {
	frame["auth_token"] = cfg.Token
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

// socketEvent is a loosely decoded outbound event, kept as raw JSON plus the
// type tag so each command can pick out what it cares about
type socketEvent struct {
	Type string
	Raw  json.RawMessage
}

// readEvent reads and decodes the next event from the connection
func readEvent(conn *websocket.Conn, timeout time.Duration) (*socketEvent, error) {
	if timeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(timeout))
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, fmt.Errorf("malformed event: %w", err)
	}
	return &socketEvent{Type: tag.Type, Raw: data}, nil
}
