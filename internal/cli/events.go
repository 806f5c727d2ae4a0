package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail the realtime event stream",
		Long: `Connect to the websocket endpoint and print events as they arrive.

Events include:
  - message: Chat message
  - connected_users: Presence list changed
  - card_change: Shared card revealed
  - player_hand: Your hand contents
  - game_state: Authoritative game state after a move
  - error: A message of yours was rejected

Press Ctrl+C to disconnect.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tailEvents(jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

func tailEvents(jsonOutput bool) error {
	conn, err := dialSocket()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// Handle interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		// Unblocks the read loop
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Println("Connected")
	}

	// Ask for the current presence list up front
	_ = sendFrame(conn, map[string]any{"type": "connected_users"})

	for {
		evt, err := readEvent(conn, 0)
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}

		printSocketEvent(evt, jsonOutput)
	}
}

func printSocketEvent(evt *socketEvent, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(string(evt.Raw))
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")

	switch evt.Type {
	case "message":
		var chat struct {
			Username string `json:"username"`
			Message  string `json:"message"`
		}
		if json.Unmarshal(evt.Raw, &chat) == nil {
			fmt.Printf("[%s] <%s> %s\n", timestamp, chat.Username, chat.Message)
			return
		}
	case "connected_users":
		var presence struct {
			Users []struct {
				Username string `json:"username"`
			} `json:"users"`
		}
		if json.Unmarshal(evt.Raw, &presence) == nil {
			names := make([]string, len(presence.Users))
			for i, u := range presence.Users {
				names[i] = u.Username
			}
			fmt.Printf("[%s] online (%d): %v\n", timestamp, len(names), names)
			return
		}
	case "card_change":
		var change struct {
			Card struct {
				ID int `json:"id"`
			} `json:"card"`
		}
		if json.Unmarshal(evt.Raw, &change) == nil {
			fmt.Printf("[%s] card revealed: %s\n", timestamp, cardName(change.Card.ID))
			return
		}
	case "game_state":
		var state struct {
			GameID string    `json:"gameId"`
			State  GameState `json:"state"`
		}
		if json.Unmarshal(evt.Raw, &state) == nil {
			fmt.Printf("[%s] game %s: phase=%s round=%d turn=%s\n",
				timestamp, state.GameID, state.State.Phase, state.State.Round, state.State.CurrentTurn)
			return
		}
	case "error":
		var errEvt struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(evt.Raw, &errEvt) == nil {
			fmt.Printf("[%s] rejected: %s (%s)\n", timestamp, errEvt.Message, errEvt.Code)
			return
		}
	}

	// Fallback for unknown or malformed events
	fmt.Printf("[%s] %s: %s\n", timestamp, evt.Type, string(evt.Raw))
}
