package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGamePlayCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var gameType string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"type": gameType}
			var result Game

			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameType, "type", "war", "Game type")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <game-id>",
		Short: "Take a seat in a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game

			if err := client.Post("/api/v1/games/"+args[0]+"/join", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGamePlayCmd() *cobra.Command {
	var cardID int

	cmd := &cobra.Command{
		Use:   "play <game-id>",
		Short: "Play a card from your hand",
		Long: `Play a card over the realtime channel and wait for the outcome.

The move is acknowledged by a game_state broadcast on acceptance or an
error event on rejection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cardID <= 0 {
				return fmt.Errorf("--card is required")
			}

			conn, err := dialSocket()
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			frame := map[string]any{
				"type":   "player_action",
				"gameId": args[0],
				"action": map[string]any{
					"type":   "play_card",
					"cardId": cardID,
				},
			}
			if err := sendFrame(conn, frame); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}

			// Wait for the move's outcome, skipping unrelated broadcasts
			out := NewOutput(cfg.Output)
			deadline := time.Now().Add(10 * time.Second)
			for time.Now().Before(deadline) {
				evt, err := readEvent(conn, time.Until(deadline))
				if err != nil {
					return fmt.Errorf("no response: %w", err)
				}

				switch evt.Type {
				case "game_state":
					var stateEvt struct {
						GameID string    `json:"gameId"`
						State  GameState `json:"state"`
					}
					if err := json.Unmarshal(evt.Raw, &stateEvt); err != nil {
						return err
					}
					if stateEvt.GameID != args[0] {
						continue
					}
					out.Print(Game{ID: stateEvt.GameID, Status: string(stateEvt.State.Phase), State: stateEvt.State})
					return nil
				case "error":
					var errEvt struct {
						Code    string `json:"code"`
						Message string `json:"message"`
					}
					if err := json.Unmarshal(evt.Raw, &errEvt); err != nil {
						return err
					}
					return fmt.Errorf("%s (%s)", errEvt.Message, errEvt.Code)
				}
			}

			return fmt.Errorf("timed out waiting for the move's outcome")
		},
	}

	cmd.Flags().IntVar(&cardID, "card", 0, "Card id to play (required)")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}
