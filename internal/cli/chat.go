package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat <message>...",
		Short: "Send a chat message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")

			conn, err := dialSocket()
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := sendFrame(conn, map[string]any{"message": text}); err != nil {
				return fmt.Errorf("send failed: %w", err)
			}

			// The echo doubles as delivery confirmation
			deadline := time.Now().Add(5 * time.Second)
			for time.Now().Before(deadline) {
				evt, err := readEvent(conn, time.Until(deadline))
				if err != nil {
					return fmt.Errorf("no echo received: %w", err)
				}
				if evt.Type == "message" {
					NewOutput(cfg.Output).PrintMessage("Sent")
					return nil
				}
			}

			return fmt.Errorf("no echo received")
		},
	}
}
