package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var sendCmd = &cobra.Command{
	Use:   "send <campaignId>",
	Short: "Send a campaign and wait for it to finish",
	Long: `Send a campaign to every eligible subscriber in the foreground.

The command exits non-zero when the dispatch cannot start, for example
when mail credentials are missing or the campaign does not exist.
Individual delivery failures are reported but do not change the exit code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		campaignID, err := primitive.ObjectIDFromHex(args[0])
		if err != nil {
			return fmt.Errorf("invalid campaign id %q", args[0])
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(context.Background())

		result, err := a.Dispatcher.Dispatch(ctx, campaignID)
		if err != nil {
			log.Error("Campaign dispatch failed", "campaign", campaignID.Hex(), "err", err)
			return err
		}

		fmt.Printf("Sent: %d\nFailed: %d\n", result.Sent, result.Failed)
		for _, msg := range result.Errors {
			fmt.Println("  " + msg)
		}
		return nil
	},
}
