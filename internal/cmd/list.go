package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/ArowuTest/zithara-mail-backend/internal/models"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var activeOwner string

var activeCmd = &cobra.Command{
	Use:   "active",
	Short: "List active subscribers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		var subscribers []*models.Subscriber
		if activeOwner != "" {
			owner, err := primitive.ObjectIDFromHex(activeOwner)
			if err != nil {
				return fmt.Errorf("--owner must be a user id")
			}
			subscribers, err = a.SubscriberService.Active(ctx, owner)
			if err != nil {
				return err
			}
		} else {
			subscribers, err = a.Subscribers.FindAllActive(ctx)
			if err != nil {
				return err
			}
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "EMAIL\tFIRST NAME\tLAST NAME")
		for _, s := range subscribers {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.Email, s.FirstName, s.LastName)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\nTotal active subscribers: %d\n", len(subscribers))
		return nil
	},
}

var scheduledCmd = &cobra.Command{
	Use:   "scheduled",
	Short: "List campaigns waiting in the scheduled status",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		campaigns, err := a.CampaignService.Scheduled(ctx)
		if err != nil {
			return err
		}
		if len(campaigns) == 0 {
			fmt.Println("No scheduled campaigns")
			return nil
		}
		for _, c := range campaigns {
			fmt.Printf("%s  %s\n  Subject: %s\n  Content: %s\n\n", c.ID.Hex(), c.Name, c.Subject, c.Content)
		}
		return nil
	},
}

func init() {
	activeCmd.Flags().StringVar(&activeOwner, "owner", "", "only list subscribers of this user id")
}
