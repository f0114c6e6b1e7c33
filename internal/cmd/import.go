package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/ArowuTest/zithara-mail-backend/internal/utils"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var importOwner string

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import subscribers from a CSV file",
	Long: `Import subscribers from a CSV file for one owner.

Recognized columns: email, firstName, lastName and tags (separated by
commas, semicolons or pipes). Any other column is stored as a custom field.
Addresses the owner already has are counted as duplicates and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, err := primitive.ObjectIDFromHex(importOwner)
		if err != nil {
			return fmt.Errorf("--owner must be a user id")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		entries, rowErrors, err := utils.ParseSubscribersCSV(f)
		if err != nil {
			return err
		}

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close(ctx)

		result := a.SubscriberService.Import(ctx, owner, entries)
		result.Failed += len(rowErrors)
		result.Errors = append(result.Errors, rowErrors...)

		fmt.Printf("Imported %d subscribers. %d duplicates skipped. %d failed.\n",
			result.Imported, result.Duplicates, result.Failed)
		for _, msg := range result.Errors {
			fmt.Println("  " + msg)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importOwner, "owner", "", "id of the user who owns the subscribers")
	_ = importCmd.MarkFlagRequired("owner")
}
