package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evidenthq/evident/internal/cli/formatter"
)

func newSubscribeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Start a subscription checkout",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := app.API.Checkout(context.Background(), app.Session.Token(),
				"https://evident.app/billing/success", "https://evident.app/billing/cancel")
			if err != nil {
				return err
			}
			fmt.Println("Open this link to complete the upgrade:")
			fmt.Println("  " + formatter.StyleBlue.Render(session.URL))
			return nil
		},
	}
}

func newSubscriptionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Inspect the subscription",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current billing state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := app.API.SubscriptionStatus(context.Background(), app.Session.Token())
			if err != nil {
				return err
			}

			state := status.SubscriptionStatus
			switch state {
			case "active":
				fmt.Println("Subscription: " + formatter.StyleGreen.Render(state))
			default:
				fmt.Println("Subscription: " + formatter.StyleYellow.Render(state))
			}
			fmt.Printf("  exports made: %d\n", status.ExportCount)
			if status.TrialExportUsed {
				fmt.Println("  trial export: " + formatter.Dim("used"))
			} else {
				fmt.Println("  trial export: available")
			}
			return nil
		},
	})

	return cmd
}
