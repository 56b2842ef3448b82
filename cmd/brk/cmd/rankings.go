package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/dmreiland/bookrank/internal/api/client"
)

func rankingsCmd() *cobra.Command {
	rankingsRoot := &cobra.Command{
		Use:   "rankings",
		Short: "Browse ranking snapshots",
		Long: "Browse the precomputed popular-book and power-user rankings.\n" +
			"Each period (DAILY, WEEKLY, MONTHLY, ALL_TIME) has its own snapshot;\n" +
			"pages resume from the cursor printed with the previous page.",
	}

	rankingsRoot.AddCommand(
		rankingsBooksCmd(),
		rankingsUsersCmd(),
		rankingsRefreshCmd(),
	)

	return rankingsRoot
}

func rankingFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", "DAILY", "ranking period (DAILY, WEEKLY, MONTHLY, ALL_TIME)")
	cmd.Flags().String("direction", "", "score order (ASC, DESC)")
	cmd.Flags().String("cursor", "", "resume from a previous page's cursor")
	cmd.Flags().Int("limit", 0, "page size (max 100)")
}

func rankingParams(cmd *cobra.Command) (*apiclient.RankingParams, error) {
	period, err := cmd.Flags().GetString("period")
	if err != nil {
		return nil, err
	}
	direction, err := cmd.Flags().GetString("direction")
	if err != nil {
		return nil, err
	}
	cursor, err := cmd.Flags().GetString("cursor")
	if err != nil {
		return nil, err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return nil, err
	}
	return &apiclient.RankingParams{
		Period:    period,
		Direction: direction,
		Cursor:    cursor,
		Limit:     limit,
	}, nil
}

func rankingsBooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Show the popular-book ranking",
		Example: `  brk rankings books
  brk rankings books --period WEEKLY --limit 10
  brk rankings books --cursor <token-from-previous-page>`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := rankingParams(cmd)
			if err != nil {
				return err
			}
			c := newClient()
			page, err := c.ListBookRankings(context.Background(), params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(page)
			}
			if len(page.Rankings) == 0 {
				fmt.Println("No rankings found.")
				return nil
			}
			if err := printBookRankingsTable(page.Rankings); err != nil {
				return err
			}
			printNextCursor(page.HasNext, page.NextCursor)
			return nil
		},
	}
	rankingFlags(cmd)
	return cmd
}

func rankingsUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Show the power-user ranking",
		Example: `  brk rankings users
  brk rankings users --period MONTHLY --direction ASC`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := rankingParams(cmd)
			if err != nil {
				return err
			}
			c := newClient()
			page, err := c.ListUserRankings(context.Background(), params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(page)
			}
			if len(page.Rankings) == 0 {
				fmt.Println("No rankings found.")
				return nil
			}
			if err := printUserRankingsTable(page.Rankings); err != nil {
				return err
			}
			printNextCursor(page.HasNext, page.NextCursor)
			return nil
		},
	}
	rankingFlags(cmd)
	return cmd
}

func rankingsRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Recompute every ranking snapshot now",
		Long: "Ask the server to run the full ranking cycle immediately instead of\n" +
			"waiting for the next scheduled run. Returns an error if a cycle is\n" +
			"already in progress.",
		Example: `  brk rankings refresh`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			if err := c.RefreshRankings(context.Background()); err != nil {
				return err
			}
			fmt.Println("Refresh completed.")
			return nil
		},
	}
}

func printNextCursor(hasNext bool, cursor string) {
	if hasNext {
		fmt.Printf("\nNext page: --cursor %s\n", cursor)
	}
}
