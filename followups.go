package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/akinalp/sentquote/config"
	"github.com/akinalp/sentquote/database"
	"github.com/akinalp/sentquote/models"
	"github.com/akinalp/sentquote/services"
)

// followupsCmd, vadesi gelmiş pending takip mesajlarını listeler.
// Sadece okur; hiçbir satırın durumunu değiştirmez.
func followupsCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "followups",
		Short: "List pending follow-ups that are due",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			_, syncLog, err := initLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer syncLog()

			db, err := database.New(cfg.Database.Path, database.Migrations())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			repos := initRepositories(db)
			quotes := services.NewQuoteService(repos.Stores, repos.Tx, nil, cfg.Server.AppURL)

			due, err := quotes.DueFollowups(cmd.Context(), all)
			if err != nil {
				return err
			}
			return printFollowups(cmd.OutOrStdout(), due)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include pending follow-ups scheduled in the future")
	return cmd
}

func printFollowups(out io.Writer, due []models.DueFollowup) error {
	if len(due) == 0 {
		_, err := fmt.Fprintln(out, "no pending follow-ups")
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCHEDULED\tSLUG\tCLIENT\tTITLE\tMESSAGE")
	for _, f := range due {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			f.ScheduledAt.UTC().Format(time.RFC3339), f.Slug, f.ClientEmail, f.Title, f.Message)
	}
	return tw.Flush()
}
