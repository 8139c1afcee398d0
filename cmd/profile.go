package main

import (
	"context"
	"fmt"
	"io"
	"medscan/internal/config"
	"medscan/pkg/domain"
	"time"

	"github.com/spf13/cobra"
)

// profileCommand groups the subcommands managing the saved health profile.
func profileCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manages the saved health profile",
	}

	set := &cobra.Command{
		Use:   "set",
		Short: "Replaces the saved health profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			allergies, _ := cmd.Flags().GetString("allergies")
			conditions, _ := cmd.Flags().GetString("conditions")

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			saved, err := strg.SaveProfile(ctx, domain.HealthProfile{Allergies: allergies, Conditions: conditions})
			if err != nil {
				return fmt.Errorf("could not save health profile: %w", err)
			}
			printProfile(cmd.OutOrStdout(), saved)

			return nil
		},
	}
	set.Flags().String("allergies", "", "Known allergies, e.g. \"penicillin, latex\"")
	set.Flags().String("conditions", "", "Chronic conditions, e.g. \"diabetes\"")

	show := &cobra.Command{
		Use:   "show",
		Short: "Prints the saved health profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			p, err := strg.CurrentProfile(ctx)
			if err != nil {
				return fmt.Errorf("could not load health profile: %w", err)
			}
			printProfile(cmd.OutOrStdout(), p)

			return nil
		},
	}

	cmd.AddCommand(set, show)

	return cmd
}

func printProfile(w io.Writer, p *domain.HealthProfile) {
	if p == nil {
		_, _ = fmt.Fprintln(w, "No health profile saved.")

		return
	}
	_, _ = fmt.Fprintf(w, "Allergies:  %s\nConditions: %s\n", orNone(p.Allergies), orNone(p.Conditions))
	if !p.UpdatedAt.IsZero() {
		_, _ = fmt.Fprintf(w, "Updated:    %s\n", p.UpdatedAt.Local().Format(time.DateTime))
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}

	return s
}
