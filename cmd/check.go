package main

import (
	"context"
	"fmt"
	"io"
	"medscan/internal/config"
	"medscan/pkg/domain"
	"medscan/pkg/serrors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// checkCommand constructs the 'check' subcommand that runs one scan for a
// barcode and prints the verdict. It exits non-zero unless a verdict was reached.
func checkCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Checks one medication barcode against a health profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			barcode, _ := cmd.Flags().GetString("barcode")
			allergies, _ := cmd.Flags().GetString("allergies")
			conditions, _ := cmd.Flags().GetString("conditions")
			useProfile, _ := cmd.Flags().GetBool("use-profile")

			profile := domain.HealthProfile{Allergies: allergies, Conditions: conditions}.Normalized()
			if useProfile {
				strg, closeStrg := getPostgres(ctx, cfg)
				stored, err := strg.CurrentProfile(ctx)
				closeStrg()
				if err != nil {
					return fmt.Errorf("could not load health profile: %w", err)
				}
				if stored != nil {
					profile = *stored
				}
			}

			v, closeVault := getVault(ctx, cfg)
			defer closeVault()

			scan, err := getPipeline(ctx, cfg, v, nil).Run(ctx, barcode, profile)
			printScan(cmd.OutOrStdout(), scan)

			return err //nolint: wrapcheck
		},
	}

	cmd.Flags().String("barcode", "", "EAN-8 or EAN-13 barcode digits")
	cmd.Flags().String("allergies", "", "Known allergies, e.g. \"penicillin, latex\"")
	cmd.Flags().String("conditions", "", "Chronic conditions, e.g. \"diabetes\"")
	cmd.Flags().Bool("use-profile", false, "Use the saved health profile instead of --allergies/--conditions")
	_ = cmd.MarkFlagRequired("barcode")

	return cmd
}

// printScan writes a human readable summary of a finished scan.
func printScan(w io.Writer, scan domain.Scan) {
	if scan.Barcode != "" {
		_, _ = fmt.Fprintf(w, "Barcode: %s (%s)\n", scan.Barcode, scan.Barcode.Format())
	}
	if p := scan.Product; p != nil {
		if p.Brand != "" {
			_, _ = fmt.Fprintf(w, "Product: %s by %s\n", p.Title, p.Brand)
		} else {
			_, _ = fmt.Fprintf(w, "Product: %s\n", p.Title)
		}
	}

	switch {
	case scan.Verdict != nil:
		_, _ = fmt.Fprintf(w, "Verdict: %s\n%s\n", verdictLabel(scan.Verdict.Status), scan.Verdict.Explanation)
	case scan.Failure != nil:
		_, _ = fmt.Fprintf(w, "Scan failed (%s): %s\n", scan.Failure.Kind, scan.Failure.Message)
		if scan.Failure.Kind == serrors.ErrCredentialMissing.Error() {
			_, _ = fmt.Fprintln(w, "Store the analysis service key with: medscan credential set")
		}
	}
}

func verdictLabel(status domain.VerdictStatus) string {
	switch status {
	case domain.VerdictAllowed:
		return "Allowed"
	case domain.VerdictNotAllowed:
		return "Not allowed"
	default:
		return "Unknown, read the explanation"
	}
}
