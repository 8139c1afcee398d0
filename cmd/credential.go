package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"medscan/internal/config"
	"medscan/pkg/logger"
	"medscan/pkg/serrors"
	"strings"

	"github.com/spf13/cobra"
)

var errNoSecret = errors.New("no credential read from stdin")

// credentialCommand groups the subcommands managing the analysis service key.
func credentialCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credential",
		Short: "Manages the analysis service credential",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Stores the credential read from the first line of stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			secret, err := readSecret(cmd.InOrStdin())
			if err != nil {
				return err
			}

			v, closeVault := getVault(ctx, cfg)
			defer closeVault()

			if err := v.Set(ctx, secret); err != nil {
				return fmt.Errorf("could not store credential: %w", err)
			}
			logger.Info(ctx, "credential stored", logger.Secret("credential", secret))

			return nil
		},
	}, &cobra.Command{
		Use:   "status",
		Short: "Reports whether a credential is configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			v, closeVault := getVault(ctx, cfg)
			defer closeVault()

			_, err := v.Get(ctx)
			switch {
			case err == nil:
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "credential: configured")
			case errors.Is(err, serrors.ErrCredentialMissing):
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "credential: not configured")
			default:
				return fmt.Errorf("could not read credential: %w", err)
			}

			return nil
		},
	})

	return cmd
}

// readSecret returns the first line of r without surrounding whitespace.
func readSecret(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("could not read stdin: %w", err)
	}
	secret := strings.TrimSpace(line)
	if secret == "" {
		return "", errNoSecret
	}

	return secret, nil
}
