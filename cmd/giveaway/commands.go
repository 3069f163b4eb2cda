package main

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"

	"github.com/tendant/simple-giveaway/pkg/giveaway/auth"
	"github.com/tendant/simple-giveaway/pkg/giveaway/config"
)

type tokenEnv struct {
	Secret string `env:"TOKEN_SECRET"`
}

// NewTokenCommand creates the token command
func NewTokenCommand() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <email>",
		Short: "Mint a development session token",
		Long:  `Sign a session token for email with TOKEN_SECRET. Pass it to other commands with --token or as a bearer header.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var env tokenEnv
			if err := cleanenv.ReadEnv(&env); err != nil {
				return fmt.Errorf("failed to read environment: %w", err)
			}

			authenticator, err := auth.New(env.Secret, auth.WithTTL(ttl))
			if err != nil {
				return err
			}

			token, err := authenticator.IssueToken(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTTL, "token lifetime")

	return cmd
}

// NewPresignCommand creates the presign command
func NewPresignCommand() *cobra.Command {
	var expires time.Duration
	var contentType string

	cmd := &cobra.Command{
		Use:   "presign <key>",
		Short: "Print a presigned PUT URL for an object key",
		Long:  `Presign an upload offline using the R2_* settings. No request is made.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r2, err := config.ReadR2Env()
			if err != nil {
				return err
			}
			signer, err := r2.BuildSigner()
			if err != nil {
				return err
			}

			var url string
			if expires > 0 {
				url, err = signer.PresignPutWithExpiry(args[0], expires)
			} else {
				url, err = signer.PresignPut(args[0])
			}
			if err != nil {
				return fmt.Errorf("presign failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, url)
			if contentType != "" {
				fmt.Fprintf(out, "curl -X PUT -H 'Content-Type: %s' --data-binary @<file> '%s'\n", contentType, url)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&expires, "expires", 0, "URL validity (default R2_PRESIGN_EXPIRY, clamped to 1s..7d)")
	cmd.Flags().StringVar(&contentType, "content-type", "", "print a curl command uploading with this Content-Type")

	return cmd
}

// NewUploadCommand creates the upload command
func NewUploadCommand() *cobra.Command {
	var prefix string

	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload images through the server's presign endpoint",
		Long: `Request presigned URLs for every file in one batch, PUT the files directly
to object storage and print the resulting object keys in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := NewServiceClientFromFlags(cmd)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			results, err := client.UploadFiles(cmd.Context(), args, prefix)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "%s\t%s\t%s\n", r.Path, r.Key, r.PublicURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&prefix, "prefix", "", "object key prefix, e.g. listings")

	return cmd
}
