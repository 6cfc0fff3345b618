package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"tunebridge/internal/services/spotify"
)

const defaultLoginTimeout = 5 * time.Minute

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Link or inspect the Spotify account",
	}

	authCmd.AddCommand(newAuthLoginCommand(ctx))
	authCmd.AddCommand(newAuthStatusCommand(ctx))
	authCmd.AddCommand(newAuthLogoutCommand(ctx))

	return authCmd
}

func newAuthLoginCommand(ctx *commandContext) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authorize tunebridge to manage your playlists",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tokens, err := newTokenManager(cfg)
			if err != nil {
				return err
			}

			state := uuid.NewString()
			callback, err := spotify.ListenForCallback(cfg.Spotify.RedirectURI, state)
			if err != nil {
				return err
			}
			defer callback.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Open this URL in a browser and approve access:")
			fmt.Fprintln(out)
			fmt.Fprintln(out, "  "+tokens.AuthorizeURL(state))
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Waiting for the redirect on %s ...\n", callback.Addr())

			waitCtx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			code, err := callback.Wait(waitCtx)
			if err != nil {
				return fmt.Errorf("authorization not completed: %w", err)
			}
			if err := tokens.Exchange(cmd.Context(), code); err != nil {
				return err
			}
			fmt.Fprintln(out, "Spotify account linked")
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultLoginTimeout, "How long to wait for the browser redirect")
	return cmd
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a Spotify account is linked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			credentialErr := cfg.RequireSpotify()
			fmt.Fprintf(out, "Client credentials: %s\n", yesNo(credentialErr == nil))

			tokens, err := spotify.NewTokenManager(cfg)
			if err != nil {
				return err
			}
			state := tokens.State()
			fmt.Fprintf(out, "Linked: %s\n", yesNo(tokens.HasAuthorization()))
			if !tokens.HasAuthorization() {
				fmt.Fprintln(out, "Run `tunebridge auth login` to link an account.")
				return nil
			}
			if !state.LinkedAt.IsZero() {
				fmt.Fprintf(out, "Linked at: %s\n", state.LinkedAt.Local().Format("2006-01-02 15:04"))
			}
			if !state.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "Access token expires: %s\n", state.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			if state.Scope != "" {
				fmt.Fprintf(out, "Scopes: %s\n", state.Scope)
			}
			fmt.Fprintf(out, "Token file: %s\n", cfg.TokenStatePath())
			return nil
		},
	}
}

func newAuthLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the linked Spotify account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			tokens, err := spotify.NewTokenManager(cfg)
			if err != nil {
				return err
			}
			if err := tokens.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Spotify account unlinked")
			return nil
		},
	}
}
