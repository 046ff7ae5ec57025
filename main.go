package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"pvc_catalog_bot/internal/app"
	"pvc_catalog_bot/internal/catalog"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "catalogbot",
	Short:         "Telegram bot for the PVC film price catalog",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupEnvironment()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (long polling, or webhook when WEBHOOK_URL is set)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the catalog and print the replies the bot would send",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate configuration and read the catalog worksheet once",
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(serveCmd, searchCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("catalogbot failed")
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(true)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.Serve(ctx, cfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("Catalog bot stopped")
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(false)

	replies, err := app.Search(cmd.Context(), cfg, strings.Join(args, " "))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, reply := range replies {
		if i > 0 {
			fmt.Fprintln(out, "---")
		}
		fmt.Fprintln(out, reply)
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(false)

	rows, err := app.Check(cmd.Context(), cfg)
	if err != nil {
		var notFound *catalog.WorksheetNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("worksheet %q does not exist in the configured %s store", notFound.Name, cfg.Backend)
		}
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s worksheet %q: %d rows\n", cfg.Backend, cfg.WorksheetName, rows)
	return nil
}

func loadConfig(needBot bool) app.Config {
	cfg, err := app.LoadConfig(needBot)
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration error")
	}
	return cfg
}
