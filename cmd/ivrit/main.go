package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/ivrit/internal/cli"
	"codeberg.org/snonux/ivrit/internal/logging"
	"codeberg.org/snonux/ivrit/internal/models"
	"codeberg.org/snonux/ivrit/internal/processor"
	"codeberg.org/snonux/ivrit/internal/server"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root and serve commands
	rootCmd := cli.CreateRootCommand(flags)
	serveCmd := cli.CreateServeCommand(flags)
	rootCmd.AddCommand(serveCmd)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	// Set the run functions
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runCommand(cmd, args, flags)
	}
	serveCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	}

	// Ctrl-C cancels in-flight requests; remaining words become failed rows
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runCommand(cmd *cobra.Command, args []string, flags *cli.Flags) error {
	ctx := cmd.Context()

	// Handle --list-models flag
	if flags.ListModels {
		lister := models.NewLister(cli.GetOpenAIKey())
		return lister.ListAvailableModels(ctx, os.Stdout, viper.GetString("translate.openai_model"))
	}

	if flags.BatchFile == "" && len(args) == 0 {
		return cmd.Help()
	}

	_, proc, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Handle batch processing
	if flags.BatchFile != "" {
		destination, err := proc.ProcessBatch(ctx, flags.BatchFile)
		if err != nil {
			return err
		}
		fmt.Printf("\nDone! Table saved to: %s\n", destination)
		return nil
	}

	// Process single word
	_, err = proc.ProcessSingleWord(ctx, args[0])
	return err
}

func runServe(cmd *cobra.Command) error {
	settings, proc, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	srv := server.New(proc, settings.Output.Diagnostics, logger)
	return srv.ListenAndServe(cmd.Context(), settings.Serve.Addr)
}

// setup loads the settings and builds the logger and the processor
func setup() (*cli.Settings, *processor.Processor, *zap.Logger, error) {
	settings, err := cli.LoadSettings()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logging.New(settings.Log.Level, settings.Log.File)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open log: %w", err)
	}

	proc, err := processor.NewProcessor(settings, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return settings, proc, logger, nil
}
