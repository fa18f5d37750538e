package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/ivrit/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ivrit [word]",
		Short: "Hebrew vocabulary enricher",
		Long: `ivrit enriches Hebrew words with a Russian translation, a phonetic
transcription and bilingual usage examples scraped from pealim.com and
context.reverso.net, and writes the result as a spreadsheet.

Examples:
  ivrit שלום                          # Enrich a single word
  ivrit --batch words.xlsx            # Enrich every word of a workbook
  ivrit --batch words.txt -o out.csv  # Write CSV instead of xlsx
  ivrit serve --addr :8080            # Start the upload page`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	// Set up flags
	setupFlags(rootCmd, flags)

	return rootCmd
}

// CreateServeCommand creates the upload server subcommand
func CreateServeCommand(flags *Flags) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload page",
		Long: `serve starts a small web page where a word list (.xlsx, .csv or .txt)
can be uploaded. The enriched workbook is returned as updated_file.xlsx.`,
		Args: cobra.NoArgs,
	}

	serveCmd.Flags().StringVar(&flags.Addr, "addr", flags.Addr, "Listen address")
	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	return serveCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.ivrit.yaml)")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level: debug, info, warn, error")
	cmd.PersistentFlags().IntVarP(&flags.Workers, "workers", "w", flags.Workers, "Words processed in parallel")
	cmd.PersistentFlags().BoolVar(&flags.Diagnostics, "diagnostics", false, "Add a notes column explaining missing fields")
	cmd.PersistentFlags().StringVar(&flags.Provider, "fallback", flags.Provider, "Fallback translator: google, openai or none")
	cmd.PersistentFlags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI chat model for the openai fallback")

	// Local flags
	cmd.Flags().StringVar(&flags.BatchFile, "batch", "", "Process words from file (.xlsx, .csv or one word per line)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", flags.OutputFile, "Output file")
	cmd.Flags().StringVarP(&flags.Format, "format", "f", "", "Output format: xlsx, csv or sheets (default from output file extension)")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List OpenAI chat models usable by the openai fallback")

	// Google Sheets flags
	cmd.Flags().StringVar(&flags.Spreadsheet, "spreadsheet", "", "Google Sheets spreadsheet URL or ID for the sheets format")
	cmd.Flags().StringVar(&flags.Credentials, "credentials", "", "Service account credentials file (default $GOOGLE_SHEETS_CREDENTIALS)")

	// Bind flags to viper
	bindFlagsToViper(cmd)
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("workers", cmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("output.diagnostics", cmd.PersistentFlags().Lookup("diagnostics"))
	viper.BindPFlag("translate.provider", cmd.PersistentFlags().Lookup("fallback"))
	viper.BindPFlag("translate.openai_model", cmd.PersistentFlags().Lookup("openai-model"))
	viper.BindPFlag("output.file", cmd.Flags().Lookup("output"))
	viper.BindPFlag("output.format", cmd.Flags().Lookup("format"))
	viper.BindPFlag("sheets.spreadsheet", cmd.Flags().Lookup("spreadsheet"))
	viper.BindPFlag("sheets.credentials", cmd.Flags().Lookup("credentials"))
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".ivrit" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".ivrit")
	}

	// Environment variables, e.g. IVRIT_HTTP_TIMEOUT for http.timeout
	viper.SetEnvPrefix("IVRIT")
	viper.SetEnvKeyReplacer(newKeyReplacer())
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	// First check environment variable
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}

	// Then check config file
	return viper.GetString("translate.openai_key")
}
