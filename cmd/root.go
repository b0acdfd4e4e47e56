package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/taxjar-go/config"
	"github.com/s0up4200/taxjar-go/taxjar"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *taxjar.Client

	// Global flags
	sandbox      bool
	outputFormat string

	version   = "dev"
	buildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "taxjar",
	Short: "A command line client for the TaxJar sales tax API",
	Long: `taxjar is a CLI for the TaxJar v2 API. It looks up rates, calculates
tax for orders, manages order and refund transactions, and lists nexus
regions and summary rates.

The API key is read from the config file, the TAXJAR_API_KEY environment
variable or a .env file in the working directory.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion records build information for the version command.
func SetVersion(v, built string) {
	version = v
	buildTime = built
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&sandbox, "sandbox", false, "use the TaxJar sandbox endpoint")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text or json")

	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration and the API client
func initializeApp(cmd *cobra.Command, args []string) error {
	// A missing .env file is not an error
	_ = godotenv.Load()

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	if cmd.Flags().Changed("sandbox") {
		cfg.TaxJar.Sandbox = sandbox
	}
	if outputFormat != "" {
		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("invalid output format: %s (must be 'text' or 'json')", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}

	client, err = newClient(cfg.TaxJar, logger)
	if err != nil {
		return fmt.Errorf("failed to create TaxJar client: %w", err)
	}

	logger.Debug().Str("api_url", client.APIURL()).Msg("TaxJar client ready")
	return nil
}

// newClient builds a TaxJar client from configuration
func newClient(tc config.TaxJarConfig, logger zerolog.Logger) (*taxjar.Client, error) {
	opts := []taxjar.Option{
		taxjar.WithAPIURL(tc.EffectiveAPIURL()),
		taxjar.WithUserAgent(tc.UserAgent),
	}
	if tc.Timeout > 0 {
		opts = append(opts, taxjar.WithHTTPClient(&http.Client{Timeout: tc.Timeout}))
	}

	return taxjar.NewClient(tc.APIKey, logger, opts...)
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format, colour only on a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "taxjar %s (built %s)\n", version, buildTime)
	},
}
