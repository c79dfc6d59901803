package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/dillma/internal/app"
	"github.com/mark3labs/dillma/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile       string
	queryFlag        string
	debugMode        bool
	showNonPrintable bool
	modelFlag        string
	providerURL      string
	providerAPIKey   string
	markdownFlag     bool
	strictFlag       bool

	// Model generation parameters
	maxTokens   int
	temperature float32
	timeout     time.Duration
)

// rootCmd is the dillma command. The query becomes the system prompt and
// anything piped on stdin becomes the user message.
var rootCmd = &cobra.Command{
	Use:   "dillma [query]",
	Short: "Ask a language model about piped-in text",
	Long: `dillma sends a query plus whatever is piped on stdin to an
OpenAI-compatible chat completion endpoint and prints the response.

The query is used as the system prompt and stdin as the user message.
Use -v to make control characters in the response visible, and --debug
to print a hex dump of responses that contain them.`,
	Example: `  git diff | dillma "write a commit message for this diff"
  dillma -q "explain this error" < build.log
  dillma -v --debug "print a bell character"`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDillma(cmd, args)
	},
}

// GetRootCommand returns the root command with the version set.
func GetRootCommand(v string) *cobra.Command {
	rootCmd.Version = v
	return rootCmd
}

// InitConfig loads the config file and environment overrides. It runs via
// cobra.OnInitialize before any command executes.
func InitConfig() {
	if _, err := config.Init(configFile); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	flags := rootCmd.Flags()
	flags.StringVarP(&queryFlag, "query", "q", "", "query for the model, sent as the system prompt (overrides the positional query)")
	flags.BoolVar(&debugMode, "debug", false, "print a hex dump when the response contains control characters, and enable debug logging")
	flags.BoolVarP(&showNonPrintable, "show-non-printable", "v", false, "display non-printing characters so they are visible")
	flags.BoolVar(&markdownFlag, "markdown", false, "render the response as markdown when writing to a terminal")
	flags.BoolVar(&strictFlag, "strict", false, "exit with a non-zero status when the completion request fails")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&configFile, "config", "", "config file (default is ./.dillma.yml or $HOME/.dillma.yml)")
	persistent.StringVarP(&modelFlag, "model", "m", config.DefaultModel, "chat model to query")
	persistent.StringVar(&providerURL, "provider-url", "", "base URL of an OpenAI-compatible API")
	persistent.StringVar(&providerAPIKey, "api-key", "", "API key (default is $OPENAI_API_KEY, then the system keyring)")
	persistent.IntVar(&maxTokens, "max-tokens", config.DefaultMaxTokens, "maximum number of tokens in the response")
	persistent.Float32Var(&temperature, "temperature", config.DefaultTemperature, "controls randomness in responses (0.0-2.0)")
	persistent.DurationVar(&timeout, "timeout", config.DefaultTimeout, "timeout for the completion request")

	bindFlags()

	rootCmd.AddCommand(authCmd)
}

// bindFlags connects flags to their viper keys so config files and DILLMA_*
// environment variables can supply the same settings.
func bindFlags() {
	flags := rootCmd.Flags()
	_ = viper.BindPFlag("debug", flags.Lookup("debug"))
	_ = viper.BindPFlag("markdown", flags.Lookup("markdown"))
	_ = viper.BindPFlag("strict-errors", flags.Lookup("strict"))

	persistent := rootCmd.PersistentFlags()
	_ = viper.BindPFlag("model", persistent.Lookup("model"))
	_ = viper.BindPFlag("provider-url", persistent.Lookup("provider-url"))
	_ = viper.BindPFlag("api-key", persistent.Lookup("api-key"))
	_ = viper.BindPFlag("max-tokens", persistent.Lookup("max-tokens"))
	_ = viper.BindPFlag("temperature", persistent.Lookup("temperature"))
	_ = viper.BindPFlag("timeout", persistent.Lookup("timeout"))
}

// resolveQuery prefers -q/--query over the positional argument.
func resolveQuery(flagValue string, args []string) string {
	if flagValue != "" {
		return flagValue
	}
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runDillma(cmd *cobra.Command, args []string) error {
	query := resolveQuery(queryFlag, args)
	if query == "" {
		return app.ErrMissingQuery
	}

	input, err := readStdin(cmd)
	if err != nil {
		return err
	}

	a, err := SetupApp(cmd.Context(), AppSetupOptions{
		Settings:         config.Load(),
		ShowNonPrintable: showNonPrintable,
		Stdout:           cmd.OutOrStdout(),
		Stderr:           cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	return a.Run(cmd.Context(), query, input)
}
