package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mark3labs/dillma/internal/credentials"
	"github.com/mark3labs/dillma/internal/ui"
)

// readPassword reads a secret from the terminal without echoing it.
var readPassword = func() (string, error) {
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	return string(b), err
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the API key stored in the system keyring",
	Long: `Manage the API key dillma stores in the system keyring.

The key is resolved in this order: --api-key or api-key in the config
file, the OPENAI_API_KEY environment variable, then the keyring.`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API key in the system keyring",
	Long: `Store an API key in the system keyring.

When stdin is a terminal the key is prompted for without echo; otherwise
it is read from stdin, e.g.:

  printenv OPENAI_API_KEY | dillma auth login`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API key from the system keyring",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which API key dillma would use",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	var key string
	if stdinIsTerminal() {
		fmt.Fprint(cmd.ErrOrStderr(), "Enter API key: ")
		k, err := readPassword()
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = k
	} else {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		key = string(data)
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("no API key provided")
	}
	if err := credentials.SetAPIKey(key); err != nil {
		return err
	}

	theme := ui.GetTheme()
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess(theme).Render("✓ API key stored in the system keyring"))
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	theme := ui.GetTheme()
	err := credentials.DeleteAPIKey()
	if errors.Is(err, credentials.ErrNotFound) {
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleWarning(theme).Render("No API key stored in the system keyring"))
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.StyleSuccess(theme).Render("✓ API key removed from the system keyring"))
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	theme := ui.GetTheme()
	key, source, err := credentials.ResolveAPIKey(viper.GetString("api-key"))
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), ui.StyleError(theme).Render("✗ "+err.Error()))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n",
		ui.StyleSuccess(theme).Render("✓ API key "+maskKey(key)),
		ui.StyleMuted(theme).Render("(from "+source+")"))

	if source != credentials.SourceKeyring {
		stored, err := credentials.HasAPIKey()
		if err != nil {
			return err
		}
		if stored {
			fmt.Fprintln(cmd.OutOrStdout(), ui.StyleMuted(theme).Render("A key is also stored in the system keyring"))
		}
	}
	return nil
}

// maskKey hides all but the ends of a key.
func maskKey(key string) string {
	if len(key) <= 10 {
		return strings.Repeat("*", len(key))
	}
	return key[:3] + "..." + key[len(key)-4:]
}
