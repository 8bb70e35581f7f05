package command

// root.go defines the root command for the libraryhub CLI and its global flags.

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"libraryhub/cmd/cli/command/client"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	apiURL  string        // Global flag for API server URL
	timeout time.Duration // per request timeout
)

// Output colours, disabled automatically when stdout is not a terminal.
var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libraryhub",
	Short: "libraryhub - library lending from the command line",
	Long: `libraryhub talks to a libraryhub API server. It can:
- Register users and catalogue books
- Sign books out and return them
- Show who holds a book and which books a user holds

Use "libraryhub command --help" to see the options of every command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr("LIBRARYHUB_API", "http://localhost:8080"), "API server URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "request timeout")

	rootCmd.AddCommand(bookCmd)
	rootCmd.AddCommand(userCmd)
}

func newClient() *client.HTTPClient {
	return client.NewHTTPClient(apiURL, timeout)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func holderText(holder *int64) string {
	if holder == nil {
		return "available"
	}
	return fmt.Sprintf("signed out by user %d", *holder)
}
