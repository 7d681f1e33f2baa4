// Package cmd contains the CLI commands for trackctl.
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tracklite-dev/tracklite/internal/client"
)

var serverURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "Trackctl - command-line client for the tracklite project tracker",
	Long: `Trackctl talks to a tracklite server and keeps your signed-in
session on disk, so you stay logged in between invocations.

Examples:
  # Create an account and sign in
  trackctl register --username alice --email alice@example.com

  # Work with your projects
  trackctl project create --title "Launch" --description "Ship the launch"
  trackctl project list

  # Role-gated dashboard data
  trackctl dashboard --admin`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	defaultServer := os.Getenv("TRACKLITE_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:3000"
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "tracklite server base URL")
}

// stateDir is where the session slots live.
func stateDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "tracklite"), nil
}

func newSession() (*client.Session, error) {
	dir, err := stateDir()
	if err != nil {
		return nil, err
	}
	return client.NewSession(serverURL, dir)
}

// readPassword prompts without echo on a terminal and falls back to a plain
// line read when stdin is piped.
func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		passwordBytes, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
