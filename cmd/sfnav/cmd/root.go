package cmd

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/dbsmedya/sfnav/internal/config"
	"github.com/dbsmedya/sfnav/internal/logger"
	"github.com/dbsmedya/sfnav/internal/render"
	"github.com/dbsmedya/sfnav/internal/salesforce"
	"github.com/dbsmedya/sfnav/internal/session"
)

// Version information (set via ldflags at build time)
var (
	Version = "0.0.1-dev"
	Commit  = "unknown"
)

// CLI flags that override config file values
var (
	cfgFile     string
	logLevel    string
	logFormat   string
	searchLimit int
)

var rootCmd = &cobra.Command{
	Use:   "sfnav",
	Short: "Interactive Salesforce navigator",
	Long: `A terminal shell for browsing a Salesforce org like a filesystem.

Search for records, open them, walk their relationships with cd and back,
inspect field history, and update individual fields after confirmation.
Running sfnav without a subcommand starts the interactive shell.`,
	Version: Version,
	RunE:    runInteractive,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Config file flag
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "sfnav.yaml",
		"Path to configuration file")

	// Logging overrides
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "",
		"Override log format (json, text)")

	// Query overrides
	rootCmd.PersistentFlags().IntVar(&searchLimit, "limit", 0,
		"Override the search result limit")
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// buildSession loads configuration, connects to the org, and wires up an
// interactive session. The returned cleanup flushes the logger.
func buildSession(cmd *cobra.Command) (*session.Session, *render.Renderer, func(), error) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ApplyOverrides(logLevel, logFormat, searchLimit)
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	cleanup := func() { _ = log.Sync() }

	client, err := salesforce.NewClient(&cfg.Salesforce)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	if err := client.Connect(cmd.Context()); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to connect: %w", err)
	}
	log.Infow("connected", "instance", client.InstanceURL())

	out := render.NewRenderer(cmd.OutOrStdout())
	sess, err := session.New(client, &cfg.Query, out, log, surveyConfirm)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	return sess, out, cleanup, nil
}

// surveyConfirm asks a yes/no question, defaulting to no.
func surveyConfirm(prompt string) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: prompt}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
