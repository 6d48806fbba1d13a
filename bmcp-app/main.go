package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/compose-network/bmcp/bmcp-app/config"
	"github.com/compose-network/bmcp/log"
)

const banner = `
██████╗ ███╗   ███╗ ██████╗██████╗
██╔══██╗████╗ ████║██╔════╝██╔══██╗
██████╔╝██╔████╔██║██║     ██████╔╝
██╔══██╗██║╚██╔╝██║██║     ██╔═══╝
██████╔╝██║ ╚═╝ ██║╚██████╗██║
╚═════╝ ╚═╝     ╚═╝ ╚═════╝╚═╝`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bmcp",
		Short:         "Bitcoin OP_RETURN cross-chain message gateway",
		Long:          banner + "\n\nEncodes and decodes cross-chain messages carried in Bitcoin OP_RETURN outputs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	root.PersistentFlags().String("config", "", "config file path (defaults and environment when empty)")
	root.PersistentFlags().String("log-level", "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().Bool("log-pretty", false, "enable pretty logging")
	root.PersistentFlags().String("chains-file", "", "chain registry YAML file")

	root.AddCommand(
		newServeCmd(),
		newChainsCmd(),
		newEncodeCmd(),
		newDecodeCmd(),
		newVersionCmd(),
	)
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE:  runServe,
	}

	// Server flags
	cmd.Flags().String("listen-addr", "", "server listen address")
	cmd.Flags().Duration("read-timeout", 0, "request read timeout")
	cmd.Flags().Duration("write-timeout", 0, "response write timeout")

	// Metrics flags
	cmd.Flags().Bool("metrics", false, "enable metrics")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run:   runVersion,
	}
}

// loadConfig reads the config named by --config and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), banner)
	fmt.Fprintln(cmd.OutOrStdout())

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := log.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Str("go_version", runtime.Version()).
		Msg("Build information")

	log.Info().
		Str("listen_addr", cfg.API.ListenAddr).
		Bool("metrics_enabled", cfg.Metrics.Enabled).
		Str("chains_file", cfg.Chains.RegistryFile).
		Str("log_level", cfg.Log.Level).
		Msg("Configuration loaded")

	application, err := NewApp(cmd.Context(), cfg, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	return application.Run(cmd.Context())
}

func runVersion(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, banner)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "BMCP Gateway\n")
	fmt.Fprintf(out, "Version:    %s\n", Version)
	fmt.Fprintf(out, "Build Time: %s\n", BuildTime)
	fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
	fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
	fmt.Fprintf(out, "OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if changed(cmd, "log-level") {
		cfg.Log.Level, _ = cmd.Flags().GetString("log-level")
	}
	if changed(cmd, "log-pretty") {
		cfg.Log.Pretty, _ = cmd.Flags().GetBool("log-pretty")
	}
	if changed(cmd, "chains-file") {
		cfg.Chains.RegistryFile, _ = cmd.Flags().GetString("chains-file")
	}

	if changed(cmd, "listen-addr") {
		cfg.API.ListenAddr, _ = cmd.Flags().GetString("listen-addr")
	}
	if changed(cmd, "read-timeout") {
		cfg.API.ReadTimeout, _ = cmd.Flags().GetDuration("read-timeout")
	}
	if changed(cmd, "write-timeout") {
		cfg.API.WriteTimeout, _ = cmd.Flags().GetDuration("write-timeout")
	}

	if changed(cmd, "metrics") {
		cfg.Metrics.Enabled, _ = cmd.Flags().GetBool("metrics")
	}
}

// changed reports whether flag name exists on cmd and was set.
func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}
