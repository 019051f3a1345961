package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3approve/internal/approve"
	"github.com/Mohsinsiddi/w3approve/internal/config"
	"github.com/Mohsinsiddi/w3approve/internal/logger"
	"github.com/Mohsinsiddi/w3approve/internal/ui"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/w3approve/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	envFile string
	cfg     *config.Config
	log     logger.Logger = logger.Nop()
	verbose bool
	testnet bool
	mainnet bool
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "w3approve",
	Short: "Grant the fixed ERC-20 allowances of the ERC20Token deployment",
	Long: `w3approve loads the ERC20Token artifact, binds the three deployed tokens
through your signing wallet and sends approve(spender, amount) to each.

Settings come from ~/.w3approve/config.json, then .env, then W3APPROVE_*
environment variables, then flags.

Global flags --testnet and --mainnet override the configured network mode
for a single invocation.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		if err := config.LoadDotEnv(envFile); err != nil {
			return fmt.Errorf("loading %s: %w", envFile, err)
		}
		dir := cfgDir
		if !cmd.Flags().Changed("config") {
			if v := os.Getenv(config.EnvConfigDir); v != "" {
				dir = v
			}
		}
		var err error
		cfg, err = config.Load(dir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg.ApplyEnv(os.LookupEnv)
		if testnet {
			cfg.NetworkMode = "testnet"
		}
		if mainnet {
			cfg.NetworkMode = "mainnet"
		}

		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		log = logger.New(level)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// The runner has already logged its setup failures.
		if !errors.Is(err, approve.ErrSetup) {
			fmt.Fprintln(os.Stderr, ui.Err(err.Error()))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default: ~/.w3approve, or $"+config.EnvConfigDir+")")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVar(&testnet, "testnet", false, "use testnet instead of mainnet")
	rootCmd.PersistentFlags().BoolVar(&mainnet, "mainnet", false, "use mainnet instead of testnet")
	rootCmd.MarkFlagsMutuallyExclusive("testnet", "mainnet")

	rootCmd.AddCommand(
		runCmd,
		planCmd,
		allowanceCmd,
		walletCmd,
		configCmd,
	)
}
