package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3approve/internal/chain"
	"github.com/Mohsinsiddi/w3approve/internal/rpc"
	"github.com/Mohsinsiddi/w3approve/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"list"},
	Short:   "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", ui.StyleTitle.Render("Current Configuration"), data)
		fmt.Fprintln(cmd.OutOrStdout(), ui.Meta("Config directory: "+cfg.Dir()))
		return nil
	},
}

var configSetNetworkCmd = &cobra.Command{
	Use:   "set-network <chain>",
	Short: "Set the default network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.ToLower(args[0])
		if _, err := chain.NewRegistry().GetByName(name); err != nil {
			return fmt.Errorf("%w: %q", err, name)
		}
		cfg.DefaultNetwork = name
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("Default network set to %q", name)))
		return nil
	},
}

var configSetAlgorithmCmd = &cobra.Command{
	Use:       "set-rpc-algorithm <fastest|failover>",
	Short:     "Choose how an RPC endpoint is picked",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(rpc.AlgorithmFastest), string(rpc.AlgorithmFailover)},
	RunE: func(cmd *cobra.Command, args []string) error {
		algo := rpc.Algorithm(args[0])
		if algo != rpc.AlgorithmFastest && algo != rpc.AlgorithmFailover {
			return fmt.Errorf("unknown RPC algorithm %q", args[0])
		}
		cfg.RPCAlgorithm = string(algo)
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("RPC algorithm set to %q", algo)))
		return nil
	},
}

var configAddRPCCmd = &cobra.Command{
	Use:   "add-rpc <chain> <url>",
	Short: "Add a custom RPC for a chain (tried before the built-in ones)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := strings.ToLower(args[0]), args[1]
		if err := cfg.AddRPC(chainName, url); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn(err.Error()))
			return nil
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("RPC %s added for %s", url, chainName)))
		return nil
	},
}

var configRemoveRPCCmd = &cobra.Command{
	Use:   "remove-rpc <chain> <url>",
	Short: "Remove a custom RPC",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, url := strings.ToLower(args[0]), args[1]
		if err := cfg.RemoveRPC(chainName, url); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.Success(fmt.Sprintf("RPC %s removed from %s", url, chainName)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetNetworkCmd, configSetAlgorithmCmd, configAddRPCCmd, configRemoveRPCCmd)
}
