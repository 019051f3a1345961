package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/Mohsinsiddi/w3approve/internal/approve"
	"github.com/Mohsinsiddi/w3approve/internal/artifact"
	"github.com/Mohsinsiddi/w3approve/internal/chain"
	"github.com/Mohsinsiddi/w3approve/internal/config"
	"github.com/Mohsinsiddi/w3approve/internal/rpc"
	"github.com/Mohsinsiddi/w3approve/internal/ui"
	"github.com/Mohsinsiddi/w3approve/internal/wallet"
)

// newWalletManager creates a Manager backed by the config-dir JSON store.
func newWalletManager(opts ...wallet.Option) *wallet.Manager {
	opts = append([]wallet.Option{wallet.WithStore(wallet.NewJSONStore(cfg.WalletsPath()))}, opts...)
	return wallet.NewManager(opts...)
}

// resolveChain looks up name, or the configured default network.
func resolveChain(name string) (*chain.Chain, error) {
	if name == "" {
		name = cfg.DefaultNetwork
	}
	c, err := chain.NewRegistry().GetByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (see `w3approve config show`)", err, name)
	}
	return c, nil
}

// connect picks an RPC for c from the custom list followed by the built-in
// one, and checks the node serves the expected chain.
func connect(ctx context.Context, c *chain.Chain) (*chain.EVMClient, error) {
	var urls []string
	for _, u := range append(cfg.GetRPCs(c.Name), c.RPCs(cfg.NetworkMode)...) {
		if !slices.Contains(urls, u) {
			urls = append(urls, u)
		}
	}

	sctx, cancel := context.WithTimeout(ctx, config.RPCSelectTimeout)
	defer cancel()
	url, err := rpc.SelectBest(sctx, urls, cfg.RPCAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", c.DisplayName, cfg.NetworkMode, err)
	}
	log.Debug("rpc selected", "network", c.Name, "mode", cfg.NetworkMode, "url", url)

	client := chain.NewEVMClient(url)
	if id, err := client.ChainID(ctx); err == nil && id.Int64() != c.ChainID && cfg.NetworkMode == "mainnet" {
		actual := id.String()
		if other, err := chain.NewRegistry().GetByChainID(id.Int64()); err == nil {
			actual = other.DisplayName
		}
		fmt.Fprintln(os.Stderr, ui.Warn(fmt.Sprintf("RPC %s serves %s, not %s", url, actual, c.DisplayName)))
	}
	return client, nil
}

// artifactStore chooses where the contract artifact is read from. Flags beat
// config, and a URL beats a directory.
func artifactStore(dirFlag, urlFlag string) (approve.ArtifactStore, string) {
	switch {
	case urlFlag != "":
		return artifact.NewHTTPStore(urlFlag), urlFlag
	case dirFlag != "":
		return artifact.NewDirStore(dirFlag), dirFlag
	case cfg.ArtifactsURL != "":
		return artifact.NewHTTPStore(cfg.ArtifactsURL), cfg.ArtifactsURL
	default:
		return artifact.NewDirStore(cfg.ArtifactsDir), cfg.ArtifactsDir
	}
}

// currentPlan is DefaultPlan with the configured contract name.
func currentPlan(contractFlag string) approve.Plan {
	p := approve.DefaultPlan()
	switch {
	case contractFlag != "":
		p.ContractName = contractFlag
	case cfg.ContractName != "":
		p.ContractName = cfg.ContractName
	}
	return p
}
