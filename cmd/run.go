package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3approve/internal/approve"
	"github.com/Mohsinsiddi/w3approve/internal/chain"
	"github.com/Mohsinsiddi/w3approve/internal/config"
	"github.com/Mohsinsiddi/w3approve/internal/contract"
	"github.com/Mohsinsiddi/w3approve/internal/ui"
	"github.com/Mohsinsiddi/w3approve/internal/wallet"
)

var (
	runArtifactsDir string
	runArtifactsURL string
	runContract     string
	runWallet       string
	runNetwork      string
	runAwait        bool
	runYes          bool
	runDrainTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Send the planned approve transactions",
	Long: `Load the ERC20Token artifact, bind tokens A, B and C through the signing
wallet and send approve(spender, amount) to each of them in order.

By default the transactions are handed to the node without waiting for the
results; use --await to wait until every one is accepted and fail if any
is rejected. Mining is never awaited.

Examples:
  w3approve run --artifacts-dir ./workspace
  w3approve run --wallet deployer --network sepolia --testnet --yes
  w3approve run --artifacts-url http://localhost:65520 --await`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan := currentPlan(runContract)
		store, source := artifactStore(runArtifactsDir, runArtifactsURL)
		c, err := resolveChain(runNetwork)
		if err != nil {
			return err
		}
		walletName := runWallet
		if walletName == "" {
			walletName = cfg.DefaultWallet
		}

		preview, err := renderPlan(plan)
		if err != nil {
			return err
		}
		walletLabel := walletName
		if walletLabel == "" {
			walletLabel = "(default)"
		}
		fmt.Println(ui.KeyValueBlock("Run", [][2]string{
			{"Artifacts", source},
			{"Network", fmt.Sprintf("%s (%s)", ui.ChainName(c.DisplayName), cfg.NetworkMode)},
			{"Wallet", walletLabel},
		}))
		fmt.Println(preview)

		if !runYes && !ui.Confirm(fmt.Sprintf("Send %d approve transactions?", len(plan.Approvals))) {
			fmt.Println(ui.Meta("Cancelled."))
			return nil
		}

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		provider := &connectingProvider{
			chain: c,
			Provider: wallet.Provider{
				Wallets:    newWalletManager(),
				WalletName: walletName,
				Logger:     log,
			},
		}
		runner := approve.NewRunner(store, provider,
			approve.WithPlan(plan),
			approve.WithLogger(log),
			approve.WithAwait(runAwait),
		)

		runErr := runner.Run(ctx)
		if runErr == nil {
			if runAwait {
				fmt.Println(ui.Success(fmt.Sprintf("%d approve transactions accepted by the node.", len(plan.Approvals))))
			} else {
				fmt.Println(ui.Success(fmt.Sprintf("%d approve transactions dispatched.", len(plan.Approvals))))
			}
			if ex := c.Explorer(cfg.NetworkMode); ex != "" && provider.address != "" {
				fmt.Println(ui.Hint("Track them at " + ex + "/address/" + provider.address))
			}
		}

		dctx, cancel := context.WithTimeout(context.Background(), runDrainTimeout)
		defer cancel()
		if err := runner.Drain(dctx); err != nil {
			log.Error("approvals still queued at exit", "error", err)
		}
		if err := provider.Close(dctx); err != nil {
			log.Error("closing signer", "error", err)
		}
		return runErr
	},
}

// connectingProvider defers RPC selection and keychain access until the
// runner asks for a signer, so artifact problems surface without touching
// the network.
type connectingProvider struct {
	wallet.Provider
	chain   *chain.Chain
	address string
}

func (p *connectingProvider) Signer(ctx context.Context) (contract.Signer, error) {
	spin := ui.NewSpinner(fmt.Sprintf("Connecting to %s...", p.chain.DisplayName))
	spin.Start()
	client, err := connect(ctx, p.chain)
	spin.Stop()
	if err != nil {
		return nil, err
	}
	p.Client = client
	if p.Keys == nil {
		p.Keys = wallet.DefaultKeystore()
	}

	s, err := p.Provider.Signer(ctx)
	if err != nil {
		return nil, err
	}
	p.address = s.Address().Hex()
	return s, nil
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&runArtifactsDir, "artifacts-dir", "", "workspace directory holding browser/contracts/artifacts (default: config)")
	f.StringVar(&runArtifactsURL, "artifacts-url", "", "base URL serving the workspace files (overrides --artifacts-dir)")
	f.StringVar(&runContract, "contract", "", "artifact contract name (default: config)")
	f.StringVar(&runWallet, "wallet", "", "signing wallet (default: config)")
	f.StringVar(&runNetwork, "network", "", "chain (default: config)")
	f.BoolVar(&runAwait, "await", false, "wait until the node accepts every transaction")
	f.BoolVarP(&runYes, "yes", "y", false, "skip the confirmation prompt")
	f.DurationVar(&runDrainTimeout, "drain-timeout", config.DefaultDrainTimeout, "how long to wait for queued transactions before exiting")
}
