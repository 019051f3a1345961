package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3approve/internal/approve"
	"github.com/Mohsinsiddi/w3approve/internal/contract"
	"github.com/Mohsinsiddi/w3approve/internal/ens"
	"github.com/Mohsinsiddi/w3approve/internal/ui"
)

var (
	allowanceOwner   string
	allowanceNetwork string
)

var allowanceCmd = &cobra.Command{
	Use:   "allowance",
	Short: "Check the planned allowances on-chain",
	Long: `Query allowance(owner, spender) on every token of the approval plan and
compare it with the planned amount.

Examples:
  w3approve allowance
  w3approve allowance --owner deployer --network sepolia --testnet
  w3approve allowance --owner 0xOwner
  w3approve allowance --owner treasury.eth`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveChain(allowanceNetwork)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		spin := ui.NewSpinner(fmt.Sprintf("Querying allowances on %s...", c.DisplayName))
		spin.Start()
		client, err := connect(ctx, c)
		if err != nil {
			spin.Stop()
			return err
		}
		owner, err := resolveOwner(ctx, client, allowanceOwner)
		if err != nil {
			spin.Stop()
			return err
		}

		plan := currentPlan("")
		caller := contract.NewCaller(client, nil)
		t := ui.NewTable([]ui.Column{
			{Title: "Token"},
			{Title: "Symbol"},
			{Title: "Allowance", Right: true},
			{Title: "Planned", Right: true},
			{Title: "Status"},
		})
		for _, a := range plan.Approvals {
			symbol, _ := caller.Symbol(ctx, a.Token)
			decimals, derr := caller.Decimals(ctx, a.Token)
			if derr != nil {
				decimals = 18
			}

			got, err := caller.Allowance(ctx, a.Token, owner, plan.Spender)
			if err != nil {
				log.Debug("allowance query failed", "token", a.Label, "error", err)
			}
			row, rerr := allowanceRow(a, symbol, decimals, got)
			if rerr != nil {
				spin.Stop()
				return rerr
			}
			t.AddRow(row)
		}
		spin.Stop()

		fmt.Println(ui.KeyValueBlock("ERC-20 Allowances", [][2]string{
			{"Owner", ui.Addr(owner.Hex())},
			{"Spender", ui.Addr(plan.Spender.Hex())},
			{"Network", fmt.Sprintf("%s (%s)", c.DisplayName, cfg.NetworkMode)},
		}))
		fmt.Println(t.Render())
		return nil
	},
}

// allowanceRow renders one token's on-chain allowance next to the planned
// amount, both in whole-token units. A nil got marks a failed query.
func allowanceRow(a approve.Approval, symbol string, decimals uint8, got *big.Int) (ui.Row, error) {
	want, err := a.Amount.Big()
	if err != nil {
		return nil, fmt.Errorf("token %s: %w", a.Label, err)
	}
	planned := formatTokenAmount(want, int(decimals)) + " " + ui.Meta("("+a.Amount.String()+")")
	if got == nil {
		return ui.Row{ui.Val(a.Label), symbol, "-", planned, ui.Err("query failed")}, nil
	}

	status := ui.StyleSuccess.Render("granted")
	switch got.Cmp(want) {
	case -1:
		if got.Sign() == 0 {
			status = ui.StyleWarning.Render("none")
		} else {
			status = ui.StyleWarning.Render("partial")
		}
	case 1:
		status = ui.Meta("exceeds plan")
	}
	return ui.Row{ui.Val(a.Label), symbol, formatTokenAmount(got, int(decimals)), planned, status}, nil
}

// resolveOwner accepts an address, an ENS name, a wallet name, or nothing
// for the default wallet.
func resolveOwner(ctx context.Context, reader contract.Reader, owner string) (common.Address, error) {
	if ens.IsName(owner) {
		addr, err := ens.Resolve(ctx, reader, owner)
		if err != nil {
			return common.Address{}, err
		}
		log.Debug("ens resolved", "name", owner, "address", addr.Hex())
		return addr, nil
	}
	if strings.HasPrefix(owner, "0x") {
		if !common.IsHexAddress(owner) {
			return common.Address{}, fmt.Errorf("invalid owner address %q", owner)
		}
		return common.HexToAddress(owner), nil
	}
	name := owner
	if name == "" {
		name = cfg.DefaultWallet
	}
	w, err := newWalletManager().Resolve(name)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: pass --owner or set a default with `w3approve wallet use`", err)
	}
	return common.HexToAddress(w.Address), nil
}

func init() {
	allowanceCmd.Flags().StringVar(&allowanceOwner, "owner", "", "owner address, ENS name or wallet name (default: default wallet)")
	allowanceCmd.Flags().StringVar(&allowanceNetwork, "network", "", "chain (default: config)")
}
