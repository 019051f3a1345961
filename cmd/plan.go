package cmd

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/w3approve/internal/approve"
	"github.com/Mohsinsiddi/w3approve/internal/ui"
)

var planContract string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the approvals a run would send",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := renderPlan(currentPlan(planContract))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

// renderPlan shows the spender and one row per approval with both the
// symbolic and the exact amount.
func renderPlan(p approve.Plan) (string, error) {
	t := ui.NewTable([]ui.Column{
		{Title: "Token"},
		{Title: "Address", Width: 42},
		{Title: "Amount"},
		{Title: "Exact", Right: true},
	})
	for _, a := range p.Approvals {
		v, err := a.Amount.Big()
		if err != nil {
			return "", fmt.Errorf("token %s: %w", a.Label, err)
		}
		t.AddRow(ui.Row{ui.Val(a.Label), ui.Addr(a.Token.Hex()), a.Amount.String(), ui.Val(v.String())})
	}

	var sb strings.Builder
	sb.WriteString(ui.KeyValueBlock("Approval plan", [][2]string{
		{"Contract", p.ContractName},
		{"Spender", ui.Addr(p.Spender.Hex())},
		{"Approvals", fmt.Sprint(len(p.Approvals))},
	}))
	sb.WriteString("\n")
	sb.WriteString(t.Render())
	return sb.String(), nil
}

// formatTokenAmount renders raw in whole-token units.
func formatTokenAmount(raw *big.Int, decimals int) string {
	if decimals <= 0 {
		return raw.String()
	}
	div := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	f := new(big.Float).SetInt(raw)
	f.Quo(f, new(big.Float).SetInt(div))
	return f.Text('f', decimals)
}

func init() {
	planCmd.Flags().StringVar(&planContract, "contract", "", "artifact contract name (default: config)")
}
