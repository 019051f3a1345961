package approve

import "github.com/ethereum/go-ethereum/common"

// Approval is one approve(spender, amount) call on Token.
type Approval struct {
	Label  string
	Token  common.Address
	Amount Amount
}

// Plan is the full set of approvals issued by one run.
type Plan struct {
	ContractName string
	Spender      common.Address
	Approvals    []Approval
}

// DefaultPlan returns the fixed approvals of the ERC20Token deployment.
func DefaultPlan() Plan {
	return Plan{
		ContractName: "ERC20Token",
		Spender:      common.HexToAddress("0x10B67ae672663907e6A54c33EcB367Ab6e86209b"),
		Approvals: []Approval{
			{
				Label:  "A",
				Token:  common.HexToAddress("0x1d229c1278b16c2089765178d477FAC44416fF31"),
				Amount: Pow(100, 7),
			},
			{
				Label:  "B",
				Token:  common.HexToAddress("0x9746b8825AB2C2eb000A45b39dec588dE1b8752D"),
				Amount: Pow(100, 18),
			},
			{
				Label:  "C",
				Token:  common.HexToAddress("0x43064d0BC8429E8880e06f97d8E9160Ef1bc51E4"),
				Amount: Amount{Coeff: 5, Base: 10, Exp: 7},
			},
		},
	}
}
