package config

import "time"

// Gas limit used when the node cannot estimate an approve call.
const GasLimitApprove = uint64(60_000)

// Timeouts used by the cmd layer.
const (
	RPCSelectTimeout    = 10 * time.Second
	DefaultDrainTimeout = 30 * time.Second
)

// Priority fee offered on EIP-1559 transactions, capped at the node's gas price.
const DefaultPriorityFeeWei = int64(1_500_000_000)
