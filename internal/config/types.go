package config

// Config holds all w3approve configuration.
type Config struct {
	DefaultNetwork string              `json:"default_network"`
	DefaultWallet  string              `json:"default_wallet"`
	NetworkMode    string              `json:"network_mode"`  // "mainnet" | "testnet"
	RPCAlgorithm   string              `json:"rpc_algorithm"` // "fastest" | "failover"
	CustomRPCs     map[string][]string `json:"custom_rpcs"`

	// Where the ERC20Token artifact lives. ArtifactsURL wins when both are set.
	ArtifactsDir string `json:"artifacts_dir"`
	ArtifactsURL string `json:"artifacts_url,omitempty"`
	ContractName string `json:"contract_name"`

	LogLevel string `json:"log_level"`

	// internal: config dir path used for Save()
	configDir string
}
