package e2e_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary before all E2E tests.
	tmp, err := os.MkdirTemp("", "w3approve-e2e-test")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "w3approve")
	// Build from the module root (two levels up from test/e2e/).
	moduleRoot, err := filepath.Abs(filepath.Join("..", ".."))
	if err != nil {
		panic(err)
	}
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Dir = moduleRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("build failed: " + string(out))
	}

	os.Exit(m.Run())
}

func command(configDir string, args ...string) *exec.Cmd {
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = configDir
	cmd.Env = append(os.Environ(),
		"W3APPROVE_CONFIG_DIR="+configDir,
		"W3APPROVE_KEY=",
		"W3APPROVE_ARTIFACTS_URL=",
		"W3APPROVE_ARTIFACTS_DIR=",
	)
	return cmd
}

func runCLI(t *testing.T, configDir string, args ...string) (string, error) {
	t.Helper()
	out, err := command(configDir, args...).CombinedOutput()
	return string(out), err
}

func TestVersionFlag(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "w3approve")
	assert.Contains(t, out, "0.1.0")
}

func TestHelpCommand(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "w3approve")
	for _, sub := range []string{"run", "plan", "allowance", "wallet", "config"} {
		assert.Contains(t, out, sub)
	}
	assert.Contains(t, out, "--testnet")
	assert.Contains(t, out, "--mainnet")
}

func TestPlanShowsFixedApprovals(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "plan")
	require.NoError(t, err)
	assert.Contains(t, out, "0x10B67ae672663907e6A54c33EcB367Ab6e86209b")
	assert.Contains(t, out, "0x1d229c1278b16c2089765178d477FAC44416fF31")
	assert.Contains(t, out, "100000000000000")
	assert.Contains(t, out, "1000000000000000000000000000000000000")
	assert.Contains(t, out, "50000000")
}

func TestRunWithoutArtifactFails(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "run", "--yes", "--artifacts-dir", t.TempDir(), "--network", "local")
	require.Error(t, err)
	assert.Contains(t, out, "browser/contracts/artifacts/ERC20Token.json")
	assert.NotContains(t, out, "dispatched")
}

func TestRunCancelledAtPrompt(t *testing.T) {
	dir := t.TempDir()
	cmd := command(dir, "run", "--artifacts-dir", t.TempDir())
	cmd.Stdin = strings.NewReader("n\n")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "Cancelled")
}

func TestWalletAddAndList(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "wallet", "add", "treasury", "0x1234567890abcdef1234567890abcdef12345678")
	require.NoError(t, err)

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "treasury")
	assert.Contains(t, out, "0x1234")
}

func TestWalletRemove(t *testing.T) {
	dir := t.TempDir()

	runCLI(t, dir, "wallet", "add", "w1", "0x1234567890abcdef1234567890abcdef12345678") //nolint:errcheck

	cmd := command(dir, "wallet", "remove", "w1")
	cmd.Stdin = strings.NewReader("y\n")
	cmd.Run() //nolint:errcheck

	out, err := runCLI(t, dir, "wallet", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "w1")
}

func TestWalletUseUnknown(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "wallet", "use", "ghost")
	assert.Error(t, err)
}

func TestConfigShow(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "default_network")
	assert.Contains(t, out, "contract_name")
	assert.Contains(t, out, "ERC20Token")
}

func TestConfigSetNetwork(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-network", "polygon")
	require.NoError(t, err)

	out, _ := runCLI(t, dir, "config", "show")
	assert.Contains(t, out, "polygon")

	_, err = runCLI(t, dir, "config", "set-network", "solana")
	assert.Error(t, err)
}

func TestConfigAddAndRemoveRPC(t *testing.T) {
	dir := t.TempDir()

	_, err := runCLI(t, dir, "config", "add-rpc", "base", "https://custom.rpc.url")
	require.NoError(t, err)
	out, _ := runCLI(t, dir, "config", "show")
	assert.Contains(t, out, "custom.rpc.url")

	_, err = runCLI(t, dir, "config", "remove-rpc", "base", "https://custom.rpc.url")
	require.NoError(t, err)
	out, _ = runCLI(t, dir, "config", "show")
	assert.NotContains(t, out, "custom.rpc.url")
}

func TestConfigRPCAlgorithm(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "config", "set-rpc-algorithm", "failover")
	require.NoError(t, err)

	out, _ := runCLI(t, dir, "config", "show")
	assert.Contains(t, out, "failover")

	_, err = runCLI(t, dir, "config", "set-rpc-algorithm", "round-robin")
	assert.Error(t, err)
}

func TestEnvOverridesConfig(t *testing.T) {
	dir := t.TempDir()
	cmd := command(dir, "config", "show")
	cmd.Env = append(cmd.Env, "W3APPROVE_CONTRACT=MyToken")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(out), "MyToken")
}

func TestDotEnvFileIsLoaded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("W3APPROVE_NETWORK=arbitrum\n"), 0o600))

	out, err := runCLI(t, dir, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "arbitrum")
}

func TestTestnetMainnetMutuallyExclusive(t *testing.T) {
	dir := t.TempDir()
	_, err := runCLI(t, dir, "--testnet", "--mainnet", "config", "show")
	assert.Error(t, err)
}

func TestGlobalTestnetFlagInherited(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "config", "show", "--testnet")
	require.NoError(t, err)
	assert.Contains(t, out, `"network_mode": "testnet"`)
}

func TestUnknownCommandShowsError(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "unknowncommand")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(out), "unknown command")
}

func TestRunHelpShowsFlags(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "run", "--help")
	require.NoError(t, err)
	for _, f := range []string{"--artifacts-dir", "--artifacts-url", "--await", "--wallet", "--testnet"} {
		assert.Contains(t, out, f)
	}
}
