package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// Workspace is a Remix-style workspace root holding the ERC20Token artifact
// under browser/contracts/artifacts.
func Workspace() string {
	return filepath.Join(fixturesDir(), "workspace")
}

// LoadArtifact returns the raw bytes of a workspace artifact.
func LoadArtifact(t *testing.T, contractName string) []byte {
	t.Helper()
	path := filepath.Join(Workspace(), "browser", "contracts", "artifacts", contractName+".json")
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture artifact: %s", contractName)
	return data
}

// CopyWorkspace copies the fixture workspace into a temp dir so a test can
// modify or delete files in it.
func CopyWorkspace(t *testing.T) string {
	t.Helper()
	dst := t.TempDir()
	err := filepath.WalkDir(Workspace(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(Workspace(), path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err)
	return dst
}
