// Package artifact loads compiled contract artifacts (the JSON files Remix,
// Hardhat and Foundry write next to a contract) from a file store.
package artifact

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Errors.
var (
	ErrNotFound        = errors.New("artifact not found")
	ErrInvalidArtifact = errors.New("invalid artifact")
)

// artifactsDir is where Remix writes compilation artifacts inside its
// workspace file tree.
const artifactsDir = "browser/contracts/artifacts"

// Store retrieves files by workspace-relative path.
type Store interface {
	GetFile(ctx context.Context, path string) ([]byte, error)
}

// Artifact is the part of a compiled contract artifact w3approve cares about.
type Artifact struct {
	Name     string
	ABI      json.RawMessage // the raw "abi" array
	Bytecode []byte          // deployment bytecode, nil when absent
}

// Path returns the Remix artifact path for a contract name.
func Path(contractName string) string {
	return artifactsDir + "/" + contractName + ".json"
}

// Load fetches Path(contractName) from store and parses it.
func Load(ctx context.Context, store Store, contractName string) (*Artifact, error) {
	path := Path(contractName)
	data, err := store.GetFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	a, err := Parse(contractName, data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return a, nil
}

// Parse decodes an artifact document. The document must be a JSON object
// with an "abi" array holding at least one function, event or constructor.
// Bytecode is optional and accepted in both common layouts:
//
//	Hardhat / Remix: "bytecode": "0x6080..."
//	Foundry:         "bytecode": {"object": "0x6080..."}
func Parse(name string, data []byte) (*Artifact, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidArtifact)
	}
	if data[0] == '[' {
		return nil, fmt.Errorf("%w: file is a bare ABI array, expected an object with an \"abi\" key", ErrInvalidArtifact)
	}

	var raw struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode json.RawMessage `json:"bytecode"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}
	if len(raw.ABI) < 2 || raw.ABI[0] != '[' {
		return nil, fmt.Errorf("%w: no \"abi\" array", ErrInvalidArtifact)
	}
	if err := validateABI(raw.ABI); err != nil {
		return nil, err
	}

	a := &Artifact{Name: name, ABI: raw.ABI}
	if len(raw.Bytecode) > 0 && string(raw.Bytecode) != "null" {
		bc, err := extractBytecode(raw.Bytecode)
		if err != nil {
			return nil, err
		}
		a.Bytecode = bc
	}
	return a, nil
}

// validateABI checks that the ABI array has at least one callable entry.
func validateABI(abi json.RawMessage) error {
	var entries []struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(abi, &entries); err != nil {
		return fmt.Errorf("%w: abi is not an array of entries: %v", ErrInvalidArtifact, err)
	}
	for _, e := range entries {
		if e.Type == "function" || e.Type == "event" || e.Type == "constructor" {
			return nil
		}
	}
	return fmt.Errorf("%w: abi has %d entries but none are functions or events", ErrInvalidArtifact, len(entries))
}

func extractBytecode(raw json.RawMessage) ([]byte, error) {
	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: bytecode is neither a hex string nor a {\"object\":\"0x...\"} object", ErrInvalidArtifact)
		}
		str = obj.Object
	}
	str = strings.TrimPrefix(strings.TrimSpace(str), "0x")
	if str == "" {
		return nil, nil
	}
	bc, err := hex.DecodeString(str)
	if err != nil {
		return nil, fmt.Errorf("%w: bytecode hex: %v", ErrInvalidArtifact, err)
	}
	return bc, nil
}
