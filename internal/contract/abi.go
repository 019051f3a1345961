package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"golang.org/x/crypto/sha3"
)

// ErrMethodNotFound is returned when a method is not part of an ABI.
var ErrMethodNotFound = errors.New("method not found in ABI")

// ABIEntry is one ABI entry (function, event, etc.).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// Signature returns the canonical signature, e.g. "approve(address,uint256)".
func (e ABIEntry) Signature() string {
	types := make([]string, len(e.Inputs))
	for i, p := range e.Inputs {
		types[i] = p.Type
	}
	return e.Name + "(" + strings.Join(types, ",") + ")"
}

// Selector computes the 4-byte function selector.
func (e ABIEntry) Selector() [4]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(e.Signature()))
	var sel [4]byte
	copy(sel[:], h.Sum(nil)[:4])
	return sel
}

// ABI is a parsed contract interface description. It keeps the raw entry
// list for lookups and a go-ethereum ABI for encoding.
type ABI struct {
	entries []ABIEntry
	parsed  abi.ABI
}

// ParseABI parses a JSON ABI array.
func ParseABI(raw []byte) (*ABI, error) {
	var entries []ABIEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("invalid ABI JSON: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("invalid ABI: %w", err)
	}
	return &ABI{entries: entries, parsed: parsed}, nil
}

// NewABI builds an ABI from entries.
func NewABI(entries []ABIEntry) (*ABI, error) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return nil, err
	}
	return ParseABI(raw)
}

// Entries returns every entry in declaration order.
func (a *ABI) Entries() []ABIEntry {
	return a.entries
}

// Function finds the first function entry called name.
func (a *ABI) Function(name string) (*ABIEntry, bool) {
	for i := range a.entries {
		if a.entries[i].Type == "function" && a.entries[i].Name == name {
			return &a.entries[i], true
		}
	}
	return nil, false
}

// Require checks that a function with the exact signature exists.
func (a *ABI) Require(signature string) error {
	for _, e := range a.entries {
		if e.Type == "function" && e.Signature() == signature {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrMethodNotFound, signature)
}

// method looks up a method by name, or by its exact signature when method
// contains "(". Bare names pick go-ethereum's first-declared overload.
func (a *ABI) method(method string) (abi.Method, bool) {
	if !strings.Contains(method, "(") {
		m, ok := a.parsed.Methods[method]
		return m, ok
	}
	for _, m := range a.parsed.Methods {
		if m.Sig == method {
			return m, true
		}
	}
	return abi.Method{}, false
}

// Pack encodes a call to method with args. method is a name or an exact
// signature such as "approve(address,uint256)".
func (a *ABI) Pack(method string, args ...any) ([]byte, error) {
	m, ok := a.method(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	enc, err := m.Inputs.Pack(args...)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", method, err)
	}
	data := make([]byte, 0, len(m.ID)+len(enc))
	data = append(data, m.ID...)
	return append(data, enc...), nil
}

// Unpack decodes the return data of method.
func (a *ABI) Unpack(method string, data []byte) ([]any, error) {
	m, ok := a.method(method)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMethodNotFound, method)
	}
	out, err := m.Outputs.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", method, err)
	}
	return out, nil
}
