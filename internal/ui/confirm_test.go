package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withInput(t *testing.T, in string) *bytes.Buffer {
	t.Helper()
	var out bytes.Buffer
	oldIn, oldOut := Input, Output
	Input, Output = strings.NewReader(in), &out
	t.Cleanup(func() { Input, Output = oldIn, oldOut })
	return &out
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		out := withInput(t, tt.in)
		assert.Equal(t, tt.want, Confirm("Send 3 approvals?"), "%q", tt.in)
		assert.Contains(t, out.String(), "Send 3 approvals? [y/N]")
	}
}

func TestConfirmDanger(t *testing.T) {
	out := withInput(t, "y\n")
	assert.True(t, ConfirmDanger("Remove wallet?"))
	assert.Contains(t, out.String(), "⚠ Remove wallet?")
}
