package ui

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerWritesMessageAndStops(t *testing.T) {
	var out syncBuffer
	s := NewSpinner("Connecting to RPC...")
	s.out = &out

	s.Start()
	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("Connecting to RPC..."))
	}, time.Second, 10*time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithMsg(t *testing.T) {
	printed := withInput(t, "")
	s := NewSpinner("Broadcasting...")
	s.out = &syncBuffer{}
	s.Start()
	s.StopWithMsg("done")
	assert.Equal(t, "done\n", printed.String())
}
