package utils

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeferredWriter_HoldsUntilFlush(t *testing.T) {
	var d DeferredWriter

	for _, part := range []string{"dropped ", "a ", "progress write"} {
		n, err := d.Write([]byte(part))
		require.NoError(t, err)
		assert.Equal(t, len(part), n)
	}
	assert.Equal(t, len("dropped a progress write"), d.Len())

	var first, second bytes.Buffer
	require.NoError(t, d.Flush(&first))
	require.NoError(t, d.Flush(&second))

	assert.Equal(t, "dropped a progress write", first.String())
	assert.Empty(t, second.String(), "flush drains the buffer")
	assert.Zero(t, d.Len())
}

func TestDeferredWriter_ConcurrentWrites(t *testing.T) {
	var (
		d  DeferredWriter
		wg sync.WaitGroup
	)

	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Write([]byte("."))
		}()
	}
	wg.Wait()

	var out bytes.Buffer
	require.NoError(t, d.Flush(&out))
	assert.Equal(t, strings.Repeat(".", 64), out.String())
}

func TestDeferredWriter_Release(t *testing.T) {
	var d DeferredWriter
	_, _ = d.Write([]byte("held "))

	var out bytes.Buffer
	require.NoError(t, d.Release(&out))
	assert.Equal(t, "held ", out.String())

	_, err := d.Write([]byte("live"))
	require.NoError(t, err)
	assert.Equal(t, "held live", out.String(), "writes pass through after release")
	assert.Zero(t, d.Len())
}

func TestDeferredWriter_ReleaseEmpty(t *testing.T) {
	var d DeferredWriter
	var out bytes.Buffer

	require.NoError(t, d.Release(&out))
	assert.Empty(t, out.String())
}
