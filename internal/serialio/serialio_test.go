package serialio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipePairRoundTrips(t *testing.T) {
	a, b := NewPipePair()
	defer a.Close()
	defer b.Close()

	go func() {
		require.NoError(t, a.Write([]byte{0x01, 0x02, 0x00}))
	}()

	for _, want := range []byte{0x01, 0x02, 0x00} {
		got, err := b.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestPipePairIsFullDuplex(t *testing.T) {
	a, b := NewPipePair()
	defer a.Close()
	defer b.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		require.NoError(t, b.Write([]byte{0xAA}))
	}()

	got, err := a.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), got)
	<-done
}

func TestPipeTransportCloseIsIdempotent(t *testing.T) {
	a, _ := NewPipePair()
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}
