package host

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestOverlayRevert(t *testing.T) {
	s := NewStorageOverlay()
	s.Store(addrA, key1, val1)

	mark := s.mark()
	prev, cold := s.Store(addrA, key1, val2)
	require.Equal(t, val1, prev)
	require.False(t, cold)
	_, cold = s.Store(addrA, key2, val2)
	require.True(t, cold)
	s.Store(addrA, key2, val1)

	s.revertTo(mark)
	require.Equal(t, val1, s.Get(addrA, key1))
	require.Equal(t, common.Hash{}, s.Get(addrA, key2))
	require.Equal(t, 2, s.Len(addrA))

	_, cold = s.Load(addrA, key2)
	require.False(t, cold)
}

func TestOverlayGetDoesNotTouch(t *testing.T) {
	s := NewStorageOverlay()
	require.Equal(t, common.Hash{}, s.Get(addrB, key1))
	require.Zero(t, s.Len(addrB))
	_, cold := s.Load(addrB, key1)
	require.True(t, cold)
}
