package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierOrder(t *testing.T) {
	t.Parallel()

	tiers := Tiers()
	require.Len(t, tiers, 6)
	for i := 1; i < len(tiers); i++ {
		assert.Less(t, tiers[i-1], tiers[i])
	}
	assert.Equal(t, Name, tiers[0])
	assert.Equal(t, Full, tiers[len(tiers)-1])
}

func TestTierNext(t *testing.T) {
	t.Parallel()

	next, ok := Name.Next()
	assert.True(t, ok)
	assert.Equal(t, Signature, next)

	next, ok = Docstring.Next()
	assert.True(t, ok)
	assert.Equal(t, Full, next)

	_, ok = Full.Next()
	assert.False(t, ok)
}

func TestParseTier(t *testing.T) {
	t.Parallel()

	for _, tier := range Tiers() {
		got, err := ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, got)
	}

	_, err := ParseTier("everything")
	assert.Error(t, err)
	assert.Equal(t, "tier(9)", Tier(9).String())
}
