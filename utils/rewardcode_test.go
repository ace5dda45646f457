package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRewardCode_Shape(t *testing.T) {
	code, err := GenerateRewardCode()
	require.NoError(t, err)
	require.Len(t, code, RewardCodeLength)
	for _, r := range code {
		require.True(t, strings.ContainsRune(rewardCodeAlphabet, r), "unexpected character %q", r)
	}
}

func TestGenerateRewardCode_NoCollisionsInBulk(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		code, err := GenerateRewardCode()
		require.NoError(t, err)
		_, dup := seen[code]
		require.False(t, dup, "collision after %d codes", i)
		seen[code] = struct{}{}
	}
}
