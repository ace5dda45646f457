package utils

import (
	"crypto/rand"
	"fmt"
)

// Alphabet for reward codes: upper-case letters and digits minus the
// lookalikes (0/O, 1/I/L), since cashiers read these codes off a phone screen.
const rewardCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// RewardCodeLength of 20 chars over a 31-symbol alphabet is ~99 bits, which
// keeps collision odds negligible at any plausible claim volume. The unique
// index on claims.reward_code catches the rest.
const RewardCodeLength = 20

// GenerateRewardCode produces an opaque redemption token from a
// cryptographically-strong random source.
func GenerateRewardCode() (string, error) {
	buf := make([]byte, RewardCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	code := make([]byte, RewardCodeLength)
	for i, b := range buf {
		code[i] = rewardCodeAlphabet[int(b)%len(rewardCodeAlphabet)]
	}
	return string(code), nil
}
