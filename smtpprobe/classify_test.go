package smtpprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyAccepted_NoProbesConfigured(t *testing.T) {
	result, reason, conf := classifyAccepted(catchallTally{}, 0)
	assert.Equal(t, Exists, result)
	assert.Equal(t, confidenceMedium, conf)
	assert.Contains(t, reason, "disabled")
}

func TestClassifyAccepted_AllSyntheticRejected(t *testing.T) {
	result, _, conf := classifyAccepted(catchallTally{rejected: 2}, 2)
	assert.Equal(t, Exists, result)
	assert.Equal(t, confidenceHigh, conf)
}

func TestClassifyAccepted_AnySyntheticAccepted(t *testing.T) {
	// One acceptance flips the verdict regardless of the other votes.
	for _, tally := range []catchallTally{
		{accepted: 1},
		{accepted: 1, rejected: 1},
		{accepted: 2, excluded: 1},
	} {
		result, _, conf := classifyAccepted(tally, 3)
		assert.Equal(t, CatchAll, result)
		assert.Equal(t, confidenceCatchAll, conf)
	}
}

func TestClassifyAccepted_AllProbesExcluded(t *testing.T) {
	result, _, conf := classifyAccepted(catchallTally{excluded: 3}, 3)
	assert.Equal(t, Exists, result)
	assert.Equal(t, confidenceDegraded, conf)
}

func TestClassifyAccepted_MixedRejectedAndExcluded(t *testing.T) {
	// Errored probes are excluded from the vote, not counted as accepts.
	result, _, conf := classifyAccepted(catchallTally{rejected: 1, excluded: 2}, 3)
	assert.Equal(t, Exists, result)
	assert.Equal(t, confidenceHigh, conf)
}

func TestClassifyRejected(t *testing.T) {
	result, reason, conf := classifyRejected(550)
	assert.Equal(t, DoesNotExist, result)
	assert.Equal(t, confidenceHigh, conf)
	assert.Contains(t, reason, "550")
}

func TestConfidenceBandsAreOrdered(t *testing.T) {
	assert.Greater(t, confidenceHigh, confidenceCatchAll)
	assert.Greater(t, confidenceCatchAll, confidenceMedium)
	assert.Greater(t, confidenceMedium, confidenceDegraded)
	assert.Greater(t, confidenceDegraded, confidenceLow)
	assert.Greater(t, confidenceLow, confidenceLowest)
}

func TestParseCapabilities(t *testing.T) {
	caps := parseCapabilities([]string{
		"mx.example.com greets you",
		"STARTTLS",
		"SIZE 35882577",
		"8BITMIME",
		"X-SOMETHING odd",
	})
	assert.True(t, caps[capStartTLS])
	assert.True(t, caps[capSize])
	assert.Len(t, caps, 2) // unknown keywords stay inert
}

func TestParseCapabilities_FirstLineIsIdentification(t *testing.T) {
	// A server whose identification happens to start with STARTTLS must
	// not count as advertising it.
	caps := parseCapabilities([]string{"STARTTLS.example.com"})
	assert.Empty(t, caps)
}

func TestSplitAddress(t *testing.T) {
	local, domain, ok := splitAddress("user@example.com")
	assert.True(t, ok)
	assert.Equal(t, "user", local)
	assert.Equal(t, "example.com", domain)

	// The last @ wins for quoted-ish locals.
	_, domain, ok = splitAddress(`"a@b"@example.org`)
	assert.True(t, ok)
	assert.Equal(t, "example.org", domain)

	for _, bad := range []string{"", "user", "@example.com", "user@"} {
		_, _, ok := splitAddress(bad)
		assert.False(t, ok, bad)
	}
}

func TestRandomLocalPart(t *testing.T) {
	assert.Len(t, randomLocalPart(0), 6)
	assert.Len(t, randomLocalPart(12), 12)
	assert.Len(t, randomLocalPart(100), 32)

	for _, ch := range randomLocalPart(32) {
		assert.Contains(t, localPartAlphabet, string(ch))
	}
}
