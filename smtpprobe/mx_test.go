package smtpprobe_test

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mailaudit/smtpprobe"
)

func TestSelectCandidates_SortsByPriority(t *testing.T) {
	in := []smtpprobe.MxCandidate{
		{Host: "backup.example.com", Priority: 20},
		{Host: "primary.example.com", Priority: 5},
		{Host: "secondary.example.com", Priority: 10},
	}

	out := smtpprobe.SelectCandidates(in, 10)
	assert.Equal(t, []smtpprobe.MxCandidate{
		{Host: "primary.example.com", Priority: 5},
		{Host: "secondary.example.com", Priority: 10},
		{Host: "backup.example.com", Priority: 20},
	}, out)

	// Input order untouched.
	assert.Equal(t, "backup.example.com", in[0].Host)
}

func TestSelectCandidates_StableOnTies(t *testing.T) {
	in := []smtpprobe.MxCandidate{
		{Host: "a.example.com", Priority: 10},
		{Host: "b.example.com", Priority: 10},
		{Host: "c.example.com", Priority: 10},
	}

	out := smtpprobe.SelectCandidates(in, 10)
	assert.Equal(t, in, out)
}

func TestSelectCandidates_Truncates(t *testing.T) {
	in := []smtpprobe.MxCandidate{
		{Host: "mx1.example.com", Priority: 10},
		{Host: "mx2.example.com", Priority: 20},
		{Host: "mx3.example.com", Priority: 30},
	}

	out := smtpprobe.SelectCandidates(in, 2)
	assert.Len(t, out, 2)
	assert.Equal(t, "mx1.example.com", out[0].Host)
	assert.Equal(t, "mx2.example.com", out[1].Host)
}

func TestSelectCandidates_Empty(t *testing.T) {
	assert.Empty(t, smtpprobe.SelectCandidates(nil, 3))
	assert.Empty(t, smtpprobe.SelectCandidates([]smtpprobe.MxCandidate{}, 3))
}

func TestFromNetMX(t *testing.T) {
	out := smtpprobe.FromNetMX([]*net.MX{
		{Host: "mx.example.com.", Pref: 10},
		nil,
		{Host: ".", Pref: 20},
		{Host: "mx2.example.com", Pref: 20},
	})

	assert.Equal(t, []smtpprobe.MxCandidate{
		{Host: "mx.example.com", Priority: 10},
		{Host: "mx2.example.com", Priority: 20},
	}, out)
}
