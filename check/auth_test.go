package check_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/optimode/mailaudit/check"
	"github.com/optimode/mailaudit/internal/parse"
)

func txtLookup(records map[string][]string) func(context.Context, string) ([]string, error) {
	return func(_ context.Context, name string) ([]string, error) {
		if recs, ok := records[name]; ok {
			return recs, nil
		}
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}
}

func TestAuthChecker(t *testing.T) {
	tests := []struct {
		name         string
		records      map[string][]string
		requireDM    bool
		selectors    []string
		wantOK       bool
		wantDetails  string
		wantPolicy   string
		wantSelector string
	}{
		{
			name: "SPF and DMARC",
			records: map[string][]string{
				"example.com":        {"v=spf1 include:_spf.example.com ~all"},
				"_dmarc.example.com": {"v=DMARC1; p=reject; rua=mailto:d@example.com"},
			},
			wantOK:      true,
			wantDetails: "SPF and DMARC present",
			wantPolicy:  "reject",
		},
		{
			name: "SPF only",
			records: map[string][]string{
				"example.com": {"v=spf1 -all"},
			},
			wantOK:      true,
			wantDetails: "SPF present, no DMARC record",
		},
		{
			name: "SPF only with DMARC required",
			records: map[string][]string{
				"example.com": {"v=spf1 -all"},
			},
			requireDM:   true,
			wantOK:      false,
			wantDetails: "SPF present, no DMARC record",
		},
		{
			name:        "nothing",
			records:     map[string][]string{},
			wantOK:      false,
			wantDetails: "no SPF or DMARC record",
		},
		{
			name: "unrelated TXT records ignored",
			records: map[string][]string{
				"example.com": {"google-site-verification=abc", "v=spf1 mx -all"},
			},
			wantOK:      true,
			wantDetails: "SPF present, no DMARC record",
		},
		{
			name: "DKIM key found for configured selector",
			records: map[string][]string{
				"example.com": {"v=spf1 -all"},
				"selector1._domainkey.example.com": {
					"v=DKIM1; k=rsa; p=MIGfMA0GCSqGSIb3DQEBAQUAA4GNADCB",
				},
			},
			selectors:    []string{"selector1"},
			wantOK:       true,
			wantDetails:  "SPF present, no DMARC record; DKIM present (selector1)",
			wantSelector: "selector1",
		},
		{
			name: "DKIM key in testing mode",
			records: map[string][]string{
				"example.com": {"v=spf1 -all"},
				"s1._domainkey.example.com": {
					"v=DKIM1; t=y; p=MIGfMA0GCSqGSIb3DQEBAQUAA4GNADCB",
				},
			},
			selectors:    []string{"s1"},
			wantOK:       true,
			wantDetails:  "SPF present, no DMARC record; DKIM key in testing mode (s1)",
			wantSelector: "s1",
		},
		{
			name: "DKIM key revoked",
			records: map[string][]string{
				"example.com":               {"v=spf1 -all"},
				"s1._domainkey.example.com": {"v=DKIM1; p="},
			},
			selectors:   []string{"s1"},
			wantOK:      true,
			wantDetails: "SPF present, no DMARC record; invalid DKIM record (s1)",
		},
		{
			name: "no DKIM record at any configured selector",
			records: map[string][]string{
				"example.com": {"v=spf1 -all"},
			},
			selectors:   []string{"s1", "s2"},
			wantOK:      true,
			wantDetails: "SPF present, no DMARC record; no DKIM record for configured selectors",
		},
		{
			name: "DKIM policy record without selectors",
			records: map[string][]string{
				"example.com":            {"v=spf1 -all"},
				"_domainkey.example.com": {"o=~"},
			},
			wantOK:      true,
			wantDetails: "SPF present, no DMARC record; DKIM policy record present",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := check.NewAuthCheckerWithLookup(
				check.AuthConfig{
					Timeout:       2 * time.Second,
					RequireDMARC:  tt.requireDM,
					DKIMSelectors: tt.selectors,
				},
				txtLookup(tt.records),
			)
			result := c.Check(context.Background(), parse.NewEmail("user@example.com"))
			assert.Equal(t, tt.wantOK, result.Passed)
			assert.Equal(t, tt.wantDetails, result.Details)
			assert.Equal(t, tt.wantPolicy, result.DMARCPolicy)
			assert.Equal(t, tt.wantSelector, result.DKIMSelector)
		})
	}
}

func TestAuthChecker_InvalidEmail(t *testing.T) {
	c := check.NewAuthCheckerWithLookup(
		check.AuthConfig{Timeout: 2 * time.Second},
		txtLookup(nil),
	)
	result := c.Check(context.Background(), parse.NewEmail("invalid"))
	assert.False(t, result.Passed)
	assert.Contains(t, result.Details, "skipped")
}
