package check

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/optimode/mailaudit/internal/parse"
	"github.com/optimode/mailaudit/types"
)

// AuthConfig is the auth checker configuration.
type AuthConfig struct {
	Timeout      time.Duration
	RequireDMARC bool
	// DKIMSelectors are the selectors whose key records get checked.
	// DKIM key records cannot be enumerated, so they must be supplied.
	DKIMSelectors []string
}

// AuthChecker audits the domain's sender-authentication posture:
// an SPF record (TXT "v=spf1 ..." at the domain), a DMARC record
// (TXT "v=DMARC1 ..." at _dmarc.<domain>), and DKIM key records for
// any configured selectors (TXT at <selector>._domainkey.<domain>).
type AuthChecker struct {
	cfg       AuthConfig
	lookupTXT func(ctx context.Context, name string) ([]string, error) // injectable for testability
}

func NewAuthChecker(cfg AuthConfig) *AuthChecker {
	r := &net.Resolver{}
	return &AuthChecker{
		cfg:       cfg,
		lookupTXT: r.LookupTXT,
	}
}

// NewAuthCheckerWithLookup is a test-oriented constructor that overrides the TXT lookup.
func NewAuthCheckerWithLookup(cfg AuthConfig, fn func(context.Context, string) ([]string, error)) *AuthChecker {
	c := NewAuthChecker(cfg)
	c.lookupTXT = fn
	return c
}

func (c *AuthChecker) Check(ctx context.Context, email parse.Email) types.CheckResult {
	level := types.LevelAuth

	if !email.Valid {
		return types.CheckResult{Level: level, Passed: false, Details: "skipped: invalid email"}
	}

	spf := c.findRecord(ctx, email.Domain, "v=spf1")
	dmarc := c.findRecord(ctx, "_dmarc."+email.Domain, "v=DMARC1")
	dkim := c.checkDKIM(ctx, email.Domain)

	result := types.CheckResult{
		Level:        level,
		SPFRecord:    spf,
		DMARCPolicy:  dmarcPolicy(dmarc),
		DKIMSelector: dkim.selector,
	}

	switch {
	case spf == "" && dmarc == "":
		result.Details = "no SPF or DMARC record"
	case spf == "":
		result.Details = "no SPF record"
	case dmarc == "":
		result.Details = "SPF present, no DMARC record"
	default:
		result.Details = "SPF and DMARC present"
	}
	if dkim.detail != "" {
		result.Details += "; " + dkim.detail
	}

	// SPF is the baseline; DMARC absence only fails when required.
	// DKIM stays informational: a missing key record proves nothing
	// unless the domain's actual selectors were supplied.
	result.Passed = spf != "" && (dmarc != "" || !c.cfg.RequireDMARC)
	return result
}

// findRecord returns the first TXT record at name with the given prefix,
// or "" when none exists or the lookup fails. A missing record and a
// failed lookup read the same here: the posture could not be confirmed.
func (c *AuthChecker) findRecord(ctx context.Context, name, prefix string) string {
	lctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	records, err := c.lookupTXT(lctx, name)
	if err != nil {
		return ""
	}
	for _, rec := range records {
		if strings.HasPrefix(strings.TrimSpace(rec), prefix) {
			return strings.TrimSpace(rec)
		}
	}
	return ""
}

// dmarcPolicy extracts the p= tag from a DMARC record.
func dmarcPolicy(record string) string {
	for _, tag := range strings.Split(record, ";") {
		tag = strings.TrimSpace(tag)
		if strings.HasPrefix(tag, "p=") {
			return strings.TrimPrefix(tag, "p=")
		}
	}
	return ""
}
