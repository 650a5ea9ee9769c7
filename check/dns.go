package check

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/optimode/mailaudit/internal/parse"
	"github.com/optimode/mailaudit/types"
)

// DNSConfig is the DNS checker configuration.
type DNSConfig struct {
	Timeout time.Duration
	// FallbackToA accepts an A record when no MX exists, the implicit-MX
	// rule of RFC 5321 §5.1.
	FallbackToA bool
}

// DNSChecker verifies that the domain can receive mail: an MX record, or
// with FallbackToA an A record standing in as the implicit MX.
type DNSChecker struct {
	cfg DNSConfig
	// Both lookups are injectable for testability.
	lookup     func(domain string) ([]*net.MX, error)
	lookupHost func(domain string) ([]string, error)
}

func NewDNSChecker(cfg DNSConfig) *DNSChecker {
	return &DNSChecker{
		cfg: cfg,
		lookup: func(domain string) ([]*net.MX, error) {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			defer cancel()
			r := &net.Resolver{}
			return r.LookupMX(ctx, domain)
		},
		lookupHost: func(domain string) ([]string, error) {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
			defer cancel()
			r := &net.Resolver{}
			return r.LookupHost(ctx, domain)
		},
	}
}

// NewDNSCheckerWithLookup is a test-oriented constructor that overrides the MX lookup function.
func NewDNSCheckerWithLookup(cfg DNSConfig, fn func(string) ([]*net.MX, error)) *DNSChecker {
	c := NewDNSChecker(cfg)
	c.lookup = fn
	return c
}

// NewDNSCheckerWithLookups additionally overrides the host lookup used by
// the implicit-MX fallback.
func NewDNSCheckerWithLookups(cfg DNSConfig, mx func(string) ([]*net.MX, error), host func(string) ([]string, error)) *DNSChecker {
	c := NewDNSCheckerWithLookup(cfg, mx)
	c.lookupHost = host
	return c
}

func (c *DNSChecker) Check(ctx context.Context, email parse.Email) types.CheckResult {
	level := types.LevelDNS

	if !email.Valid {
		return types.CheckResult{Level: level, Passed: false, Details: "skipped: invalid email"}
	}

	mxRecords, err := c.lookup(email.Domain)
	if err != nil || len(mxRecords) == 0 {
		if c.cfg.FallbackToA {
			if addrs, aErr := c.lookupHost(email.Domain); aErr == nil && len(addrs) > 0 {
				return types.CheckResult{
					Level:   level,
					Passed:  true,
					Details: "no MX record, but A record found (implicit MX)",
					MXHost:  email.Domain,
				}
			}
		}
		if err != nil {
			return types.CheckResult{
				Level:   level,
				Passed:  false,
				Details: fmt.Sprintf("MX lookup failed: %v", err),
			}
		}
		return types.CheckResult{Level: level, Passed: false, Details: "no MX records found"}
	}

	sort.Slice(mxRecords, func(i, j int) bool {
		return mxRecords[i].Pref < mxRecords[j].Pref
	})

	primaryMX := strings.TrimSuffix(mxRecords[0].Host, ".")
	return types.CheckResult{
		Level:   level,
		Passed:  true,
		Details: fmt.Sprintf("%d MX record(s) found", len(mxRecords)),
		MXHost:  primaryMX,
	}
}
