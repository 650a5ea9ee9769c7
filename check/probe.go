package check

import (
	"context"
	"fmt"
	"net"

	"github.com/optimode/mailaudit/internal/parse"
	"github.com/optimode/mailaudit/smtpprobe"
	"github.com/optimode/mailaudit/types"
)

// ProbeChecker runs the active SMTP deliverability probe.
// MX resolution goes through the injected lookup (the facade passes the
// shared DNS cache), candidate ordering and the SMTP dialogue are the
// smtpprobe package's business.
type ProbeChecker struct {
	prober *smtpprobe.Prober
	lookup func(domain string) ([]*net.MX, error)
}

// NewProbeChecker creates a probe checker around a configured prober.
func NewProbeChecker(prober *smtpprobe.Prober, lookup func(string) ([]*net.MX, error)) *ProbeChecker {
	return &ProbeChecker{prober: prober, lookup: lookup}
}

func (c *ProbeChecker) Check(ctx context.Context, email parse.Email) types.CheckResult {
	level := types.LevelProbe

	if !email.Valid {
		return types.CheckResult{Level: level, Passed: false, Details: "skipped: invalid email"}
	}

	mxRecords, err := c.lookup(email.Domain)
	if err != nil {
		return types.CheckResult{
			Level:      level,
			Passed:     false,
			Details:    fmt.Sprintf("MX lookup failed: %v", err),
			Existence:  smtpprobe.Indeterminate,
			Confidence: 0,
		}
	}

	// An empty candidate list is a verdict of its own ("no mail
	// exchanger"), distinct from hosts that exist but cannot be reached.
	candidates := smtpprobe.FromNetMX(mxRecords)
	report := c.prober.Probe(ctx, email.Raw, candidates)

	return types.CheckResult{
		Level:      level,
		Passed:     report.Result == smtpprobe.Exists || report.Result == smtpprobe.CatchAll,
		Details:    report.Reason,
		MXHost:     report.HostUsed,
		Existence:  report.Result,
		Confidence: report.Confidence,
	}
}
