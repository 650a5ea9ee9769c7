// Package smtpprobe decides whether a mailbox plausibly exists by opening
// a real SMTP session against the domain's mail exchangers and submitting
// a synthetic envelope, without ever sending a message.
//
// The caller supplies the target address and an already-resolved MX
// candidate list; the prober selects hosts, drives the
// EHLO/STARTTLS/MAIL/RCPT/QUIT dialogue, separates catch-all domains from
// genuine per-address verification, and classifies the outcome into an
// Existence verdict with a confidence score. Network faults never escape
// as errors: they fold into the next candidate or an Indeterminate
// verdict.
package smtpprobe

import (
	"context"
	"math/rand/v2"
	"strings"
)

// Prober runs deliverability probes. It holds no mutable state, so one
// Prober may be used concurrently for different target addresses; a
// single probe invocation is strictly sequential.
type Prober struct {
	opts ProbeOptions
}

// New validates the options and returns a ready Prober. Invalid options
// (out-of-range CatchallProbes, MaxMX below 1) are the only error this
// package ever returns.
func New(opts ProbeOptions) (*Prober, error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Prober{opts: opts}, nil
}

// Probe audits one address against the supplied MX records. The address
// is assumed syntactically valid; only the domain part is extracted here.
// The returned report is always complete: no half-finished probes, no
// open connections, and network problems surface as Indeterminate.
func (p *Prober) Probe(ctx context.Context, address string, records []MxCandidate) SmtpProbeReport {
	report := SmtpProbeReport{TargetAddress: address}

	local, domain, ok := splitAddress(address)
	if !ok {
		report.Result = Indeterminate
		report.Reason = "target address has no domain"
		report.Confidence = confidenceLowest
		return report
	}

	candidates := SelectCandidates(records, p.opts.MaxMX)
	if len(candidates) == 0 {
		report.Result = Indeterminate
		report.Reason = "no mail exchanger"
		report.Confidence = confidenceLowest
		return report
	}

	// Reasons remembered across failed attempts, by decreasing
	// specificity: a temporary rejection beats a policy miss beats a bad
	// greeting beats plain unreachability.
	var sawTempFail, sawStartTLSMissing, sawBadGreeting bool

	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			report.Result = Indeterminate
			report.Reason = "cancelled: " + err.Error()
			report.Confidence = confidenceLowest
			return report
		}

		report.MXTried = append(report.MXTried, candidate.Host)
		outcome, status := runSession(ctx, p.opts, candidate.Host, address, domain)
		if len(outcome.Transcript) > 0 {
			report.Transcript = outcome.Transcript
		}

		switch status {
		case attemptRcptAccepted:
			report.HostUsed = candidate.Host
			tally := p.probeCatchall(ctx, candidate.Host, local, domain)
			report.Result, report.Reason, report.Confidence = classifyAccepted(tally, p.opts.CatchallProbes)
			return report

		case attemptRcptRejected:
			report.HostUsed = candidate.Host
			report.Result, report.Reason, report.Confidence = classifyRejected(outcome.FinalCode)
			return report

		case attemptRcptTempFail:
			sawTempFail = true

		case attemptStartTLSRequired:
			sawStartTLSMissing = true

		case attemptBadGreeting:
			sawBadGreeting = true

		default:
			// Refused envelope or a transport fault: nothing
			// address-specific was learned from this host.
		}
	}

	report.Result = Indeterminate
	switch {
	case sawTempFail:
		report.Reason = "temporary rejection"
		report.Confidence = confidenceLow
	case sawStartTLSMissing:
		report.Reason = "starttls required"
		report.Confidence = confidenceLow
	case sawBadGreeting:
		report.Reason = "bad greeting"
		report.Confidence = confidenceLowest
	default:
		report.Reason = "no reachable mx"
		report.Confidence = confidenceLowest
	}
	return report
}

// probeCatchall re-runs the session with synthetic recipients on the host
// that accepted the real address. Fresh connection per probe: some MTAs
// drop the session after one RCPT, and isolation keeps the vote honest.
func (p *Prober) probeCatchall(ctx context.Context, host, local, domain string) catchallTally {
	var tally catchallTally
	for i := 0; i < p.opts.CatchallProbes; i++ {
		if ctx.Err() != nil {
			tally.excluded += p.opts.CatchallProbes - i
			return tally
		}

		alias := randomLocalPart(len(local))
		if alias == local {
			alias = randomLocalPart(len(local) + 1)
		}
		_, status := runSession(ctx, p.opts, host, alias+"@"+domain, domain)
		switch status {
		case attemptRcptAccepted:
			tally.accepted++
		case attemptRcptRejected:
			tally.rejected++
		default:
			// Timeouts, transient codes and protocol faults carry no
			// signal either way.
			tally.excluded++
		}
	}
	return tally
}

// splitAddress separates the local part and domain at the last @.
func splitAddress(address string) (local, domain string, ok bool) {
	at := strings.LastIndex(address, "@")
	if at < 1 || at == len(address)-1 {
		return "", "", false
	}
	return address[:at], address[at+1:], true
}

const localPartAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// randomLocalPart builds a syntactically valid, practically unpredictable
// local part roughly the size of the real one.
func randomLocalPart(n int) string {
	if n < 6 {
		n = 6
	}
	if n > 32 {
		n = 32
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(localPartAlphabet[rand.IntN(len(localPartAlphabet))])
	}
	return b.String()
}
