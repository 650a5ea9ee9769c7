package smtpprobe

import (
	"context"
	"crypto/tls"
	"net"
	"time"
)

// DialFunc opens the raw TCP connection for one host attempt.
// Injectable for testing; the default is a plain net.Dialer.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// ProbeOptions configures a Prober. One instance covers one probe
// invocation; the Prober never mutates it.
type ProbeOptions struct {
	// HeloDomain is the name sent in EHLO/HELO. Defaults to the target
	// address's domain.
	HeloDomain string
	// EnvelopeFrom is the MAIL FROM address. Defaults to
	// postmaster@<target domain>.
	EnvelopeFrom string
	// RequireStartTLS aborts any host that does not offer (or fails)
	// STARTTLS instead of continuing in plaintext.
	RequireStartTLS bool
	// CatchallProbes is how many synthetic recipients are probed after
	// the real one is accepted. Must be in [0,5]; 0 disables the check.
	CatchallProbes int
	// MaxMX is how many MX candidates are tried at most. Must be >= 1.
	MaxMX int
	// Timeout is the whole-session budget per host attempt, consumed
	// across connect, TLS handshake and every read/write. Default: 5s.
	Timeout time.Duration
	// AllowIPv6 permits dialing AAAA-only hosts. When false the dial is
	// restricted to tcp4.
	AllowIPv6 bool
	// Port is the SMTP port. Default: "25".
	Port string
	// Dial is injectable for testing. Defaults to net.Dialer.DialContext.
	Dial DialFunc
	// TLSConfig is used for STARTTLS upgrades. ServerName is filled in
	// per host when empty.
	TLSConfig *tls.Config
}

// DefaultProbeOptions returns the options used when the caller has no
// opinion: one catch-all probe, two MX hosts, five-second budget.
func DefaultProbeOptions() ProbeOptions {
	return ProbeOptions{
		CatchallProbes: 1,
		MaxMX:          2,
		Timeout:        5 * time.Second,
		Port:           "25",
	}
}

// Validate rejects programmer-error configurations before any network
// activity happens.
func (o ProbeOptions) Validate() error {
	if o.CatchallProbes < 0 || o.CatchallProbes > 5 {
		return ErrCatchallProbesRange
	}
	if o.MaxMX < 1 {
		return ErrMaxMXRange
	}
	return nil
}

// withDefaults fills the zero values that have safe defaults. MaxMX and
// CatchallProbes are deliberately not touched: those are validated.
func (o ProbeOptions) withDefaults() ProbeOptions {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.Port == "" {
		o.Port = "25"
	}
	if o.Dial == nil {
		d := &net.Dialer{}
		o.Dial = d.DialContext
	}
	return o
}

// network returns the dial network, honouring AllowIPv6.
func (o ProbeOptions) network() string {
	if o.AllowIPv6 {
		return "tcp"
	}
	return "tcp4"
}
