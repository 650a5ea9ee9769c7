package smtpprobe

import "strconv"

// Confidence bands. The exact values are an implementation choice; what
// matters is that they are deterministic and strictly ordered
// high > catch-all > medium > degraded > low > lowest.
const (
	confidenceHigh     = 0.95
	confidenceCatchAll = 0.90
	confidenceMedium   = 0.70
	confidenceDegraded = 0.50
	confidenceLow      = 0.40
	confidenceLowest   = 0.20
)

// catchallTally is the vote of the synthetic-recipient probes. Probes that
// errored or answered with a transient code are excluded from the vote.
type catchallTally struct {
	accepted int
	rejected int
	excluded int
}

// classifyAccepted maps a 2xx RCPT for the real address plus the catch-all
// vote into the final verdict. Pure function: identical inputs always
// yield the identical verdict and confidence.
func classifyAccepted(tally catchallTally, probesConfigured int) (Existence, string, float64) {
	switch {
	case probesConfigured == 0:
		return Exists, "recipient accepted; catch-all check disabled", confidenceMedium
	case tally.accepted > 0:
		return CatchAll, "server accepted synthetic recipients", confidenceCatchAll
	case tally.rejected > 0:
		return Exists, "recipient accepted; synthetic recipients rejected", confidenceHigh
	default:
		// Every probe errored out: trust the original acceptance, but
		// note that the catch-all question stays open.
		return Exists, "recipient accepted; catch-all probes inconclusive", confidenceDegraded
	}
}

// classifyRejected maps a permanent RCPT rejection.
func classifyRejected(code int) (Existence, string, float64) {
	return DoesNotExist, "recipient rejected with " + strconv.Itoa(code), confidenceHigh
}
