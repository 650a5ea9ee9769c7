package smtpprobe

import "time"

// Existence classifies the observed SMTP behaviour for a mailbox.
type Existence = string

const (
	// Exists means the target address was accepted while synthetic
	// aliases (if probed) were rejected.
	Exists Existence = "exists"
	// DoesNotExist means the target address was rejected with a
	// permanent SMTP status code.
	DoesNotExist Existence = "does-not-exist"
	// CatchAll means the server accepted at least one synthetic alias,
	// so per-address acceptance carries no signal for this domain.
	CatchAll Existence = "catch-all"
	// Indeterminate means the probe could not be concluded. The report's
	// Reason field names why (temporary failure, timeouts, policy, ...).
	Indeterminate Existence = "indeterminate"
)

// Conclusive reports whether the verdict is a definite yes or no.
func Conclusive(e Existence) bool {
	return e == Exists || e == DoesNotExist
}

// Direction marks which side of the conversation a transcript line
// belongs to.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// TranscriptLine is one wire-level line of an SMTP conversation.
type TranscriptLine struct {
	Direction Direction `json:"direction"`
	Text      string    `json:"text"`
	Time      time.Time `json:"time"`
}

// SessionOutcome is the result of one full handshake attempt against one
// host for one recipient address. It is produced once per attempt and
// consumed immediately; nothing is shared between attempts.
type SessionOutcome struct {
	Host       string           `json:"host"`
	Connected  bool             `json:"connected"`
	TLSUsed    bool             `json:"tlsUsed"`
	FinalCode  int              `json:"finalCode,omitempty"` // RCPT TO reply code, 0 when never reached
	Transcript []TranscriptLine `json:"transcript,omitempty"`
	Err        *TransportError  `json:"error,omitempty"`
}

// SmtpProbeReport is the caller-facing summary of a deliverability probe.
// Transcript covers the attempt that produced the verdict.
type SmtpProbeReport struct {
	TargetAddress string           `json:"targetAddress"`
	Result        Existence        `json:"result"`
	Reason        string           `json:"reason,omitempty"`
	Confidence    float64          `json:"confidence"`
	Transcript    []TranscriptLine `json:"transcript,omitempty"`
	HostUsed      string           `json:"hostUsed,omitempty"`
	MXTried       []string         `json:"mxTried,omitempty"`
}
