package smtpprobe

import (
	"errors"
	"fmt"
	"net"
)

var (
	// ErrCatchallProbesRange is returned when ProbeOptions.CatchallProbes
	// is outside [0,5].
	ErrCatchallProbesRange = errors.New("smtpprobe: catchall probes must be between 0 and 5")

	// ErrMaxMXRange is returned when ProbeOptions.MaxMX is below 1.
	ErrMaxMXRange = errors.New("smtpprobe: max MX hosts must be at least 1")
)

// ErrorKind classifies a failed host attempt. The host-iteration policy
// treats every kind as "move on to the next candidate"; the kind survives
// into the SessionOutcome for diagnostics.
type ErrorKind string

const (
	KindConnect  ErrorKind = "connect"
	KindTimeout  ErrorKind = "timeout"
	KindTLS      ErrorKind = "tls"
	KindProtocol ErrorKind = "protocol"
)

// TransportError is a classified fault from one host attempt. It is never
// returned across the package boundary; Probe folds it into the next host
// attempt or a final Indeterminate verdict.
type TransportError struct {
	Kind ErrorKind `json:"kind"`
	Host string    `json:"host"`
	Err  error     `json:"-"`
	Msg  string    `json:"message,omitempty"` // set when there is no underlying error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Host, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s", e.Host, e.Kind, e.Msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

func connectError(host string, err error) *TransportError {
	if isTimeout(err) {
		return &TransportError{Kind: KindTimeout, Host: host, Err: err}
	}
	return &TransportError{Kind: KindConnect, Host: host, Err: err}
}

// ioError classifies a read/write fault on an established connection.
// Deadline hits are timeouts; everything else (truncated replies, resets)
// is a protocol fault for that host.
func ioError(host string, err error) *TransportError {
	if isTimeout(err) {
		return &TransportError{Kind: KindTimeout, Host: host, Err: err}
	}
	return &TransportError{Kind: KindProtocol, Host: host, Err: err}
}

func tlsError(host string, err error) *TransportError {
	return &TransportError{Kind: KindTLS, Host: host, Err: err}
}

func protocolError(host, msg string) *TransportError {
	return &TransportError{Kind: KindProtocol, Host: host, Msg: msg}
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}
