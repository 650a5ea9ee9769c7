package smtpprobe

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// sessionState tracks how far the SMTP dialogue has progressed. Each step
// of run is gated on the state left by the previous one.
type sessionState int

const (
	stateConnected sessionState = iota
	stateGreeted
	stateTLSUpgraded
	stateEnvelopeSet
	stateRecipientChecked
	stateClosed
)

// capability is a recognised EHLO keyword. Unknown keywords stay inert:
// they are recorded in the transcript but never influence the dialogue.
type capability string

const (
	capStartTLS capability = "STARTTLS"
	capSize     capability = "SIZE"
)

// parseCapabilities scans EHLO reply text for recognised keywords. The
// first line is the server's identification and is skipped.
func parseCapabilities(text []string) map[capability]bool {
	caps := make(map[capability]bool)
	for i, line := range text {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch capability(strings.ToUpper(fields[0])) {
		case capStartTLS:
			caps[capStartTLS] = true
		case capSize:
			caps[capSize] = true
		}
	}
	return caps
}

// attemptStatus is what one host attempt amounts to, as seen by the
// host-iteration policy in Probe.
type attemptStatus int

const (
	// attemptTransportError covers connect, timeout, TLS and protocol
	// faults; the next candidate is tried.
	attemptTransportError attemptStatus = iota
	// attemptBadGreeting means the server's banner was not a 2xx.
	attemptBadGreeting
	// attemptStartTLSRequired means the options demand STARTTLS and this
	// host does not offer (or refused) it. MAIL FROM is never reached.
	attemptStartTLSRequired
	// attemptHostRefused means the host rejected EHLO/HELO or MAIL FROM;
	// a host-level failure, not an address verdict.
	attemptHostRefused
	// attemptRcptAccepted, attemptRcptRejected and attemptRcptTempFail
	// are the three RCPT TO status families.
	attemptRcptAccepted
	attemptRcptRejected
	attemptRcptTempFail

	// attemptContinue is internal to session: the step succeeded and the
	// dialogue moves on. It never escapes run.
	attemptContinue attemptStatus = -1
)

// session drives one EHLO/STARTTLS/MAIL/RCPT/QUIT dialogue over a
// transport, accumulating the transcript as it goes.
type session struct {
	opts       ProbeOptions
	tr         *transport
	state      sessionState
	transcript []TranscriptLine
}

// runSession performs one full handshake attempt against host for rcptAddr.
// It always returns a SessionOutcome, even on failure, and it always
// releases the connection (QUIT best-effort, then close) before returning.
func runSession(ctx context.Context, opts ProbeOptions, host, rcptAddr, domain string) (outcome SessionOutcome, status attemptStatus) {
	outcome = SessionOutcome{Host: host}

	tr, terr := dialTransport(ctx, opts, host)
	if terr != nil {
		outcome.Err = terr
		return outcome, attemptTransportError
	}
	outcome.Connected = true

	s := &session{opts: opts, tr: tr, state: stateConnected}
	// Named returns: the deferred teardown still sees and completes the
	// outcome, whatever path run takes out of the dialogue.
	defer func() {
		s.shutdown()
		outcome.TLSUsed = tr.tls
		outcome.Transcript = s.transcript
	}()

	status = s.run(rcptAddr, domain, &outcome)
	return outcome, status
}

func (s *session) run(rcptAddr, domain string, outcome *SessionOutcome) attemptStatus {
	// Greeting: the server speaks first and must say 2xx.
	greeting, terr := s.read()
	if terr != nil {
		outcome.Err = terr
		return attemptTransportError
	}
	if !greeting.positive() {
		outcome.Err = protocolError(s.tr.host, "unexpected greeting code "+strconv.Itoa(greeting.code))
		return attemptBadGreeting
	}

	helo := s.opts.HeloDomain
	if helo == "" {
		helo = domain
	}
	ehlo, status := s.greet(helo, outcome)
	if status != attemptContinue {
		return status
	}
	s.state = stateGreeted

	caps := parseCapabilities(ehlo.text)
	if caps[capStartTLS] {
		caps, status = s.startTLS(helo, outcome)
		if status != attemptContinue {
			return status
		}
	} else if s.opts.RequireStartTLS {
		return attemptStartTLSRequired
	}

	from := s.opts.EnvelopeFrom
	if from == "" {
		from = "postmaster@" + domain
	}
	mail, terr := s.command("MAIL FROM:<" + from + ">")
	if terr != nil {
		outcome.Err = terr
		return attemptTransportError
	}
	if !mail.positive() {
		outcome.Err = protocolError(s.tr.host, "MAIL FROM refused with "+strconv.Itoa(mail.code))
		return attemptHostRefused
	}
	s.state = stateEnvelopeSet

	rcpt, terr := s.command("RCPT TO:<" + rcptAddr + ">")
	if terr != nil {
		outcome.Err = terr
		return attemptTransportError
	}
	s.state = stateRecipientChecked
	outcome.FinalCode = rcpt.code

	switch {
	case rcpt.positive():
		return attemptRcptAccepted
	case rcpt.permanent():
		return attemptRcptRejected
	case rcpt.transient():
		return attemptRcptTempFail
	default:
		outcome.Err = protocolError(s.tr.host, "unexpected RCPT TO code "+strconv.Itoa(rcpt.code))
		return attemptHostRefused
	}
}

// greet sends EHLO and, when the server does not implement it, falls back
// to HELO exactly once.
func (s *session) greet(helo string, outcome *SessionOutcome) (reply, attemptStatus) {
	ehlo, terr := s.command("EHLO " + helo)
	if terr != nil {
		outcome.Err = terr
		return reply{}, attemptTransportError
	}
	if ehlo.positive() {
		return ehlo, attemptContinue
	}
	if ehlo.permanent() {
		// Old servers answer 500/502 to EHLO; HELO has no capabilities.
		h, terr := s.command("HELO " + helo)
		if terr != nil {
			outcome.Err = terr
			return reply{}, attemptTransportError
		}
		if h.positive() {
			return reply{code: h.code}, attemptContinue
		}
	}
	outcome.Err = protocolError(s.tr.host, "greeting command refused with "+strconv.Itoa(ehlo.code))
	return reply{}, attemptHostRefused
}

// startTLS upgrades the advertised STARTTLS and re-issues EHLO over the
// encrypted channel.
func (s *session) startTLS(helo string, outcome *SessionOutcome) (map[capability]bool, attemptStatus) {
	resp, terr := s.command("STARTTLS")
	if terr != nil {
		outcome.Err = terr
		return nil, attemptTransportError
	}
	if !resp.positive() {
		if s.opts.RequireStartTLS {
			return nil, attemptStartTLSRequired
		}
		// Refused before any handshake: the plaintext channel is intact.
		return nil, attemptContinue
	}
	if terr := s.tr.upgradeTLS(s.opts.TLSConfig); terr != nil {
		outcome.Err = terr
		// With TLS mandatory a failed handshake is the same verdict as a
		// missing capability: this host cannot satisfy the policy.
		if s.opts.RequireStartTLS {
			return nil, attemptStartTLSRequired
		}
		return nil, attemptTransportError
	}
	s.state = stateTLSUpgraded

	// Capabilities may differ after the upgrade; EHLO again.
	ehlo, terr := s.command("EHLO " + helo)
	if terr != nil {
		outcome.Err = terr
		return nil, attemptTransportError
	}
	if !ehlo.positive() {
		outcome.Err = protocolError(s.tr.host, "EHLO over TLS refused with "+strconv.Itoa(ehlo.code))
		return nil, attemptHostRefused
	}
	return parseCapabilities(ehlo.text), attemptContinue
}

// command writes one line and reads its reply, recording both.
func (s *session) command(line string) (reply, *TransportError) {
	s.record(Sent, line)
	if terr := s.tr.writeLine(line); terr != nil {
		return reply{}, terr
	}
	return s.read()
}

// read reads one reply and records every received line.
func (s *session) read() (reply, *TransportError) {
	r, terr := s.tr.readReply()
	for _, raw := range r.raw {
		s.record(Received, raw)
	}
	return r, terr
}

// shutdown sends QUIT best-effort and closes the connection. Failure to
// QUIT never changes a verdict.
func (s *session) shutdown() {
	if s.state != stateClosed {
		s.record(Sent, "QUIT")
		if terr := s.tr.writeLine("QUIT"); terr == nil {
			if r, rerr := s.tr.readReply(); rerr == nil {
				for _, raw := range r.raw {
					s.record(Received, raw)
				}
			}
		}
		s.state = stateClosed
	}
	s.tr.close()
}

func (s *session) record(dir Direction, text string) {
	s.transcript = append(s.transcript, TranscriptLine{
		Direction: dir,
		Text:      text,
		Time:      time.Now(),
	})
}
