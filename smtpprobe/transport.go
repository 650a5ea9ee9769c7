package smtpprobe

import (
	"bufio"
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"
)

// reply is one parsed SMTP response, possibly spanning multiple lines.
type reply struct {
	code int
	text []string // reply text per line, code prefix stripped
	raw  []string // lines as received, for the transcript
}

func (r reply) positive() bool  { return r.code >= 200 && r.code < 300 }
func (r reply) transient() bool { return r.code >= 400 && r.code < 500 }
func (r reply) permanent() bool { return r.code >= 500 && r.code < 600 }

// transport owns exactly one network connection for one host attempt.
// A single absolute deadline bounds every operation on it; the budget is
// never reset between steps.
type transport struct {
	host     string
	conn     net.Conn
	reader   *bufio.Reader
	deadline time.Time
	tls      bool
}

// dialTransport opens the connection and fixes the attempt deadline.
// The context carries caller-level cancellation; the deadline carries the
// per-attempt budget.
func dialTransport(ctx context.Context, opts ProbeOptions, host string) (*transport, *TransportError) {
	deadline := time.Now().Add(opts.Timeout)
	dialCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	conn, err := opts.Dial(dialCtx, opts.network(), net.JoinHostPort(host, opts.Port))
	if err != nil {
		return nil, connectError(host, err)
	}
	return &transport{
		host:     host,
		conn:     conn,
		reader:   bufio.NewReader(conn),
		deadline: deadline,
	}, nil
}

func (t *transport) close() {
	_ = t.conn.Close()
}

// expired preempts operations once the attempt budget is gone, so a slow
// multi-line reply cannot stretch the session past its deadline.
func (t *transport) expired() *TransportError {
	if time.Now().After(t.deadline) {
		return &TransportError{Kind: KindTimeout, Host: t.host, Msg: "attempt budget exhausted"}
	}
	return nil
}

func (t *transport) writeLine(line string) *TransportError {
	if terr := t.expired(); terr != nil {
		return terr
	}
	if err := t.conn.SetWriteDeadline(t.deadline); err != nil {
		return ioError(t.host, err)
	}
	if _, err := t.conn.Write([]byte(line + "\r\n")); err != nil {
		return ioError(t.host, err)
	}
	return nil
}

// readReply reads one complete SMTP response. Multi-line replies use the
// code-hyphen continuation form ("250-..." until "250 ..."); inconsistent
// codes across lines are a protocol fault.
func (t *transport) readReply() (reply, *TransportError) {
	var r reply
	for {
		if terr := t.expired(); terr != nil {
			return r, terr
		}
		if err := t.conn.SetReadDeadline(t.deadline); err != nil {
			return r, ioError(t.host, err)
		}
		line, err := t.reader.ReadString('\n')
		if err != nil {
			return r, ioError(t.host, err)
		}
		line = trimCRLF(line)
		if len(line) < 3 {
			return r, protocolError(t.host, "reply line too short: "+strconv.Quote(line))
		}
		code, convErr := strconv.Atoi(line[:3])
		if convErr != nil || code < 100 || code > 599 {
			return r, protocolError(t.host, "invalid reply code in "+strconv.Quote(line))
		}
		if len(r.raw) == 0 {
			r.code = code
		} else if r.code != code {
			return r, protocolError(t.host, "inconsistent reply codes")
		}
		r.raw = append(r.raw, line)
		r.text = append(r.text, replyText(line))
		if len(line) < 4 || line[3] != '-' {
			return r, nil
		}
	}
}

// upgradeTLS performs the STARTTLS handshake in place. On failure the
// plaintext connection is unusable; the caller must abandon the attempt.
func (t *transport) upgradeTLS(cfg *tls.Config) *TransportError {
	if terr := t.expired(); terr != nil {
		return terr
	}
	if cfg == nil {
		cfg = &tls.Config{}
	} else {
		cfg = cfg.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = t.host
	}

	tlsConn := tls.Client(t.conn, cfg)
	ctx, cancel := context.WithDeadline(context.Background(), t.deadline)
	defer cancel()
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return tlsError(t.host, err)
	}

	t.conn = tlsConn
	t.reader = bufio.NewReader(tlsConn)
	t.tls = true
	return nil
}

func trimCRLF(line string) string {
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}

// replyText strips the three-digit code and separator from a reply line.
func replyText(line string) string {
	if len(line) > 4 {
		return line[4:]
	}
	return ""
}
