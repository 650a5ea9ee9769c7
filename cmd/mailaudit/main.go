package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/optimode/mailaudit"
)

func main() {
	cfg, err := ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cfg.Verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	addresses := append([]string(nil), cfg.Positional.Addresses...)
	if cfg.Stdin {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				addresses = append(addresses, line)
			}
		}
		if err := scanner.Err(); err != nil {
			log.WithError(err).Fatal("reading stdin")
		}
	}

	v := buildValidator(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("interrupted, finishing in-flight audits")
		cancel()
	}()

	log.WithFields(logrus.Fields{
		"addresses": len(addresses),
		"workers":   cfg.Workers,
		"probe":     !cfg.NoProbe,
	}).Debug("starting audit")

	results, err := v.ValidateMany(ctx, addresses, mailaudit.ConcurrencyOptions{Workers: cfg.Workers})
	if err != nil {
		log.WithError(err).Fatal("audit failed")
	}

	for _, r := range results {
		entry := log.WithField("email", r.Email)
		if probe, ok := r.CheckFor(mailaudit.LevelProbe); ok {
			entry = entry.WithFields(logrus.Fields{
				"existence":  probe.Existence,
				"confidence": probe.Confidence,
				"mx":         probe.MXHost,
			})
		}
		entry.Debug("audited")
	}

	out := os.Stdout
	if cfg.Out != "" {
		f, err := os.Create(cfg.Out)
		if err != nil {
			log.WithError(err).Fatal("opening output file")
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	if err := writeResults(out, cfg.Format, results); err != nil {
		log.WithError(err).Fatal("writing results")
	}

	for _, r := range results {
		if !r.Valid {
			os.Exit(2)
		}
	}
}

// buildValidator assembles the audit pipeline from the CLI flags.
func buildValidator(cfg *Config) *mailaudit.Validator {
	v := mailaudit.New().WithDNS(mailaudit.DNSOptions{Timeout: cfg.TimeoutDuration})

	if !cfg.NoDomain {
		v = v.WithDomain()
	}
	if !cfg.NoAuth {
		v = v.WithAuth(mailaudit.AuthOptions{
			Timeout:       cfg.TimeoutDuration,
			DKIMSelectors: cfg.DKIMSelectors,
		})
	}
	if !cfg.NoProbe {
		v = v.WithProbe(mailaudit.ProbeOptions{
			HeloDomain:      cfg.Helo,
			EnvelopeFrom:    cfg.From,
			RequireStartTLS: cfg.RequireStartTLS,
			CatchallProbes:  cfg.CatchallProbes,
			MaxMX:           cfg.MaxMX,
			Timeout:         cfg.TimeoutDuration,
			AllowIPv6:       cfg.IPv6,
		})
	}
	return v
}
