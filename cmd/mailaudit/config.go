package main

import (
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
)

// Config holds the CLI configuration.
type Config struct {
	// Probe
	Helo            string `long:"helo" description:"Domain sent in the EHLO/HELO command (default: the target's domain)"`
	From            string `long:"from" description:"Address sent in MAIL FROM (default: postmaster@<target domain>)"`
	RequireStartTLS bool   `long:"require-starttls" description:"Abort hosts that do not offer STARTTLS"`
	CatchallProbes  int    `long:"catchall-probes" description:"Synthetic recipients probed after an acceptance, 0..5" default:"1"`
	MaxMX           int    `long:"max-mx" description:"Maximum MX hosts tried per domain" default:"2"`
	Timeout         int    `long:"timeout" description:"Per-host probe budget in seconds" default:"5"`
	IPv6            bool   `long:"ipv6" description:"Allow IPv6 connections to mail exchangers"`
	NoProbe         bool   `long:"no-probe" description:"Skip the SMTP probe level"`

	// Levels
	NoDomain      bool     `long:"no-domain" description:"Skip the disposable/typo level"`
	NoAuth        bool     `long:"no-auth" description:"Skip the SPF/DKIM/DMARC level"`
	DKIMSelectors []string `long:"dkim-selector" description:"DKIM selector to check a key record for (repeatable)"`

	// Input/Output
	Stdin   bool   `long:"stdin" description:"Read addresses from standard input, one per line"`
	Out     string `short:"o" long:"out" description:"Output file (default: standard output)"`
	Format  string `short:"f" long:"format" description:"Output format" choice:"human" choice:"json" choice:"ndjson" choice:"csv" default:"human"`
	Workers int    `long:"workers" description:"Concurrent audits" default:"5"`
	Verbose bool   `short:"v" long:"verbose" description:"Debug logging, including SMTP session details"`

	Positional struct {
		Addresses []string `positional-arg-name:"address"`
	} `positional-args:"yes"`

	// Real timeout duration (not parsed from flags directly)
	TimeoutDuration time.Duration
}

// ParseFlags parses command line flags.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	parser := flags.NewParser(cfg, flags.Default)
	parser.Usage = "[OPTIONS] [address ...]"

	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		return nil, err
	}

	cfg.TimeoutDuration = time.Duration(cfg.Timeout) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CatchallProbes < 0 || c.CatchallProbes > 5 {
		return fmt.Errorf("catchall-probes must be in 0..5, got %d", c.CatchallProbes)
	}

	if c.MaxMX < 1 {
		return fmt.Errorf("max-mx must be >= 1, got %d", c.MaxMX)
	}

	if c.TimeoutDuration <= 0 {
		return fmt.Errorf("timeout must be > 0, got %s", c.TimeoutDuration)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", c.Workers)
	}

	if len(c.Positional.Addresses) == 0 && !c.Stdin {
		return fmt.Errorf("no addresses given (pass them as arguments or use --stdin)")
	}

	return nil
}
