// Copyright 2026 Converter Systems LLC. All rights reserved.

// Command uapoll reads one variable of an OPC UA server at a fixed interval and prints each value.
//
// Usage:
//
//	uapoll [flags]
//
// By default it reads ns=2;s=SRTM.FPGA_temp ten times, one second apart.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/awcullen/uatools/config"
	"github.com/awcullen/uatools/logging"
	"github.com/awcullen/uatools/poll"
	"github.com/awcullen/uatools/session"
	"github.com/pkg/errors"
)

// dialSession opens the session. Replaced in tests.
var dialSession = session.Dial

func main() {

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		waitForSignal()
		fmt.Fprintln(os.Stderr, "Stopping...")
		cancel()
	}()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseArgs(args, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading configuration. %s\n", err.Error())
		return 2
	}

	log, err := logging.New(stderr, cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger. %s\n", err.Error())
		return 2
	}

	fmt.Fprintln(stdout, "------->>")
	fmt.Fprintf(stdout, ">> pinging [%s] >> | for %d samples..\n", cfg.Poll.NodeID, cfg.Poll.Count)
	fmt.Fprintln(stdout, "--------->>>")

	p := &poll.Poller{
		NodeID:  cfg.Poll.NodeID,
		Label:   cfg.Poll.Label,
		Sampler: &poll.Sampler{Interval: cfg.Poll.Interval, Count: cfg.Poll.Count},
		Out:     stdout,
	}
	readings, err := p.Run(ctx, func(ctx context.Context) (*session.Session, error) {
		return dialSession(ctx, cfg.SessionOptions(), log)
	})
	fmt.Fprintf(stdout, ">>Program Finished>>>\n\n")

	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case len(readings) == 0:
		return 1
	default:
		return 2
	}
}

// parseArgs loads the config file, if any, and applies the flags over it.
func parseArgs(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("uapoll", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: uapoll [flags]\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to yaml config file")
	endpoint := fs.String("endpoint", "", "server endpoint url (default "+config.DefaultEndpoint+")")
	nodeID := fs.String("node", "", "node id to read (default "+config.DefaultNodeID+")")
	label := fs.String("label", "", "label printed with each value (default derived from the node id)")
	count := fs.Int("count", poll.DefaultCount, "number of samples")
	interval := fs.Duration("interval", poll.DefaultInterval, "time between samples")
	verbose := fs.Bool("v", false, "log debug diagnostics to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, errors.Errorf("unexpected arguments %v", fs.Args())
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return nil, err
		}
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "endpoint":
			cfg.Endpoint = *endpoint
		case "node":
			cfg.Poll.NodeID = *nodeID
		case "label":
			cfg.Poll.Label = *label
		case "count":
			cfg.Poll.Count = *count
		case "interval":
			cfg.Poll.Interval = *interval
		}
	})
	if *verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, cfg.Validate()
}

func waitForSignal() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
