// Copyright 2026 Converter Systems LLC. All rights reserved.

// Command uabrowse walks the address space of an OPC UA server and exports every node to a file.
//
// Usage:
//
//	uabrowse [flags] [output_file]
//
// The default output is opcua_nodes.csv.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/awcullen/uatools/browse"
	"github.com/awcullen/uatools/config"
	"github.com/awcullen/uatools/logging"
	"github.com/awcullen/uatools/session"
	"github.com/go-logr/logr"
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

	fmt.Fprintf(stdout, "Connecting to %s...\n", cfg.Endpoint)

	connected := false
	dial := func(ctx context.Context) (*session.Session, error) {
		return dialSession(ctx, cfg.SessionOptions(), log)
	}
	err = session.Run(ctx, dial, func(ctx context.Context, s *session.Session) error {
		connected = true
		fmt.Fprintf(stdout, "Connected!\n\n")
		return export(ctx, cfg, s, log, stdout)
	})

	if !connected {
		fmt.Fprintf(stdout, "Error opening client connection. %s\n", err.Error())
		return 1
	}
	if err != nil {
		fmt.Fprintf(stdout, "Error browsing. %s\n", err.Error())
	}
	fmt.Fprintf(stdout, "\nDisconnected.\n")
	if err != nil {
		return 1
	}
	return 0
}

// export walks the address space, writes the records and prints a summary.
func export(ctx context.Context, cfg *config.Config, s *session.Session, log logr.Logger, out io.Writer) error {
	var start session.Node
	var err error
	if cfg.Browse.StartNode != "" {
		start, err = s.Node(cfg.Browse.StartNode)
	} else {
		start, err = s.Objects(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Browsing nodes...\n")
	walker := &browse.Walker{MaxDepth: cfg.Browse.Depth(), Log: log}
	records, err := walker.Walk(ctx, s, start)
	if err != nil {
		return errors.Wrapf(err, "stopped after %d nodes", len(records))
	}

	format, err := browse.FormatOf(cfg.Browse.Output, cfg.Browse.Format)
	if err != nil {
		return err
	}
	if err := browse.Export(ctx, cfg.Browse.Output, format, records); err != nil {
		return errors.Wrapf(err, "write %s", cfg.Browse.Output)
	}
	fmt.Fprintf(out, "%s written to: %s\n", strings.ToUpper(format), cfg.Browse.Output)
	printSummary(out, browse.Summarize(records, cfg.Browse.Filter))
	return nil
}

func printSummary(out io.Writer, sum browse.Summary) {
	fmt.Fprintf(out, "Total nodes: %d\n", sum.Total)
	if sum.Errors > 0 {
		fmt.Fprintf(out, "Nodes with errors: %d\n", sum.Errors)
	}
	fmt.Fprintf(out, "\n%s top-level nodes: %d\n", sum.Filter, sum.TopLevel)
	if cats := sum.SortedCategories(); len(cats) > 0 {
		fmt.Fprintf(out, "\n%s Node Categories:\n", sum.Filter)
		for _, c := range cats {
			fmt.Fprintf(out, "  %s: %d nodes\n", c.Name, c.Count)
		}
	}
}

// parseArgs loads the config file, if any, and applies the flags and the output argument over it.
func parseArgs(args []string, stderr io.Writer) (*config.Config, error) {
	fs := flag.NewFlagSet("uabrowse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: uabrowse [flags] [output_file]\n")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "path to yaml config file")
	endpoint := fs.String("endpoint", "", "server endpoint url (default "+config.DefaultEndpoint+")")
	maxDepth := fs.Int("max-depth", browse.DefaultMaxDepth, "maximum depth below the start node")
	filter := fs.String("filter", "", "subsystem counted in the summary (default "+browse.DefaultFilter+")")
	format := fs.String("format", "", "output format: csv, xlsx or sqlite (default by file extension)")
	start := fs.String("start", "", "node id to start from (default Objects folder)")
	verbose := fs.Bool("v", false, "log debug diagnostics to stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 1 {
		return nil, errors.Errorf("unexpected arguments %v", fs.Args()[1:])
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
		case "max-depth":
			cfg.Browse.MaxDepth = maxDepth
		case "filter":
			cfg.Browse.Filter = *filter
		case "format":
			cfg.Browse.Format = *format
		case "start":
			cfg.Browse.StartNode = *start
		}
	})
	if fs.NArg() == 1 {
		cfg.Browse.Output = fs.Arg(0)
	}
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
