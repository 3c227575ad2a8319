// Copyright 2026 Converter Systems LLC. All rights reserved.

package poll

import (
	"context"
	"fmt"
	"io"

	"github.com/awcullen/uatools/session"
)

// Poller reads one node of a server and prints each reading.
type Poller struct {
	NodeID  string
	Label   string
	Sampler *Sampler
	Out     io.Writer
}

// Run opens a session with dial, resolves the node and samples it, printing each reading as it arrives.
// The session is disconnected on every path. Run returns the readings taken and the first error, if any.
func (p *Poller) Run(ctx context.Context, dial session.DialFunc) ([]Reading, error) {
	printer := &Printer{Out: p.Out, Label: p.Label}
	if printer.Label == "" {
		printer.Label = LabelOf(p.NodeID)
	}
	var readings []Reading
	err := session.Run(ctx, dial, func(ctx context.Context, s *session.Session) error {
		fmt.Fprintln(p.Out, "Connected to OPC UA server")
		n, err := s.Node(p.NodeID)
		if err != nil {
			return err
		}
		readings, err = p.Sampler.Sample(ctx, func(ctx context.Context) (interface{}, error) {
			return s.Value(ctx, n)
		}, printer.Print)
		return err
	})
	if err != nil {
		fmt.Fprintln(p.Out, "ERROR:", err)
	}
	fmt.Fprintln(p.Out, "Disconnected")
	return readings, err
}
