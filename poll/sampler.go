// Copyright 2026 Converter Systems LLC. All rights reserved.

package poll

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Defaults of a Sampler.
const (
	DefaultCount    = 10
	DefaultInterval = time.Second
)

// TimeLayout formats the time of a Reading, e.g. 2024-05-01 13:04:05
const TimeLayout = "2006-01-02 15:04:05"

// Reading is a value read at a point in time.
type Reading struct {
	Time  time.Time
	Value interface{}
}

// ReadFunc reads the current value.
type ReadFunc func(ctx context.Context) (interface{}, error)

// Sampler reads a value a fixed number of times at a fixed interval.
type Sampler struct {
	Interval time.Duration
	Count    int
	// Clock stamps each reading. Defaults to time.Now.
	Clock func() time.Time
	// Sleep waits between readings. Defaults to Sleep.
	Sleep Sleeper
}

// NewSampler returns a Sampler taking DefaultCount readings, DefaultInterval apart.
func NewSampler() *Sampler {
	return &Sampler{Interval: DefaultInterval, Count: DefaultCount}
}

// Sample reads Count values, passing each to emit as soon as it is read, and returns them in order.
// On the first failed read, the readings so far are returned with the error.
func (s *Sampler) Sample(ctx context.Context, read ReadFunc, emit func(Reading)) ([]Reading, error) {
	clock := s.Clock
	if clock == nil {
		clock = time.Now
	}
	readings := make([]Reading, 0, s.Count)
	err := Repeat(ctx, s.Interval, s.Count, s.Sleep, func(i int) error {
		v, err := read(ctx)
		if err != nil {
			return errors.Wrapf(err, "sample %d", i+1)
		}
		r := Reading{Time: clock(), Value: v}
		readings = append(readings, r)
		if emit != nil {
			emit(r)
		}
		return nil
	})
	return readings, err
}

// Printer writes readings as lines "2024-05-01 13:04:05 | FPGA_temp = 41.5".
type Printer struct {
	Out   io.Writer
	Label string
}

// Print writes one line for the reading.
func (p *Printer) Print(r Reading) {
	fmt.Fprintf(p.Out, "%s | %s = %v\n", r.Time.Format(TimeLayout), p.Label, r.Value)
}

// LabelOf derives a label from a node id, e.g. "ns=2;s=SRTM.FPGA_temp" gives "FPGA_temp".
func LabelOf(nodeID string) string {
	id := nodeID
	if i := strings.LastIndex(id, ";"); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.Index(id, "="); i >= 0 {
		id = id[i+1:]
	}
	if i := strings.LastIndex(id, "."); i >= 0 && i < len(id)-1 {
		id = id[i+1:]
	}
	return id
}
