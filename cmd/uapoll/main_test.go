// Copyright 2026 Converter Systems LLC. All rights reserved.

package main

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/awcullen/opcua/ua"
	"github.com/awcullen/uatools/session"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"gotest.tools/assert"
)

// sensor is a session.Client answering reads from a list of results.
type sensor struct {
	results  []interface{} // a value or an error
	cancel   context.CancelFunc
	closed   bool
	closeErr error
}

func (c *sensor) Browse(ctx context.Context, req *ua.BrowseRequest) (*ua.BrowseResponse, error) {
	return nil, ua.BadServiceUnsupported
}

func (c *sensor) BrowseNext(ctx context.Context, req *ua.BrowseNextRequest) (*ua.BrowseNextResponse, error) {
	return nil, ua.BadServiceUnsupported
}

func (c *sensor) TranslateBrowsePathsToNodeIDs(ctx context.Context, req *ua.TranslateBrowsePathsToNodeIDsRequest) (*ua.TranslateBrowsePathsToNodeIDsResponse, error) {
	return nil, ua.BadServiceUnsupported
}

func (c *sensor) Read(ctx context.Context, req *ua.ReadRequest) (*ua.ReadResponse, error) {
	if req.NodesToRead[0].NodeID == ua.VariableIDServerNamespaceArray {
		return &ua.ReadResponse{Results: []ua.DataValue{{Value: []string{"http://opcfoundation.org/UA/"}}}}, nil
	}
	if len(c.results) == 0 {
		if c.cancel != nil {
			c.cancel()
		}
		return nil, ua.BadNoData
	}
	r := c.results[0]
	c.results = c.results[1:]
	if len(c.results) == 0 && c.cancel != nil {
		c.cancel()
	}
	if err, ok := r.(error); ok {
		return nil, err
	}
	return &ua.ReadResponse{Results: []ua.DataValue{{Value: r}}}, nil
}

func (c *sensor) Close(ctx context.Context) error {
	c.closed = true
	return c.closeErr
}

func (c *sensor) Abort(ctx context.Context) error {
	c.closed = true
	return nil
}

func useSensor(t *testing.T, c *sensor, err error) {
	prev := dialSession
	dialSession = func(ctx context.Context, opts session.Options, log logr.Logger) (*session.Session, error) {
		if err != nil {
			return nil, err
		}
		return session.New(ctx, c, log), nil
	}
	t.Cleanup(func() { dialSession = prev })
}

var sampleLine = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} \| FPGA_temp = `)

func TestRunAllSamples(t *testing.T) {
	c := &sensor{results: []interface{}{float64(41.5), float64(41.75), float64(42)}}
	useSensor(t, c, nil)
	stdout := &bytes.Buffer{}

	code := run(context.Background(), []string{"-count", "3", "-interval", "1ms"}, stdout, &bytes.Buffer{})
	assert.Equal(t, code, 0)
	assert.Assert(t, c.closed)

	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	assert.Equal(t, len(lines), 9, stdout.String())
	assert.Equal(t, lines[0], "------->>")
	assert.Equal(t, lines[1], ">> pinging [ns=2;s=SRTM.FPGA_temp] >> | for 3 samples..")
	assert.Equal(t, lines[2], "--------->>>")
	assert.Equal(t, lines[3], "Connected to OPC UA server")
	for i, v := range []string{"41.5", "41.75", "42"} {
		assert.Assert(t, sampleLine.MatchString(lines[4+i]), lines[4+i])
		assert.Assert(t, strings.HasSuffix(lines[4+i], " = "+v), lines[4+i])
	}
	assert.Equal(t, lines[7], "Disconnected")
	assert.Equal(t, lines[8], ">>Program Finished>>>")
}

func TestRunPartial(t *testing.T) {
	c := &sensor{results: []interface{}{float64(41.5), ua.BadCommunicationError}}
	useSensor(t, c, nil)
	stdout := &bytes.Buffer{}
	code := run(context.Background(), []string{"-count", "5", "-interval", "1ms"}, stdout, &bytes.Buffer{})
	assert.Equal(t, code, 2)
	assert.Assert(t, strings.Contains(stdout.String(), "\nERROR: sample 2: "), stdout.String())
	assert.Assert(t, strings.HasSuffix(stdout.String(), "Disconnected\n>>Program Finished>>>\n\n"))
	assert.Assert(t, c.closed)
}

func TestRunConnectFailure(t *testing.T) {
	useSensor(t, nil, errors.New("connection refused"))
	stdout := &bytes.Buffer{}
	code := run(context.Background(), nil, stdout, &bytes.Buffer{})
	assert.Equal(t, code, 1)
	assert.Assert(t, strings.Contains(stdout.String(), "ERROR: connect: connection refused\nDisconnected\n"))
}

func TestRunLabelAndNode(t *testing.T) {
	c := &sensor{results: []interface{}{int32(7)}}
	useSensor(t, c, nil)
	stdout := &bytes.Buffer{}
	code := run(context.Background(), []string{"-node", "ns=3;i=1001", "-label", "pressure", "-count", "1"}, stdout, &bytes.Buffer{})
	assert.Equal(t, code, 0)
	assert.Assert(t, strings.Contains(stdout.String(), ">> pinging [ns=3;i=1001] >> | for 1 samples.."))
	assert.Assert(t, strings.Contains(stdout.String(), " | pressure = 7\n"), stdout.String())
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := &sensor{results: []interface{}{float64(1), float64(2)}, cancel: cancel}
	useSensor(t, c, nil)
	stdout := &bytes.Buffer{}
	code := run(ctx, []string{"-count", "10", "-interval", "1ms"}, stdout, &bytes.Buffer{})
	assert.Equal(t, code, 130, stdout.String())
	assert.Assert(t, c.closed)
	assert.Assert(t, strings.Contains(stdout.String(), "Disconnected\n"))
}

func TestRunBadConfig(t *testing.T) {
	stderr := &bytes.Buffer{}
	code := run(context.Background(), []string{"-count", "0"}, &bytes.Buffer{}, stderr)
	assert.Equal(t, code, 2)
	assert.Assert(t, strings.Contains(stderr.String(), "poll.count must be at least 1"))

	code = run(context.Background(), []string{"extra"}, &bytes.Buffer{}, &bytes.Buffer{})
	assert.Equal(t, code, 2)
}

func TestRunLogsDisconnectError(t *testing.T) {
	c := &sensor{results: []interface{}{float64(41.5)}, closeErr: errors.New("socket closed")}
	useSensor(t, c, nil)
	stderr := &bytes.Buffer{}
	code := run(context.Background(), []string{"-count", "1"}, &bytes.Buffer{}, stderr)
	assert.Equal(t, code, 0)
	assert.Assert(t, strings.Contains(stderr.String(), "error disconnecting"), stderr.String())
	assert.Assert(t, strings.Contains(stderr.String(), "socket closed"), stderr.String())
	assert.Assert(t, !strings.Contains(stderr.String(), "dialing"))
}
