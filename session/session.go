// Copyright 2026 Converter Systems LLC. All rights reserved.

package session

import (
	"context"
	"time"

	"github.com/awcullen/opcua/client"
	"github.com/awcullen/opcua/ua"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// Client is the part of *client.Client used by a Session.
type Client interface {
	Browse(ctx context.Context, request *ua.BrowseRequest) (*ua.BrowseResponse, error)
	BrowseNext(ctx context.Context, request *ua.BrowseNextRequest) (*ua.BrowseNextResponse, error)
	TranslateBrowsePathsToNodeIDs(ctx context.Context, request *ua.TranslateBrowsePathsToNodeIDsRequest) (*ua.TranslateBrowsePathsToNodeIDsResponse, error)
	Read(ctx context.Context, request *ua.ReadRequest) (*ua.ReadResponse, error)
	Close(ctx context.Context) error
	Abort(ctx context.Context) error
}

var _ Client = (*client.Client)(nil)

// DefaultDisconnectTimeout bounds the time Run waits for the server to close the session.
const DefaultDisconnectTimeout = 5 * time.Second

// Session is an open connection to a server, with the navigation and read operations used by the tools.
// A Session is not safe for concurrent use.
type Session struct {
	ch                Client
	endpoint          string
	securityPolicyURI string
	state             State
	namespaceURIs     []string
	disconnectTimeout time.Duration
	log               logr.Logger
}

// DialFunc opens a Session.
type DialFunc func(ctx context.Context) (*Session, error)

// Dial opens a session with the server using the given options.
func Dial(ctx context.Context, opts Options, log logr.Logger) (*Session, error) {
	copts, err := opts.clientOptions()
	if err != nil {
		return nil, err
	}
	log.V(1).Info("dialing", "endpoint", opts.Endpoint, "securityPolicy", opts.SecurityPolicy)
	ch, err := client.Dial(ctx, opts.Endpoint, copts...)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", opts.Endpoint)
	}
	s := New(ctx, ch, log)
	s.endpoint = opts.Endpoint
	s.securityPolicyURI = ch.SecurityPolicyURI()
	if opts.ConnectTimeout > 0 {
		s.disconnectTimeout = opts.ConnectTimeout
	}
	log.V(1).Info("connected", "endpoint", ch.EndpointURL(), "securityPolicyURI", ch.SecurityPolicyURI(), "securityMode", ch.SecurityMode())
	return s, nil
}

// New wraps a client that is already connected. The server's namespace array is read so that
// references carrying a namespace uri can be mapped to local node ids.
func New(ctx context.Context, ch Client, log logr.Logger) *Session {
	s := &Session{ch: ch, state: Connected, disconnectTimeout: DefaultDisconnectTimeout, log: log}
	if err := s.loadNamespaces(ctx); err != nil {
		log.Info("namespace array unavailable", "error", err.Error())
	}
	return s
}

// State returns the connection state.
func (s *Session) State() State {
	return s.state
}

// Endpoint returns the url the session was dialed with.
func (s *Session) Endpoint() string {
	return s.endpoint
}

// SecurityPolicyURI returns the security policy of the endpoint the session was dialed with.
func (s *Session) SecurityPolicyURI() string {
	return s.securityPolicyURI
}

// NamespaceURIs returns the namespace array of the server, or nil if it could not be read.
func (s *Session) NamespaceURIs() []string {
	return s.namespaceURIs
}

// Disconnect closes the session. If cause is not nil the session is aborted instead of closed gracefully.
// Errors from the server are logged, never returned, so they cannot replace the caller's result.
// Only the first call has an effect.
func (s *Session) Disconnect(ctx context.Context, cause error) {
	if s.state != Connected {
		return
	}
	s.state = Disconnecting
	var err error
	if cause != nil {
		err = s.ch.Abort(ctx)
	} else {
		err = s.ch.Close(ctx)
	}
	if err != nil {
		s.log.Info("error disconnecting", "endpoint", s.endpoint, "error", err.Error())
	}
	s.state = Disconnected
}

// Run dials a session, passes it to body and disconnects when body returns.
// The result is the result of dial or body. Disconnect errors are only logged.
// Disconnecting is bounded by the connect timeout, or DefaultDisconnectTimeout, even after ctx is done.
func Run(ctx context.Context, dial DialFunc, body func(ctx context.Context, s *Session) error) error {
	s, err := dial(ctx)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	err = body(ctx, s)
	dctx, cancel := context.WithTimeout(context.Background(), s.disconnectTimeout)
	defer cancel()
	s.Disconnect(dctx, err)
	return err
}

func (s *Session) loadNamespaces(ctx context.Context) error {
	res, err := s.ch.Read(ctx, &ua.ReadRequest{
		NodesToRead: []ua.ReadValueID{
			{NodeID: ua.VariableIDServerNamespaceArray, AttributeID: ua.AttributeIDValue},
		},
	})
	if err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return ua.BadUnexpectedError
	}
	if res.Results[0].StatusCode.IsBad() {
		return res.Results[0].StatusCode
	}
	uris, ok := res.Results[0].Value.([]string)
	if !ok {
		return ua.BadTypeMismatch
	}
	s.namespaceURIs = uris
	return nil
}
