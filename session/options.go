// Copyright 2026 Converter Systems LLC. All rights reserved.

package session

import (
	"strings"
	"time"

	"github.com/awcullen/opcua/client"
	"github.com/awcullen/opcua/ua"
	"github.com/pkg/errors"
)

// Security policy names accepted by Options.SecurityPolicy.
const (
	PolicyNone                = "none"
	PolicyBest                = "best"
	PolicyBasic128Rsa15       = "basic128rsa15"
	PolicyBasic256            = "basic256"
	PolicyBasic256Sha256      = "basic256sha256"
	PolicyAes128Sha256RsaOaep = "aes128sha256rsaoaep"
	PolicyAes256Sha256RsaPss  = "aes256sha256rsapss"
)

// Options describes how to open a session with a server.
// The zero value, apart from Endpoint, selects security policy None and the anonymous identity.
type Options struct {
	// The url of the server, e.g. opc.tcp://localhost:4840
	Endpoint string
	// One of the Policy constants. Empty means PolicyNone. PolicyBest lets the client select the most secure endpoint.
	SecurityPolicy string
	// UserName and Password select a UserNameIdentity. Empty UserName means AnonymousIdentity.
	UserName string
	Password string
	// File paths of the client certificate and private key.
	CertificateFile string
	KeyFile         string
	// Path of the trusted server certificates or certificate authorities. May be a file, comma-separated files or a directory.
	TrustedCertificatesFile string
	// Skips checking HostName, Expiration, and Authority of the server certificate.
	InsecureSkipVerify bool
	ApplicationName    string
	SessionTimeout     time.Duration
	ConnectTimeout     time.Duration
	// Logs all ServiceRequests and ServiceResponses to StdOut.
	Trace bool
}

// IsKnownPolicy reports whether name is one of the Policy constants, ignoring case. Empty is PolicyNone.
func IsKnownPolicy(name string) bool {
	_, _, err := securityPolicy(name)
	return err == nil
}

// securityPolicy returns the policy uri and message security mode selected by name.
// PolicyBest returns ua.SecurityPolicyURIBestAvailable and MessageSecurityModeInvalid, which match any endpoint.
func securityPolicy(name string) (string, ua.MessageSecurityMode, error) {
	switch strings.ToLower(name) {
	case "", PolicyNone:
		return ua.SecurityPolicyURINone, ua.MessageSecurityModeNone, nil
	case PolicyBest:
		return ua.SecurityPolicyURIBestAvailable, ua.MessageSecurityModeInvalid, nil
	case PolicyBasic128Rsa15:
		return ua.SecurityPolicyURIBasic128Rsa15, ua.MessageSecurityModeSignAndEncrypt, nil
	case PolicyBasic256:
		return ua.SecurityPolicyURIBasic256, ua.MessageSecurityModeSignAndEncrypt, nil
	case PolicyBasic256Sha256:
		return ua.SecurityPolicyURIBasic256Sha256, ua.MessageSecurityModeSignAndEncrypt, nil
	case PolicyAes128Sha256RsaOaep:
		return ua.SecurityPolicyURIAes128Sha256RsaOaep, ua.MessageSecurityModeSignAndEncrypt, nil
	case PolicyAes256Sha256RsaPss:
		return ua.SecurityPolicyURIAes256Sha256RsaPss, ua.MessageSecurityModeSignAndEncrypt, nil
	}
	return "", ua.MessageSecurityModeInvalid, errors.Errorf("unknown security policy %q", name)
}

// clientOptions converts the Options to the functional options of the client package.
func (o Options) clientOptions() ([]client.Option, error) {
	opts := []client.Option{}
	uri, mode, err := securityPolicy(o.SecurityPolicy)
	if err != nil {
		return nil, err
	}
	// the client selects the most secure endpoint by default
	if uri != ua.SecurityPolicyURIBestAvailable {
		opts = append(opts, client.WithSecurityPolicyURI(uri, mode))
	}
	if o.UserName != "" {
		opts = append(opts, client.WithUserNameIdentity(o.UserName, o.Password))
	}
	if o.CertificateFile != "" || o.KeyFile != "" {
		if o.CertificateFile == "" || o.KeyFile == "" {
			return nil, errors.New("client certificate and key must be set together")
		}
		opts = append(opts, client.WithClientCertificatePaths(o.CertificateFile, o.KeyFile))
	}
	if o.TrustedCertificatesFile != "" {
		opts = append(opts, client.WithTrustedCertificatesPaths(o.TrustedCertificatesFile, ""))
	}
	if o.InsecureSkipVerify {
		opts = append(opts, client.WithInsecureSkipVerify())
	}
	if o.ApplicationName != "" {
		opts = append(opts, client.WithApplicationName(o.ApplicationName))
	}
	if o.SessionTimeout > 0 {
		opts = append(opts, client.WithSessionTimeout(float64(o.SessionTimeout.Milliseconds())))
	}
	if o.ConnectTimeout > 0 {
		opts = append(opts, client.WithConnectTimeout(o.ConnectTimeout.Milliseconds()))
	}
	if o.Trace {
		opts = append(opts, client.WithTrace())
	}
	return opts, nil
}
