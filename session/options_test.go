// Copyright 2026 Converter Systems LLC. All rights reserved.

package session

import (
	"testing"
	"time"

	"github.com/awcullen/opcua/ua"
	"gotest.tools/assert"
)

func TestClientOptions(t *testing.T) {
	opts, err := Options{Endpoint: "opc.tcp://localhost:4840"}.clientOptions()
	assert.NilError(t, err)
	assert.Equal(t, len(opts), 1) // security policy none

	opts, err = Options{
		Endpoint:           "opc.tcp://localhost:4840",
		SecurityPolicy:     "Best",
		UserName:           "root",
		Password:           "secret",
		InsecureSkipVerify: true,
		ApplicationName:    "uatools",
		SessionTimeout:     2 * time.Minute,
		ConnectTimeout:     5 * time.Second,
	}.clientOptions()
	assert.NilError(t, err)
	assert.Equal(t, len(opts), 5)

	_, err = Options{SecurityPolicy: "rot13"}.clientOptions()
	assert.ErrorContains(t, err, "unknown security policy")

	_, err = Options{CertificateFile: "./pki/client.crt"}.clientOptions()
	assert.ErrorContains(t, err, "must be set together")
}

func TestSecurityPolicy(t *testing.T) {
	cases := []struct {
		name string
		uri  string
		mode ua.MessageSecurityMode
	}{
		{"", ua.SecurityPolicyURINone, ua.MessageSecurityModeNone},
		{"None", ua.SecurityPolicyURINone, ua.MessageSecurityModeNone},
		{"best", ua.SecurityPolicyURIBestAvailable, ua.MessageSecurityModeInvalid},
		{"basic128rsa15", ua.SecurityPolicyURIBasic128Rsa15, ua.MessageSecurityModeSignAndEncrypt},
		{"basic256", ua.SecurityPolicyURIBasic256, ua.MessageSecurityModeSignAndEncrypt},
		{"Basic256Sha256", ua.SecurityPolicyURIBasic256Sha256, ua.MessageSecurityModeSignAndEncrypt},
		{"aes128sha256rsaoaep", ua.SecurityPolicyURIAes128Sha256RsaOaep, ua.MessageSecurityModeSignAndEncrypt},
		{"aes256sha256rsapss", ua.SecurityPolicyURIAes256Sha256RsaPss, ua.MessageSecurityModeSignAndEncrypt},
	}
	for _, c := range cases {
		uri, mode, err := securityPolicy(c.name)
		assert.NilError(t, err, c.name)
		assert.Equal(t, uri, c.uri, c.name)
		assert.Equal(t, mode, c.mode, c.name)
	}
	_, _, err := securityPolicy("rot13")
	assert.ErrorContains(t, err, "unknown security policy")
}

func TestIsKnownPolicy(t *testing.T) {
	assert.Assert(t, IsKnownPolicy(""))
	assert.Assert(t, IsKnownPolicy("Basic256Sha256"))
	assert.Assert(t, IsKnownPolicy(PolicyBest))
	assert.Assert(t, !IsKnownPolicy("rsa"))
}
