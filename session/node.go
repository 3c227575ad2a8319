// Copyright 2026 Converter Systems LLC. All rights reserved.

package session

import (
	"encoding/base64"
	"fmt"
	"strconv"

	"github.com/awcullen/opcua/ua"
)

// Node is a node of the server's address space.
type Node struct {
	ID         ua.NodeID
	BrowseName ua.QualifiedName
	// Unmapped is the id as the server sent it, when its namespace uri is not in the namespace array.
	// ID is nil in that case.
	Unmapped ua.ExpandedNodeID
}

// String returns the canonical form of the node id, e.g. "ns=2;s=Demo", or the expanded form of an
// unmapped id, e.g. "nsu=urn:srtm;s=SRTM".
func (n Node) String() string {
	if n.ID != nil {
		return fmt.Sprintf("%s", n.ID)
	}
	if n.Unmapped.NodeID != nil {
		return n.Unmapped.String()
	}
	return ""
}

// Resolved reports whether the node has a local node id that can be sent to the server.
func (n Node) Resolved() bool {
	return n.ID != nil
}

// Identity returns the namespace index and identifier of the node id.
// An unmapped id has an identifier but no namespace index.
func (n Node) Identity() Identity {
	if n.ID == nil && n.Unmapped.NodeID != nil {
		id := IdentityOf(n.Unmapped.NodeID)
		id.Namespace, id.HasNamespace = 0, false
		return id
	}
	return IdentityOf(n.ID)
}

// Identity holds the parts of a node id. A part is absent when the node id does not carry it.
type Identity struct {
	Namespace     uint16
	HasNamespace  bool
	Identifier    string
	HasIdentifier bool
}

// IdentityOf splits a node id into its namespace index and the string form of its identifier.
// Numeric identifiers are formatted in decimal, GUIDs in their canonical form and opaque identifiers in base64.
func IdentityOf(id ua.NodeID) Identity {
	switch n := id.(type) {
	case ua.NodeIDNumeric:
		return Identity{n.NamespaceIndex, true, strconv.FormatUint(uint64(n.ID), 10), true}
	case ua.NodeIDString:
		return Identity{n.NamespaceIndex, true, n.ID, true}
	case ua.NodeIDGUID:
		return Identity{n.NamespaceIndex, true, n.ID.String(), true}
	case ua.NodeIDOpaque:
		return Identity{n.NamespaceIndex, true, base64.StdEncoding.EncodeToString([]byte(n.ID)), true}
	}
	return Identity{}
}

// NamespaceString returns the namespace index in decimal, or "" if absent.
func (i Identity) NamespaceString() string {
	if !i.HasNamespace {
		return ""
	}
	return strconv.FormatUint(uint64(i.Namespace), 10)
}

// IdentifierString returns the identifier, or "" if absent.
func (i Identity) IdentifierString() string {
	if !i.HasIdentifier {
		return ""
	}
	return i.Identifier
}
