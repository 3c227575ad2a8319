// Copyright 2026 Converter Systems LLC. All rights reserved.

package browse

import (
	"strconv"

	"github.com/awcullen/uatools/session"
)

// ErrorName is the name of the record that stands in for a node whose children could not be listed.
const ErrorName = "[ERROR]"

// Header names the exported columns, in order.
var Header = []string{"depth", "name", "full_path", "namespace", "identifier", "nodeid_str"}

// Record describes one node found while walking the address space.
type Record struct {
	// Distance from the start node. The start node's children have depth 0.
	Depth int
	// Browse name, without namespace index.
	Name string
	// Browse names from the start node to this node, joined by '.'.
	FullPath string
	// Namespace index in decimal, or "" if the node id carries none.
	Namespace string
	// Identifier of the node id, or "" if the node id carries none.
	Identifier string
	// Canonical node id, or the error message for an error record.
	NodeID string
}

// IsError returns true if the record stands in for a node whose children could not be listed.
func (r Record) IsError() bool {
	return r.Name == ErrorName
}

// Fields returns the record's columns in Header order.
func (r Record) Fields() []string {
	return []string{strconv.Itoa(r.Depth), r.Name, r.FullPath, r.Namespace, r.Identifier, r.NodeID}
}

func newRecord(n session.Node, path string, depth int) Record {
	id := n.Identity()
	return Record{
		Depth:      depth,
		Name:       n.BrowseName.Name,
		FullPath:   path,
		Namespace:  id.NamespaceString(),
		Identifier: id.IdentifierString(),
		NodeID:     n.String(),
	}
}

func errorRecord(err error, path string, depth int) Record {
	return Record{Depth: depth, Name: ErrorName, FullPath: path, NodeID: err.Error()}
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
