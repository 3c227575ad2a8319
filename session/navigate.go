// Copyright 2026 Converter Systems LLC. All rights reserved.

package session

import (
	"context"
	"strings"

	"github.com/awcullen/opcua/ua"
	"github.com/pkg/errors"
)

// Root returns the root folder of the address space.
func (s *Session) Root() Node {
	return Node{ID: ua.ObjectIDRootFolder, BrowseName: ua.QualifiedName{Name: "Root"}}
}

// Objects returns the 'Objects' folder, found by browse path from the root folder.
func (s *Session) Objects(ctx context.Context) (Node, error) {
	return s.Child(ctx, s.Root(), "0:Objects")
}

// Node returns the node with the given id, e.g. "ns=2;s=SRTM.FPGA_temp". The node is not read from the server.
func (s *Session) Node(id string) (Node, error) {
	nid := ua.ParseNodeID(id)
	if nid == nil || nid == ua.NodeID(ua.NodeIDNumeric{}) {
		return Node{}, errors.Errorf("invalid node id %q", id)
	}
	return Node{ID: nid}, nil
}

// Child follows a path of qualified names, e.g. "0:Objects", "2:Demo", over hierarchical references.
func (s *Session) Child(ctx context.Context, parent Node, path ...string) (Node, error) {
	if len(path) == 0 {
		return parent, nil
	}
	elements := make([]ua.RelativePathElement, len(path))
	for i, p := range path {
		elements[i] = ua.RelativePathElement{
			ReferenceTypeID: ua.ReferenceTypeIDHierarchicalReferences,
			IncludeSubtypes: true,
			TargetName:      ua.ParseQualifiedName(p),
		}
	}
	res, err := s.ch.TranslateBrowsePathsToNodeIDs(ctx, &ua.TranslateBrowsePathsToNodeIDsRequest{
		BrowsePaths: []ua.BrowsePath{
			{StartingNode: parent.ID, RelativePath: ua.RelativePath{Elements: elements}},
		},
	})
	if err != nil {
		return Node{}, errors.Wrapf(err, "translate %s", strings.Join(path, "/"))
	}
	if len(res.Results) == 0 {
		return Node{}, errors.Wrapf(ua.BadUnexpectedError, "translate %s", strings.Join(path, "/"))
	}
	r := res.Results[0]
	if r.StatusCode.IsBad() {
		return Node{}, errors.Wrapf(r.StatusCode, "translate %s", strings.Join(path, "/"))
	}
	if len(r.Targets) == 0 {
		return Node{}, errors.Wrapf(ua.BadNoMatch, "translate %s", strings.Join(path, "/"))
	}
	return s.node(r.Targets[0].TargetID, ua.ParseQualifiedName(path[len(path)-1])), nil
}

// Children returns the targets of the forward hierarchical references of the node, in the order the server
// returns them. Continuation points are followed until the server has no more references.
func (s *Session) Children(ctx context.Context, parent Node) ([]Node, error) {
	if !parent.Resolved() {
		return nil, errors.Wrapf(ua.BadNodeIDUnknown, "browse %s", parent)
	}
	res, err := s.ch.Browse(ctx, &ua.BrowseRequest{
		NodesToBrowse: []ua.BrowseDescription{
			{
				NodeID:          parent.ID,
				BrowseDirection: ua.BrowseDirectionForward,
				ReferenceTypeID: ua.ReferenceTypeIDHierarchicalReferences,
				IncludeSubtypes: true,
				ResultMask:      uint32(ua.BrowseResultMaskAll),
			},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "browse %s", parent)
	}
	if len(res.Results) == 0 {
		return nil, errors.Wrapf(ua.BadUnexpectedError, "browse %s", parent)
	}
	result := res.Results[0]
	children := []Node{}
	for {
		if result.StatusCode.IsBad() {
			return nil, errors.Wrapf(result.StatusCode, "browse %s", parent)
		}
		for _, r := range result.References {
			children = append(children, s.node(r.NodeID, r.BrowseName))
		}
		if len(result.ContinuationPoint) == 0 {
			return children, nil
		}
		s.log.V(1).Info("browse next", "node", parent.String(), "references", len(children))
		next, err := s.ch.BrowseNext(ctx, &ua.BrowseNextRequest{
			ContinuationPoints: []ua.ByteString{result.ContinuationPoint},
		})
		if err != nil {
			return nil, errors.Wrapf(err, "browse next %s", parent)
		}
		if len(next.Results) == 0 {
			return nil, errors.Wrapf(ua.BadUnexpectedError, "browse next %s", parent)
		}
		result = next.Results[0]
	}
}

// node maps an expanded node id to a local one using the namespace array.
func (s *Session) node(id ua.ExpandedNodeID, name ua.QualifiedName) Node {
	n := Node{ID: ua.ToNodeID(id, s.namespaceURIs), BrowseName: name}
	if n.ID == nil {
		n.Unmapped = id
		s.log.V(1).Info("namespace uri not in namespace array", "node", id.String())
	}
	return n
}

// Value reads the value attribute of the node.
func (s *Session) Value(ctx context.Context, n Node) (interface{}, error) {
	res, err := s.ch.Read(ctx, &ua.ReadRequest{
		NodesToRead: []ua.ReadValueID{
			{NodeID: n.ID, AttributeID: ua.AttributeIDValue},
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", n)
	}
	if len(res.Results) == 0 {
		return nil, errors.Wrapf(ua.BadUnexpectedError, "read %s", n)
	}
	if res.Results[0].StatusCode.IsBad() {
		return nil, errors.Wrapf(res.Results[0].StatusCode, "read %s", n)
	}
	return res.Results[0].Value, nil
}
