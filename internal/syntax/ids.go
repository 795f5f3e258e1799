package syntax

// NodeID identifies a node inside one Tree's arena.
type NodeID uint32

// NoNodeID marks the absence of a node reference.
const NoNodeID NodeID = 0

// IsValid reports whether the node ID refers to an allocated node.
func (id NodeID) IsValid() bool { return id != NoNodeID }
