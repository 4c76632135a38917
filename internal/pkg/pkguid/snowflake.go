package pkguid

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Epoch is the reference instant for reading ids (2026-01-01T00:00:00Z).
var Epoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// RandomNode asks NewSnowflake to pick a node id itself.
const RandomNode int64 = -1

const maxNode = 1<<10 - 1

// Snowflake generates numeric IDs using the Snowflake algorithm.
type Snowflake struct {
	node   *snowflake.Node
	nodeID int64
}

func generateRandomNodeID() (int64, error) {
	var nodeID int64
	if err := binary.Read(rand.Reader, binary.BigEndian, &nodeID); err != nil {
		return 0, err
	}

	return nodeID & maxNode, nil
}

// NewSnowflake builds a generator for the given node, RandomNode picks one.
//
// Several processes writing to the same store must use distinct nodes.
func NewSnowflake(nodeID int64) (*Snowflake, error) {
	if nodeID == RandomNode {
		id, err := generateRandomNodeID()
		if err != nil {
			return nil, err
		}
		nodeID = id
	}
	if nodeID < 0 || nodeID > maxNode {
		return nil, fmt.Errorf("snowflake node %d out of range 0..%d", nodeID, maxNode)
	}

	snowflake.Epoch = Epoch.UnixMilli()

	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node, nodeID: nodeID}, nil
}

// Generate returns a new unique numeric ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}

// Node is the node id baked into every generated id.
func (s *Snowflake) Node() int64 {
	return s.nodeID
}
