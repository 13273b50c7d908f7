package utilities

import (
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// NewRequestID returns a KSUID string, sortable by creation time.
func NewRequestID() string {
	return ksuid.New().String()
}

// IDGenerator issues user ids. Snowflake when the node is valid, KSUID otherwise.
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator returns a generator bound to nodeID (0..1023).
func NewIDGenerator(nodeID int64) *IDGenerator {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return &IDGenerator{}
	}
	return &IDGenerator{node: node}
}

// NodeFromEnv reads SNOWFLAKE_NODE, defaulting to 1.
func NodeFromEnv() int64 {
	v := os.Getenv("SNOWFLAKE_NODE")
	if v == "" {
		return 1
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 1
	}
	return n
}

func (g *IDGenerator) NewID() string {
	if g == nil || g.node == nil {
		return ksuid.New().String()
	}
	return g.node.Generate().String()
}
