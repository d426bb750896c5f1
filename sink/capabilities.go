package sink

import "github.com/samber/lo"

// Capability represents a feature that a sink can provide.
type Capability string

const (
	// Writes are streamed to the destination instead of buffered until Close
	CapabilityStreaming Capability = "streaming"
	// Directories can be created through DirectoryMaker
	CapabilityDirectories Capability = "directories"
	// Mode and modification time from the stat snapshot are kept
	CapabilityStat Capability = "stat"
	// Content type is stored alongside the object
	CapabilityContentType Capability = "content_type"
	// Objects can be read back through ObjectReader
	CapabilityRead Capability = "read"
)

// Capabilities describes what a sink supports.
type Capabilities struct {
	Capabilities  []Capability `json:"capabilities"`
	MaxObjectSize int64        `json:"max_object_size"`
}

// Contains checks if a capability is supported.
func (c *Capabilities) Contains(capability Capability) bool {
	return lo.Contains(c.Capabilities, capability)
}

// Allows reports whether an object of size bytes fits the size limit.
// A MaxObjectSize of 0 means unlimited.
func (c *Capabilities) Allows(size int64) bool {
	return c.MaxObjectSize <= 0 || size <= c.MaxObjectSize
}
