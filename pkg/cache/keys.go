package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// keyVersion is bumped whenever the encoding of a cached value changes, so
// entries written by an older build are never read back.
const keyVersion = "v1"

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string  `json:"format"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Annotations bool    `json:"annotations"`
	Pretty      bool    `json:"pretty,omitempty"`
	// Theme is a hash of a non-default SVG theme.
	Theme string `json:"theme,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// FrameKey identifies the encoded frame of one chart revision.
	FrameKey(chartKey, revision string) string

	// ArtifactKey identifies one rendered output of a chart definition.
	ArtifactKey(docHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the unscoped [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// FrameKey returns "frame:v1:<chartKey>:<revision>". Chart keys are
// validated by the caller and stay readable in the key.
func (DefaultKeyer) FrameKey(chartKey, revision string) string {
	return "frame:" + keyVersion + ":" + chartKey + ":" + revision
}

// ArtifactKey returns "artifact:v1:<sha256 of docHash and opts>".
func (DefaultKeyer) ArtifactKey(docHash string, opts ArtifactKeyOpts) string {
	b, _ := json.Marshal(struct {
		Doc  string          `json:"doc"`
		Opts ArtifactKeyOpts `json:"opts"`
	}{docHash, opts})
	return "artifact:" + keyVersion + ":" + Hash(b)
}

// Hash returns the hex SHA-256 of data. Chart definitions and themes are
// identified by it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
