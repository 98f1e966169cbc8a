package dataset

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Fingerprint derives a short stable identifier for the loaded collection
// from dataset names and row counts. It changes whenever the underlying
// files change shape, which is enough to key cached summaries on.
func (c *Collection) Fingerprint() string {
	var sb strings.Builder
	for _, name := range c.Names() {
		df, _ := c.Get(name)
		fmt.Fprintf(&sb, "%s:%d:%d;", name, df.Nrow(), df.Ncol())
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:8])
}
