// Package metrics keeps the handful of operation counters exposed on the
// token-gated /metrics endpoint.
package metrics

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Counters is safe for concurrent use.
type Counters struct {
	commits    atomic.Int64
	tombstones atomic.Int64
	verifies   atomic.Int64
	anchorHits atomic.Int64
}

func New() *Counters { return &Counters{} }

func (c *Counters) IncCommits()    { c.commits.Add(1) }
func (c *Counters) IncTombstones() { c.tombstones.Add(1) }
func (c *Counters) IncVerifies()   { c.verifies.Add(1) }
func (c *Counters) IncAnchorHits() { c.anchorHits.Add(1) }

// Render emits the counters as Prometheus-style plaintext.
func (c *Counters) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "hbuk_commits_total %d\n", c.commits.Load())
	fmt.Fprintf(&b, "hbuk_tombstones_total %d\n", c.tombstones.Load())
	fmt.Fprintf(&b, "hbuk_verify_total %d\n", c.verifies.Load())
	fmt.Fprintf(&b, "hbuk_anchor_hits_total %d\n", c.anchorHits.Load())
	return b.String()
}
