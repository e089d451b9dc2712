package puppet

import (
	"fmt"
	"os"
)

// FrameStats holds per-frame device metrics. Uploads counts buffer uploads
// (position re-syncs plus any rebuffer traffic); DrawCalls counts draw
// submissions.
type FrameStats struct {
	Uploads   int
	DrawCalls int
}

// Stats returns the metrics accumulated since the last SetTarget call.
func (d *EbitenDevice) Stats() FrameStats {
	return d.stats
}

// SetDebug toggles per-frame stats logging to stderr.
func (d *EbitenDevice) SetDebug(enabled bool) {
	d.debug = enabled
}

// logStats prints the current frame's metrics to stderr.
func (d *EbitenDevice) logStats() {
	_, _ = fmt.Fprintf(os.Stderr, "[puppet] uploads: %d | draw calls: %d\n",
		d.stats.Uploads, d.stats.DrawCalls)
}
