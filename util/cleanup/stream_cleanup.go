package cleanup

import (
	"io"
)

// drained bodies beyond this are just closed
const maxDrainBytes = 64 * 1024

func DumpAndCloseStream(r io.ReadCloser) {
	if r == nil {
		return // nothing to dump or close
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxDrainBytes))
	_ = r.Close()
}
