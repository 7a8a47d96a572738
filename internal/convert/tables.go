package convert

import (
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/unblock-cli/internal/planar"
)

// tables holds the fixed-point products for both conversion directions.
// Forward entries are scaled by 2^16 with the rounding bias folded into one
// term; inverse entries for R and B are already shifted down.
type tables struct {
	yR, yG, yB    [256]int32
	cbR, cbG, cbB [256]int32
	crR, crG, crB [256]int32

	rCr      [256]int16
	bCb      [256]int16
	gCb, gCr [256]int32
}

var (
	mu      sync.Mutex
	current atomic.Pointer[tables]
)

func buildTables() *tables {
	t := new(tables)
	for i := int32(0); i < 256; i++ {
		t.yR[i] = 19595*i + 32768
		t.yG[i] = 38470 * i
		t.yB[i] = 7471 * i

		t.cbR[i] = -11058 * i
		t.cbG[i] = -21709 * i
		t.cbB[i] = 32767*i + 8421376

		t.crR[i] = 32767*i + 8421376
		t.crG[i] = -27438 * i
		t.crB[i] = -5329 * i

		t.rCr[i] = int16((91885*i - 11728512) >> 16)
		t.bCb[i] = int16((116134*i - 14832384) >> 16)
		t.gCb[i] = 8910464 - 22554*i
		t.gCr[i] = -46803 * i
	}
	return t
}

// Initialize builds the conversion tables. Repeated calls are no-ops.
func Initialize() error {
	mu.Lock()
	defer mu.Unlock()
	if current.Load() == nil {
		current.Store(buildTables())
	}
	return nil
}

// Finalize releases the conversion tables. Repeated calls are no-ops.
// Conversions started before Finalize finish with the tables they loaded.
func Finalize() error {
	mu.Lock()
	defer mu.Unlock()
	current.Store(nil)
	return nil
}

// Initialized reports whether Initialize has run since the last Finalize.
func Initialized() bool {
	return current.Load() != nil
}

func load(op string) (*tables, error) {
	t := current.Load()
	if t == nil {
		return nil, planar.NewError(planar.KindNotInitialized, op, "conversion tables not built")
	}
	return t, nil
}

func clamp(v int32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}
