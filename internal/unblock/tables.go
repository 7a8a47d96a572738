package unblock

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/AnyUserName/unblock-cli/internal/chroma"
	"github.com/AnyUserName/unblock-cli/internal/convert"
	"github.com/AnyUserName/unblock-cli/internal/planar"
)

type tables struct {
	// sqrt[i] is floor(sqrt(i)+0.5).
	sqrt [256]uint8
}

var (
	mu      sync.Mutex
	current atomic.Pointer[tables]
)

// Initialize builds the conversion, resampling and engine tables, in that
// order. Repeated calls are no-ops.
func Initialize() error {
	mu.Lock()
	defer mu.Unlock()

	if err := convert.Initialize(); err != nil {
		return planar.Wrap("initialize", err)
	}
	if err := chroma.Initialize(); err != nil {
		return planar.Wrap("initialize", err)
	}
	if current.Load() != nil {
		return nil
	}

	t := new(tables)
	for i := range t.sqrt {
		t.sqrt[i] = uint8(math.Floor(math.Sqrt(float64(i)) + 0.5))
	}
	current.Store(t)
	return nil
}

// Finalize releases the engine tables, then the resampling and conversion
// tables. Repeated calls are no-ops.
func Finalize() error {
	mu.Lock()
	defer mu.Unlock()

	current.Store(nil)
	if err := chroma.Finalize(); err != nil {
		return planar.Wrap("finalize", err)
	}
	if err := convert.Finalize(); err != nil {
		return planar.Wrap("finalize", err)
	}
	return nil
}

// Initialized reports whether the engine tables are built.
func Initialized() bool {
	return current.Load() != nil
}

func load(op string) (*tables, error) {
	t := current.Load()
	if t == nil {
		return nil, planar.NewError(planar.KindNotInitialized, op, "unblock tables not built")
	}
	return t, nil
}
