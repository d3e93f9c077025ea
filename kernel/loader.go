package kernel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/soypat/miniature/internal/errs"
	"github.com/soypat/miniature/internal/monitoring"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCells is the mesh resolution of kernels created by a Loader
// with a zero Cells field.
const DefaultCells = 200

// Loader initializes a Kernel once and memoizes it. A failed
// initialization leaves the Loader empty so the next Load retries.
// The zero value is ready to use.
type Loader struct {
	// Cells is copied into the loaded Kernel.
	Cells int
	// SelfTest, if set, replaces the default self test which meshes a unit cube.
	SelfTest func(context.Context, *Kernel) error

	mu sync.Mutex
	k  *Kernel
}

// Load returns the memoized Kernel, initializing it on first use.
// Errors wrap errs.ErrCapabilityInit.
func (l *Loader) Load(ctx context.Context) (*Kernel, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.k != nil {
		return l.k, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("kernel load: %w: %v", errs.ErrCapabilityInit, err)
	}
	cells := l.Cells
	if cells <= 0 {
		cells = DefaultCells
	}
	k := &Kernel{Cells: cells}
	test := l.SelfTest
	if test == nil {
		test = selfTest
	}
	if err := test(ctx, k); err != nil {
		monitoring.Logf("kernel: self test failed: %v", err)
		return nil, fmt.Errorf("kernel load: %w: %v", errs.ErrCapabilityInit, err)
	}
	monitoring.Logf("kernel: ready (cells=%d)", cells)
	l.k = k
	return k, nil
}

// Reset discards the memoized kernel.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.k = nil
	l.mu.Unlock()
}

func selfTest(ctx context.Context, k *Kernel) error {
	cube, err := k.Box(r3.Vec{X: 1, Y: 1, Z: 1})
	if err != nil {
		return err
	}
	m, err := k.Mesh(cube, 4)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case m.IsEmpty():
		return errors.New("unit cube meshed empty")
	case !m.Closed():
		return errors.New("unit cube mesh not closed")
	}
	return nil
}
