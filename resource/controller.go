// Package resource bounds how much executable memory a process may hold.
//
// A Controller is shared by every region that is created with it. Reserving
// a region charges its reserved length (and one region slot) against the
// configured limits; releasing the region refunds them.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for reserved executable memory.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxRegions is the maximum number of live regions.
	// If 0, the count is not limited.
	MaxRegions int64
}

// Controller manages executable-memory limits.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Regions
	regionSem *semaphore.Weighted // nil if unlimited
	regions   atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}
	if cfg.MaxRegions > 0 {
		c.regionSem = semaphore.NewWeighted(cfg.MaxRegions)
	}

	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// AcquireMemory reserves one region slot and bytes of memory.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) error {
	if c == nil {
		return nil
	}

	if c.regionSem != nil {
		if err := c.regionSem.Acquire(ctx, 1); err != nil {
			return err
		}
	}
	if c.memSem != nil && bytes > 0 {
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			if c.regionSem != nil {
				c.regionSem.Release(1)
			}
			return err
		}
	}

	c.charge(bytes)
	return nil
}

// TryAcquireMemory attempts to reserve one region slot and bytes of memory
// without blocking. Returns true if acquired, false if a limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}

	if c.regionSem != nil && !c.regionSem.TryAcquire(1) {
		return false
	}
	if c.memSem != nil && bytes > 0 && !c.memSem.TryAcquire(bytes) {
		if c.regionSem != nil {
			c.regionSem.Release(1)
		}
		return false
	}

	c.charge(bytes)
	return true
}

func (c *Controller) charge(bytes int64) {
	c.regions.Add(1)
	if bytes > 0 {
		c.memUsed.Add(bytes)
	}
}

// ReleaseMemory refunds one region slot and bytes of memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}

	if c.memSem != nil && bytes > 0 {
		c.memSem.Release(bytes)
	}
	if c.regionSem != nil {
		c.regionSem.Release(1)
	}
	c.regions.Add(-1)
	if bytes > 0 {
		c.memUsed.Add(-bytes)
	}
}

// MemoryUsage returns the current executable memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// Regions returns the number of live regions charged to the controller.
func (c *Controller) Regions() int64 {
	if c == nil {
		return 0
	}
	return c.regions.Load()
}
