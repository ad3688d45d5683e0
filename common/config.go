// this code is adapted from https://github.com/pzhzqt/goostub
// there is license and copyright notice in licenses/goostub dir

package common

import "fmt"

// PageSize is the fixed width, in bytes, of every disk page / buffer
// pool frame.
const PageSize = 4096

// Config groups the tunables a BufferPoolManager is constructed with.
type Config struct {
	// PoolSize is the fixed number of frames held in memory.
	PoolSize uint32
	// K is the LRU-K replacer's history depth.
	K uint32
}

// Validate reports the first configuration error found, or nil.
func (c Config) Validate() error {
	if c.PoolSize == 0 {
		return fmt.Errorf("common: pool size must be >= 1")
	}
	if c.K == 0 {
		return fmt.Errorf("common: K must be >= 1")
	}
	return nil
}
