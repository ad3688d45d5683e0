// this code is adapted from a VirtualDiskManagerImpl that required
// github.com/dsnet/golib/memfile without ever actually building
// against it.

package disk

import (
	"fmt"
	"sync"

	"github.com/dsnet/golib/memfile"
	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/types"
)

// MemManager is a DiskManager backed by an in-memory virtual file. It
// is used by the buffer pool's own tests and by cmd/latticebench so the
// engine can run without touching the filesystem.
type MemManager struct {
	mu         sync.Mutex
	db         *memfile.File
	nextPageID types.PageID
	numWrites  uint64
	size       int64
}

// NewMemManager returns a DiskManager with no pages yet allocated.
func NewMemManager() *MemManager {
	return &MemManager{db: memfile.New(make([]byte, 0))}
}

func (d *MemManager) ShutDown() {}

func (d *MemManager) WritePage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * common.PageSize
	if _, err := d.db.WriteAt(pageData, offset); err != nil {
		return err
	}
	if next := offset + int64(len(pageData)); next > d.size {
		d.size = next
	}
	d.numWrites++
	return nil
}

func (d *MemManager) ReadPage(pageID types.PageID, pageData []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	offset := int64(pageID) * common.PageSize
	if offset >= d.size {
		for i := range pageData {
			pageData[i] = 0
		}
		return nil
	}

	n, err := d.db.ReadAt(pageData, offset)
	if err != nil {
		return fmt.Errorf("disk: read page %d: %w", pageID, err)
	}
	for i := n; i < len(pageData); i++ {
		pageData[i] = 0
	}
	return nil
}

func (d *MemManager) AllocatePage() types.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := d.nextPageID
	d.nextPageID++
	return id
}

// DeallocatePage is informational only; page ids are never recycled.
func (d *MemManager) DeallocatePage(types.PageID) {}

func (d *MemManager) GetNumWrites() uint64 {
	return d.numWrites
}

func (d *MemManager) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.size
}
