// Package disk provides the DiskManager contract the buffer pool
// manager consumes, plus two concrete implementations.
package disk

import (
	"github.com/latticedb/lattice/types"
)

// DiskManager reads and writes fixed-size pages. ReadPage/WritePage are
// blocking and assumed to never fail in the steady state; the error
// return exists for I/O conditions a real file can hit (truncated file,
// closed handle).
type DiskManager interface {
	ReadPage(types.PageID, []byte) error
	WritePage(types.PageID, []byte) error
	AllocatePage() types.PageID
	DeallocatePage(types.PageID)
	GetNumWrites() uint64
	ShutDown()
	Size() int64
}
