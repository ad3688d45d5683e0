// this code is adapted from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"fmt"
	"io"
	"os"

	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/types"
)

// FileManager is a DiskManager backed by an *os.File; page i lives at
// byte offset i*PageSize.
type FileManager struct {
	db         *os.File
	fileName   string
	nextPageID types.PageID
	numWrites  uint64
	size       int64
}

// NewFileManager opens (creating if necessary) dbFilename and resumes
// page-id allocation after whatever pages it already holds.
func NewFileManager(dbFilename string) (*FileManager, error) {
	file, err := os.OpenFile(dbFilename, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("disk: open db file: %w", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("disk: stat db file: %w", err)
	}

	fileSize := fileInfo.Size()
	nextPageID := types.PageID(fileSize / common.PageSize)

	return &FileManager{
		db:         file,
		fileName:   dbFilename,
		nextPageID: nextPageID,
		size:       fileSize,
	}, nil
}

// ShutDown closes the database file.
func (d *FileManager) ShutDown() {
	d.db.Close()
}

// WritePage persists pageData as the contents of page pageID.
func (d *FileManager) WritePage(pageID types.PageID, pageData []byte) error {
	offset := int64(pageID) * common.PageSize
	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	written, err := d.db.Write(pageData)
	if err != nil {
		return err
	}
	if written != common.PageSize {
		return fmt.Errorf("disk: short write: wrote %d of %d bytes", written, common.PageSize)
	}
	if next := offset + int64(written); next > d.size {
		d.size = next
	}
	d.numWrites++
	return d.db.Sync()
}

// ReadPage fills pageData with the current on-disk contents of page
// pageID. Reading past the end of the file yields a zero-filled page
// rather than an error, matching a freshly allocated but never-written
// page.
func (d *FileManager) ReadPage(pageID types.PageID, pageData []byte) error {
	offset := int64(pageID) * common.PageSize

	fileInfo, err := d.db.Stat()
	if err != nil {
		return fmt.Errorf("disk: stat db file: %w", err)
	}
	if offset >= fileInfo.Size() {
		for i := range pageData {
			pageData[i] = 0
		}
		return nil
	}

	if _, err := d.db.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	read, err := d.db.Read(pageData)
	if err != nil && err != io.EOF {
		return fmt.Errorf("disk: read page %d: %w", pageID, err)
	}
	for i := read; i < len(pageData); i++ {
		pageData[i] = 0
	}
	return nil
}

// AllocatePage hands out the next monotonically increasing page id.
func (d *FileManager) AllocatePage() types.PageID {
	id := d.nextPageID
	d.nextPageID++
	return id
}

// DeallocatePage is informational only; page ids are never recycled.
func (d *FileManager) DeallocatePage(types.PageID) {}

// GetNumWrites returns the number of successful WritePage calls.
func (d *FileManager) GetNumWrites() uint64 {
	return d.numWrites
}

// Size returns the size, in bytes, of the backing file.
func (d *FileManager) Size() int64 {
	return d.size
}

// RemoveDBFile deletes the backing file; call only after ShutDown.
func (d *FileManager) RemoveDBFile() {
	os.Remove(d.fileName)
}
