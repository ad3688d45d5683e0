// this code is adapted from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package disk

import (
	"os"
)

// ManagerTest wraps a FileManager backed by a fresh temp file, removing
// it on ShutDown.
type ManagerTest struct {
	path string
	DiskManager
}

// NewManagerTest returns a DiskManager instance for testing purposes.
func NewManagerTest() DiskManager {
	f, err := os.CreateTemp("", "lattice-disk-*")
	if err != nil {
		panic(err)
	}
	path := f.Name()
	f.Close()
	os.Remove(path)

	fm, err := NewFileManager(path)
	if err != nil {
		panic(err)
	}
	return &ManagerTest{path: path, DiskManager: fm}
}

func (d *ManagerTest) ShutDown() {
	defer os.Remove(d.path)
	d.DiskManager.ShutDown()
}
