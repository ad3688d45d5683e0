// this code is adapted from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

// Package types holds the small set of identifier types shared across the
// storage engine.
package types

import (
	"bytes"
	"encoding/binary"
)

// PageID identifies a page on disk, or InvalidPageID when unset.
type PageID int32

// InvalidPageID is the sentinel value for "no page".
const InvalidPageID = PageID(-1)

// IsValid reports whether id refers to an actual page.
func (id PageID) IsValid() bool {
	return id != InvalidPageID
}

// Serialize casts the id to its little-endian byte representation.
func (id PageID) Serialize() []byte {
	buf := new(bytes.Buffer)
	_ = binary.Write(buf, binary.LittleEndian, id)
	return buf.Bytes()
}

// NewPageIDFromBytes reconstructs a PageID written by Serialize.
func NewPageIDFromBytes(data []byte) (ret PageID) {
	_ = binary.Read(bytes.NewBuffer(data), binary.LittleEndian, &ret)
	return ret
}

// FrameID identifies a slot in the buffer pool's fixed-size frame array.
type FrameID uint32
