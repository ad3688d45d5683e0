// Command latticebench is a small smoke-test driver: it runs a
// buffer pool workload and a TrieStore workload and reports what it
// observed, for manual sanity checking outside of the test suite.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/devlights/gomy/output"
	"github.com/latticedb/lattice/common"
	"github.com/latticedb/lattice/log"
	"github.com/latticedb/lattice/storage/buffer"
	"github.com/latticedb/lattice/storage/disk"
	"github.com/latticedb/lattice/triestore"
	"github.com/latticedb/lattice/types"
)

func main() {
	poolSize := flag.Uint("pool-size", 8, "buffer pool frame count")
	k := flag.Uint("k", 2, "LRU-K history depth")
	pages := flag.Uint("pages", 32, "number of pages to allocate")
	flag.Parse()

	if err := runBufferPool(uint32(*poolSize), uint32(*k), uint32(*pages)); err != nil {
		fmt.Fprintln(os.Stderr, "latticebench: buffer pool run:", err)
		os.Exit(1)
	}
	runTrieStore()
}

func runBufferPool(poolSize, k, numPages uint32) error {
	dm := disk.NewMemManager()
	defer dm.ShutDown()

	bpm, err := buffer.NewPoolManager(common.Config{PoolSize: poolSize, K: k}, dm, log.NewManager())
	if err != nil {
		return err
	}

	ids := make([]types.PageID, 0, numPages)
	for i := uint32(0); i < numPages; i++ {
		p := bpm.NewPage()
		if p == nil {
			output.Stdoutl("latticebench", fmt.Sprintf("pool exhausted after %d pages", len(ids)))
			break
		}
		p.Copy(0, []byte(fmt.Sprintf("page-%d", p.ID())))
		bpm.UnpinPage(p.ID(), true)
		ids = append(ids, p.ID())
	}

	hits := 0
	for _, id := range ids {
		if p := bpm.FetchPage(id); p != nil {
			hits++
			bpm.UnpinPage(id, false)
		}
	}
	output.Stdoutl("latticebench", fmt.Sprintf("allocated=%d refetched=%d writes=%d", len(ids), hits, dm.GetNumWrites()))
	return nil
}

func runTrieStore() {
	store := triestore.New()
	const n = 100
	for i := 0; i < n; i++ {
		triestore.Put(store, fmt.Sprintf("key-%d", i), i)
	}

	found := 0
	for i := 0; i < n; i++ {
		if g, ok := triestore.Get[int](store, fmt.Sprintf("key-%d", i)); ok && g.Value() == i {
			found++
		}
	}
	output.Stdoutl("latticebench", fmt.Sprintf("triestore puts=%d verified=%d", n, found))
}
