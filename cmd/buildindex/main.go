// Command buildindex builds a B+Tree index over a fixed-format relation
// file and runs one range scan against it, for manual exercising of
// pkg/index end to end. It is deliberately small next to the TCP SQL
// server nihil-sum-minidb's main.go drives: no network listener, no
// session loop, just the disk+buffer+relation+index startup sequence.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math/rand"

	"btreeidx/pkg/buffer"
	"btreeidx/pkg/index"
	"btreeidx/pkg/relation"
	"btreeidx/pkg/storage/disk"
	"btreeidx/pkg/storage/page"
)

func main() {
	relPath := flag.String("rel", "buildindex.rel", "path to the relation file to create")
	idxPath := flag.String("idx", "buildindex.idx", "path to the index file to create")
	n := flag.Int("n", 1000, "number of int32-keyed records to seed the relation with")
	poolSize := flag.Int("pool", 64, "buffer pool size, in pages")
	lowVal := flag.Int("low", 0, "inclusive low end of the range scan")
	highVal := flag.Int("high", 100, "inclusive high end of the range scan")
	flag.Parse()

	if err := run(*relPath, *idxPath, *n, *poolSize, int32(*lowVal), int32(*highVal)); err != nil {
		log.Fatalf("buildindex: %v", err)
	}
}

const recordSize = 8 // one int32 key plus 4 bytes of filler payload

func run(relPath, idxPath string, n, poolSize int, lowVal, highVal int32) error {
	relDisk, err := disk.Open(relPath)
	if err != nil {
		return fmt.Errorf("open relation file: %w", err)
	}
	defer relDisk.Close()
	relPool := buffer.NewPoolManager(relDisk, poolSize)
	defer relPool.Close()

	rel, err := relation.Create(relDisk, relPool, recordSize)
	if err != nil {
		return fmt.Errorf("create relation: %w", err)
	}

	fmt.Printf("seeding %s with %d %d-byte records\n", relPath, n, rel.RecordSize())
	keys := rand.Perm(n)
	for _, k := range keys {
		if _, err := rel.InsertRecord(encodeRecord(int32(k))); err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	idxDisk, err := disk.Open(idxPath)
	if err != nil {
		return fmt.Errorf("open index file: %w", err)
	}
	defer idxDisk.Close()
	idxPool := buffer.NewPoolManager(idxDisk, poolSize)
	defer idxPool.Close()

	scan := relation.NewFileScan(rel)
	tree, indexName, err := index.OpenOrCreate("students", 0, page.AttrInteger, idxPool, scan)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}
	defer tree.Close()
	fmt.Printf("built index %q, root page %d\n", indexName, tree.RootPageNo())

	if err := tree.StartScan(lowVal, index.GTE, highVal, index.LTE); err != nil {
		return fmt.Errorf("start scan: %w", err)
	}
	defer tree.EndScan()

	count := 0
	for {
		var rid page.RecordID
		err := tree.ScanNext(&rid)
		if err == index.ErrScanCompleted {
			break
		}
		if err != nil {
			return fmt.Errorf("scan next: %w", err)
		}
		count++
	}
	fmt.Printf("range [%d, %d] matched %d entries\n", lowVal, highVal, count)
	return nil
}

func encodeRecord(key int32) []byte {
	buf := make([]byte, recordSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(key))
	return buf
}
