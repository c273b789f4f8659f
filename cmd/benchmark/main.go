package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/vroomgo/vroom"
)

func main() {
	sizeMB := 500
	if len(os.Args) >= 2 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			sizeMB = n
		}
	}

	fmt.Printf("Generating %d MB CSV...\n", sizeMB)
	tmpDir, _ := os.MkdirTemp("", "vroom_bench")
	defer os.RemoveAll(tmpDir)

	csvPath := filepath.Join(tmpDir, "bench.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		panic(err)
	}

	w := bufio.NewWriterSize(f, 64*1024)
	w.WriteString("id,code,value,description\n")

	bytesWritten := int64(0)
	limit := int64(sizeMB) * 1024 * 1024

	rows := 0
	buf := make([]byte, 0, 1024)

	rng := rand.New(rand.NewSource(123))

	for bytesWritten < limit {
		rows++
		buf = buf[:0]
		buf = fmt.Appendf(buf, "%d,US-%d,%d,\"Description for item %d with some padding to make it longer\"\n", rows, rng.Intn(1000), rng.Intn(10000), rows)

		n, _ := w.Write(buf)
		bytesWritten += int64(n)
	}
	w.Flush()
	f.Close()

	fmt.Printf("Generated %d rows (%.2f MB)\n", rows, float64(bytesWritten)/1024/1024)
	fmt.Println("Starting indexing...")

	opts := vroom.DefaultOptions
	opts.Threads = runtime.NumCPU()

	start := time.Now()
	res, err := vroom.ParseFile(csvPath, opts)
	if err != nil {
		panic(err)
	}
	defer res.Close()
	elapsed := time.Since(start)

	// Touch a couple of columns lazily, the way a real caller would, so the
	// benchmark also exercises field resolution rather than indexing alone.
	idCol := res.Column(0)
	codeCol := res.Column(1)
	var sampledSum int64
	for r := int64(0); r < res.Rows(); r += 997 {
		if v, isNA, err := idCol.GetInt64(r); err == nil && !isNA {
			sampledSum += v
		}
		if _, err := codeCol.GetString(r); err != nil {
			panic(err)
		}
	}

	mbPerSec := float64(bytesWritten) / 1024 / 1024 / elapsed.Seconds()
	fmt.Printf("\n--------------------------------------------------\n")
	fmt.Printf("Rows:       %d\n", res.Rows())
	fmt.Printf("Throughput: %.2f MB/s\n", mbPerSec)
	fmt.Printf("Time:       %v\n", elapsed)
	fmt.Printf("Checksum:   %d (sampled id column)\n", sampledSum)
	fmt.Printf("--------------------------------------------------\n")
}
