package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/openchessrunner/core/bookfetch"
)

// this program exists to pre-flight-check opening book URLs before a
// tournament run: confirm each one is reachable and parses to at least one
// FEN, and exercise bookfetch's repeat-fetch cache-hit path, the way
// cacheseed pre-warms its own http cache.
func main() {
	fs := flag.NewFlagSet("bookseed", flag.ExitOnError)
	fetches := fs.Int("fetches", 3, "number of sample fetches per URL")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(1)
	}

	urls := fs.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: bookseed [-fetches N] url [url...]")
		os.Exit(1)
	}

	ctx := context.Background()
	fetcher := bookfetch.NewFetcher(time.Hour)

	for _, url := range urls {
		seen := make(map[string]bool)
		ok := 0
		for i := 0; i < *fetches; i++ {
			fen, err := fetcher.FetchFEN(ctx, url)
			time.Sleep(500 * time.Millisecond) // avoid pegging the book server
			if err != nil {
				fmt.Printf("%s: fetch %d failed: %v\n", url, i, err)
				continue
			}
			seen[fen] = true
			ok++
		}
		fmt.Printf("seeded %s: %d/%d fetches ok, %d distinct positions\n", url, ok, *fetches, len(seen))
	}
}
