package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"sort"
	"time"

	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
	"hublink/pkg/graph"
)

func main() {
	index := flag.String("index", "index.bin", "Index file written by buildindex")
	queries := flag.Int("queries", 10000, "Number of random queries to run")
	seed := flag.Int64("seed", 42, "Seed for query sampling")
	engine := flag.String("engine", "ch", "Query engine: ch (bidirectional search) or hl (label merge)")
	flag.Parse()

	chg, hg, err := graph.ReadIndex(*index)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	n := coregraph.Vertex(len(chg.LevelToVertex))
	if n == 0 {
		log.Fatal("Index is empty")
	}
	if *engine == "hl" && hg == nil {
		log.Fatal("Index carries no hub-label section; rebuild with --hl")
	}

	rng := rand.New(rand.NewSource(*seed))
	pairs := make([][2]coregraph.Vertex, *queries)
	for i := range pairs {
		pairs[i] = [2]coregraph.Vertex{
			coregraph.Vertex(rng.Intn(int(n))),
			coregraph.Vertex(rng.Intn(int(n))),
		}
	}

	latencies := make([]time.Duration, len(pairs))
	reachable := 0
	qs := ch.NewQueryScratch()

	started := time.Now()
	for i, p := range pairs {
		t0 := time.Now()
		var ok bool
		switch *engine {
		case "ch":
			_, ok = ch.Distance(chg, qs, p[0], p[1])
		case "hl":
			_, ok = hg.Distance(p[0], p[1])
		default:
			log.Fatalf("Unknown engine %q (want ch or hl)", *engine)
		}
		latencies[i] = time.Since(t0)
		if ok {
			reachable++
		}
	}
	elapsed := time.Since(started)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	p50 := latencies[len(latencies)/2]
	p95 := latencies[len(latencies)*95/100]
	max := latencies[len(latencies)-1]

	fmt.Printf("engine=%s queries=%d reachable=%d\n", *engine, len(pairs), reachable)
	fmt.Printf("total=%s qps=%.0f\n", elapsed.Round(time.Millisecond), float64(len(pairs))/elapsed.Seconds())
	fmt.Printf("latency p50=%s p95=%s max=%s\n", p50, p95, max)
	os.Exit(0)
}
