package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"hublink/pkg/alt"
	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
	"hublink/pkg/graph"
	"hublink/pkg/hl"
	"hublink/pkg/textgraph"
	"hublink/pkg/vorder"
)

func main() {
	input := flag.String("input", "", "Path to a text-format graph file")
	output := flag.String("output", "index.bin", "Output index file path")
	mode := flag.String("mode", "adaptive", "Contraction mode: adaptive (edge-difference queue) or hitting-set (sampled path order)")
	samples := flag.Int("samples", 1000, "Random path samples for the hitting-set order")
	seed := flag.Int64("seed", 42, "Seed for sampling and landmark selection")
	hopLimit := flag.Int("hop-limit", 16, "Hop limit for Dijkstra witness searches")
	landmarks := flag.Int("landmarks", 0, "When > 0, use a landmark upper-bound witness with this many landmarks instead of Dijkstra witness searches")
	withHL := flag.Bool("hl", false, "Also build hub labels from the CH and embed them in the index")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: buildindex --input <graph.txt> [--output index.bin] [--mode adaptive|hitting-set] [--hl]")
		os.Exit(1)
	}

	start := time.Now()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("Failed to open input file: %v", err)
	}
	edges, n, err := textgraph.Parse(f)
	f.Close()
	if err != nil {
		log.Fatalf("Failed to parse graph: %v", err)
	}
	log.Printf("Parsed %d vertices, %d edges", n, len(edges))

	rng := rand.New(rand.NewSource(*seed))
	working := coregraph.FromEdges(edges, n)

	var witness ch.WitnessPredicate = ch.NewDijkstraWitness(n, *hopLimit)
	if *landmarks > 0 {
		log.Printf("Building %d landmark tables...", *landmarks)
		frozen := coregraph.Freeze(coregraph.FromEdges(edges, n))
		lm, err := alt.BuildLandmarks(frozen, frozen.Reversed(), *landmarks, rng)
		if err != nil {
			log.Fatalf("Failed to build landmarks: %v", err)
		}
		witness = ch.HeuristicWitness{H: lm}
	}

	var chg *ch.CHGraph
	switch *mode {
	case "adaptive":
		chg = ch.ContractAdaptive(working, witness)
	case "hitting-set":
		log.Printf("Sampling %d shortest paths for the vertex order...", *samples)
		frozen := coregraph.Freeze(coregraph.FromEdges(edges, n))
		oracle := vorder.NewDijkstraOracle(frozen)
		degree := func(v coregraph.Vertex) int {
			return len(frozen.EdgesOut(v)) + len(frozen.EdgesIn(v))
		}
		order := vorder.BuildOrder(oracle, n, *samples, degree, rng)
		chg = ch.ContractFixedOrder(working, order, witness)
	default:
		log.Fatalf("Unknown mode %q (want adaptive or hitting-set)", *mode)
	}
	if err := chg.Validate(); err != nil {
		log.Fatalf("Built an inconsistent hierarchy: %v", err)
	}
	log.Printf("CH complete: %d shortcuts", len(chg.Shortcuts))

	var hg *hl.HubGraph
	if *withHL {
		log.Println("Building hub labels...")
		hg = hl.BuildFromCH(chg)
		log.Printf("Hub labels: %d forward entries, %d backward entries",
			len(hg.Forward.Entries()), len(hg.Backward.Entries()))
	}

	log.Printf("Writing index to %s...", *output)
	if err := graph.WriteIndex(*output, chg, hg); err != nil {
		log.Fatalf("Failed to write index: %v", err)
	}

	info, _ := os.Stat(*output)
	log.Printf("Done in %s. Output: %s (%.1f MB)",
		time.Since(start).Round(time.Millisecond), *output, float64(info.Size())/(1024*1024))
}
