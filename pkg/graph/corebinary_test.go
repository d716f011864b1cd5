package graph

import (
	"os"
	"path/filepath"
	"testing"

	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
	"hublink/pkg/hl"
)

func buildCoreFixture(t *testing.T) (*ch.CHGraph, *hl.HubGraph) {
	t.Helper()
	var edges []coregraph.Edge
	for r := uint32(0); r < 3; r++ {
		for c := uint32(0); c < 3; c++ {
			v := r*3 + c
			if c+1 < 3 {
				edges = append(edges,
					coregraph.Edge{Tail: v, Head: v + 1, Weight: 1},
					coregraph.Edge{Tail: v + 1, Head: v, Weight: 1})
			}
			if r+1 < 3 {
				edges = append(edges,
					coregraph.Edge{Tail: v, Head: v + 3, Weight: 1},
					coregraph.Edge{Tail: v + 3, Head: v, Weight: 1})
			}
		}
	}
	chg := ch.ContractAdaptive(coregraph.FromEdges(edges, 9), ch.NewDijkstraWitness(9, 16))
	if err := chg.Validate(); err != nil {
		t.Fatalf("invalid CH fixture: %v", err)
	}
	return chg, hl.BuildFromCH(chg)
}

func TestIndexRoundTrip(t *testing.T) {
	chg, hg := buildCoreFixture(t)
	path := filepath.Join(t.TempDir(), "index.bin")

	if err := WriteIndex(path, chg, hg); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}

	gotCH, gotHL, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if gotHL == nil {
		t.Fatal("hub labels missing after round trip")
	}
	if err := gotCH.Validate(); err != nil {
		t.Fatalf("reloaded CH invalid: %v", err)
	}

	qs := ch.NewQueryScratch()
	want := ch.NewQueryScratch()
	for s := uint32(0); s < 9; s++ {
		for d := uint32(0); d < 9; d++ {
			wd, wok := ch.Distance(chg, want, s, d)
			gd, gok := ch.Distance(gotCH, qs, s, d)
			if wok != gok || wd != gd {
				t.Fatalf("CH answer changed for (%d, %d): (%d, %v) vs (%d, %v)", s, d, wd, wok, gd, gok)
			}
			hd, hok := hg.Distance(s, d)
			ghd, ghok := gotHL.Distance(s, d)
			if hok != ghok || hd != ghd {
				t.Fatalf("HL answer changed for (%d, %d)", s, d)
			}
		}
	}
}

// Serializing, reloading and serializing again must produce identical
// bytes: the artifact is a pure function of its contents.
func TestIndexRewriteIsByteIdentical(t *testing.T) {
	chg, hg := buildCoreFixture(t)
	dir := t.TempDir()
	first := filepath.Join(dir, "a.bin")
	second := filepath.Join(dir, "b.bin")

	if err := WriteIndex(first, chg, hg); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}
	reCH, reHL, err := ReadIndex(first)
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if err := WriteIndex(second, reCH, reHL); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	a, err := os.ReadFile(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(second)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("file sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("files differ at byte %d", i)
		}
	}
}

func TestIndexWithoutHubLabels(t *testing.T) {
	chg, _ := buildCoreFixture(t)
	path := filepath.Join(t.TempDir(), "ch-only.bin")

	if err := WriteIndex(path, chg, nil); err != nil {
		t.Fatalf("WriteIndex failed: %v", err)
	}
	gotCH, gotHL, err := ReadIndex(path)
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if gotHL != nil {
		t.Fatal("expected no hub labels")
	}
	if got := len(gotCH.LevelToVertex); got != 9 {
		t.Fatalf("LevelToVertex has %d entries, want 9", got)
	}
}

func TestIndexRejectsCorruptFile(t *testing.T) {
	chg, hg := buildCoreFixture(t)
	path := filepath.Join(t.TempDir(), "corrupt.bin")
	if err := WriteIndex(path, chg, hg); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[len(data)/2] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := ReadIndex(path); err == nil {
		t.Fatal("corrupt file accepted")
	}
}
