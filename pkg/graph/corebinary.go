package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"sort"

	"hublink/pkg/ch"
	"hublink/pkg/coregraph"
	"hublink/pkg/hl"
)

// Generic (geometry-free) index artifact: the abstract contraction
// hierarchy plus an optional hub-label section, as produced by the
// buildindex driver. Same scheme as the road-network format in binary.go:
// little-endian sections behind a magic/version header, CRC32 trailer,
// atomic rename.

const (
	indexMagic   = "HUBLNKIX"
	indexVersion = uint32(1)
)

type indexHeader struct {
	Magic         [8]byte
	Version       uint32
	NumVertices   uint32
	NumUpEdges    uint32
	NumDownEdges  uint32
	NumShortcuts  uint32
	HasHubLabels  uint32
	NumFwdEntries uint32
	NumBwdEntries uint32
}

// WriteIndex serializes a contraction hierarchy and, when hg is not nil,
// its hub labels.
func WriteIndex(path string, chg *ch.CHGraph, hg *hl.HubGraph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	n := uint32(len(chg.LevelToVertex))
	upFirst, upHead, upWeight := packedToCSR(chg.Upward)
	downFirst, downHead, downWeight := packedToCSR(chg.Downward)
	scTail, scHead, scVia := shortcutsToArrays(chg.Shortcuts)

	hdr := indexHeader{
		Version:      indexVersion,
		NumVertices:  n,
		NumUpEdges:   uint32(len(upHead)),
		NumDownEdges: uint32(len(downHead)),
		NumShortcuts: uint32(len(scVia)),
	}
	copy(hdr.Magic[:], indexMagic)
	if hg != nil {
		hdr.HasHubLabels = 1
		hdr.NumFwdEntries = uint32(len(hg.Forward.Entries()))
		hdr.NumBwdEntries = uint32(len(hg.Backward.Entries()))
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, section := range []struct {
		name string
		data []uint32
	}{
		{"LevelToVertex", chg.LevelToVertex},
		{"UpFirstOut", upFirst},
		{"UpHead", upHead},
		{"UpWeight", upWeight},
		{"DownFirstOut", downFirst},
		{"DownHead", downHead},
		{"DownWeight", downWeight},
		{"ShortcutTail", scTail},
		{"ShortcutHead", scHead},
		{"ShortcutVia", scVia},
	} {
		if err := writeUint32Slice(w, section.data); err != nil {
			return fmt.Errorf("write %s: %w", section.name, err)
		}
	}

	if hg != nil {
		if err := writeHalfHubGraph(w, hg.Forward); err != nil {
			return fmt.Errorf("write forward labels: %w", err)
		}
		if err := writeHalfHubGraph(w, hg.Backward); err != nil {
			return fmt.Errorf("write backward labels: %w", err)
		}
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// ReadIndex deserializes an index written by WriteIndex. The hub graph
// is nil when the file carries no label section.
func ReadIndex(path string) (*ch.CHGraph, *hl.HubGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr indexHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != indexMagic {
		return nil, nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != indexVersion {
		return nil, nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.NumVertices > maxNodes {
		return nil, nil, fmt.Errorf("NumVertices %d exceeds limit %d", hdr.NumVertices, maxNodes)
	}
	if hdr.NumUpEdges > maxEdges || hdr.NumDownEdges > maxEdges {
		return nil, nil, fmt.Errorf("edge count exceeds limit %d", maxEdges)
	}

	n := int(hdr.NumVertices)
	levelToVertex, err := readUint32Slice(r, n)
	if err != nil {
		return nil, nil, fmt.Errorf("read LevelToVertex: %w", err)
	}

	readCSR := func(numEdges int, what string) (*coregraph.Packed, error) {
		first, err := readUint32Slice(r, n+1)
		if err != nil {
			return nil, fmt.Errorf("read %sFirstOut: %w", what, err)
		}
		head, err := readUint32Slice(r, numEdges)
		if err != nil {
			return nil, fmt.Errorf("read %sHead: %w", what, err)
		}
		weight, err := readUint32Slice(r, numEdges)
		if err != nil {
			return nil, fmt.Errorf("read %sWeight: %w", what, err)
		}
		if err := validateCSR(first, head, hdr.NumVertices); err != nil {
			return nil, fmt.Errorf("%s CSR invalid: %w", what, err)
		}
		return csrToPacked(first, head, weight, hdr.NumVertices), nil
	}

	upward, err := readCSR(int(hdr.NumUpEdges), "Up")
	if err != nil {
		return nil, nil, err
	}
	downward, err := readCSR(int(hdr.NumDownEdges), "Down")
	if err != nil {
		return nil, nil, err
	}

	scTail, err := readUint32Slice(r, int(hdr.NumShortcuts))
	if err != nil {
		return nil, nil, fmt.Errorf("read ShortcutTail: %w", err)
	}
	scHead, err := readUint32Slice(r, int(hdr.NumShortcuts))
	if err != nil {
		return nil, nil, fmt.Errorf("read ShortcutHead: %w", err)
	}
	scVia, err := readUint32Slice(r, int(hdr.NumShortcuts))
	if err != nil {
		return nil, nil, fmt.Errorf("read ShortcutVia: %w", err)
	}
	shortcuts := make(ch.ShortcutMap, len(scVia))
	for i := range scVia {
		shortcuts[[2]uint32{scTail[i], scHead[i]}] = scVia[i]
	}

	vertexToLevel := make([]uint32, n)
	for level, v := range levelToVertex {
		if v >= hdr.NumVertices {
			return nil, nil, fmt.Errorf("level order references vertex %d >= %d", v, n)
		}
		vertexToLevel[v] = uint32(level)
	}
	chg := &ch.CHGraph{
		LevelToVertex: levelToVertex,
		VertexToLevel: vertexToLevel,
		Upward:        upward,
		Downward:      downward,
		Shortcuts:     shortcuts,
	}

	var hg *hl.HubGraph
	if hdr.HasHubLabels == 1 {
		fwd, err := readHalfHubGraph(r, n, int(hdr.NumFwdEntries))
		if err != nil {
			return nil, nil, fmt.Errorf("read forward labels: %w", err)
		}
		bwd, err := readHalfHubGraph(r, n, int(hdr.NumBwdEntries))
		if err != nil {
			return nil, nil, fmt.Errorf("read backward labels: %w", err)
		}
		hg = &hl.HubGraph{
			Forward:       fwd,
			Backward:      bwd,
			Shortcuts:     shortcuts,
			LevelToVertex: levelToVertex,
			VertexToLevel: vertexToLevel,
		}
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	return chg, hg, nil
}

func packedToCSR(g *coregraph.Packed) (firstOut, head, weight []uint32) {
	n := g.NumVertices()
	firstOut = make([]uint32, n+1)
	for v := uint32(0); v < n; v++ {
		edges := g.EdgesOut(v)
		firstOut[v+1] = firstOut[v] + uint32(len(edges))
		for _, e := range edges {
			head = append(head, e.Head)
			weight = append(weight, e.Weight)
		}
	}
	return firstOut, head, weight
}

func csrToPacked(firstOut, head, weight []uint32, n uint32) *coregraph.Packed {
	edges := make([]coregraph.Edge, 0, len(head))
	for v := uint32(0); v < n; v++ {
		for i := firstOut[v]; i < firstOut[v+1]; i++ {
			edges = append(edges, coregraph.Edge{Tail: v, Head: head[i], Weight: weight[i]})
		}
	}
	return coregraph.Freeze(coregraph.FromEdges(edges, n))
}

// shortcutsToArrays flattens the map sorted by (tail, head), so
// serializing the same index twice produces identical bytes.
func shortcutsToArrays(shortcuts ch.ShortcutMap) (tail, head, via []uint32) {
	keys := make([][2]uint32, 0, len(shortcuts))
	for k := range shortcuts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	for _, k := range keys {
		tail = append(tail, k[0])
		head = append(head, k[1])
		via = append(via, shortcuts[k])
	}
	return tail, head, via
}

func writeHalfHubGraph(w *crc32Writer, h *hl.HalfHubGraph) error {
	if err := writeUint32Slice(w, h.First()); err != nil {
		return err
	}
	entries := h.Entries()
	hubs := make([]uint32, len(entries))
	dists := make([]uint32, len(entries))
	preds := make([]int32, len(entries))
	for i, e := range entries {
		hubs[i] = e.Hub
		dists[i] = e.Dist
		preds[i] = e.Pred
	}
	if err := writeUint32Slice(w, hubs); err != nil {
		return err
	}
	if err := writeUint32Slice(w, dists); err != nil {
		return err
	}
	return writeInt32Slice(w, preds)
}

func readHalfHubGraph(r *crc32Reader, n, numEntries int) (*hl.HalfHubGraph, error) {
	first, err := readUint32Slice(r, n+1)
	if err != nil {
		return nil, err
	}
	hubs, err := readUint32Slice(r, numEntries)
	if err != nil {
		return nil, err
	}
	dists, err := readUint32Slice(r, numEntries)
	if err != nil {
		return nil, err
	}
	preds, err := readInt32Slice(r, numEntries)
	if err != nil {
		return nil, err
	}
	if int(first[n]) != numEntries {
		return nil, fmt.Errorf("label index ends at %d, want %d entries", first[n], numEntries)
	}
	entries := make([]hl.Entry, numEntries)
	for i := range entries {
		entries[i] = hl.Entry{Hub: hubs[i], Dist: dists[i], Pred: preds[i]}
	}
	return hl.HalfHubGraphFromPacked(entries, first), nil
}
