// Package textgraph reads the line-oriented ASCII graph format: leading
// comment lines, a vertex count, an edge count, one metadata line per
// vertex and one line per edge. Only the fields the core needs are
// consumed; the rest are ignored.
package textgraph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"hublink/pkg/coregraph"
)

// ErrMalformedGraph reports input that violates the format: missing
// counts, too few fields, or an edge referencing a vertex id outside
// [0, N).
var ErrMalformedGraph = errors.New("textgraph: malformed graph")

// Parse reads a graph and returns its edge list and vertex count.
// Self-loops are dropped here; parallel edges are kept and collapse to
// the minimum weight when the caller builds a graph store from the list.
func Parse(r io.Reader) ([]coregraph.Edge, coregraph.Vertex, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	lineNo := 0
	next := func() ([]string, error) {
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return strings.Fields(line), nil
		}
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("textgraph: read line %d: %w", lineNo+1, err)
		}
		return nil, fmt.Errorf("%w: unexpected end of input after line %d", ErrMalformedGraph, lineNo)
	}

	readCount := func(what string) (uint64, error) {
		fields, err := next()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%w: line %d: bad %s count %q", ErrMalformedGraph, lineNo, what, fields[0])
		}
		return v, nil
	}

	numVertices, err := readCount("vertex")
	if err != nil {
		return nil, 0, err
	}
	numEdges, err := readCount("edge")
	if err != nil {
		return nil, 0, err
	}

	// Vertex metadata: five whitespace-separated fields, of which only
	// the id matters, and even that just has to be in range.
	for i := uint64(0); i < numVertices; i++ {
		fields, err := next()
		if err != nil {
			return nil, 0, err
		}
		id, err := strconv.ParseUint(fields[0], 10, 32)
		if err != nil || id >= numVertices {
			return nil, 0, fmt.Errorf("%w: line %d: bad vertex id %q", ErrMalformedGraph, lineNo, fields[0])
		}
	}

	edges := make([]coregraph.Edge, 0, numEdges)
	for i := uint64(0); i < numEdges; i++ {
		fields, err := next()
		if err != nil {
			return nil, 0, err
		}
		if len(fields) < 3 {
			return nil, 0, fmt.Errorf("%w: line %d: edge needs tail, head and weight", ErrMalformedGraph, lineNo)
		}
		tail, err1 := strconv.ParseUint(fields[0], 10, 32)
		head, err2 := strconv.ParseUint(fields[1], 10, 32)
		weight, err3 := strconv.ParseUint(fields[2], 10, 32)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, 0, fmt.Errorf("%w: line %d: non-numeric edge field", ErrMalformedGraph, lineNo)
		}
		if tail >= numVertices || head >= numVertices {
			return nil, 0, fmt.Errorf("%w: line %d: edge (%d, %d) references a vertex >= %d", ErrMalformedGraph, lineNo, tail, head, numVertices)
		}
		if tail == head {
			continue
		}
		edges = append(edges, coregraph.Edge{
			Tail:   coregraph.Vertex(tail),
			Head:   coregraph.Vertex(head),
			Weight: coregraph.Weight(weight),
		})
	}

	return edges, coregraph.Vertex(numVertices), nil
}
