package io

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bits-and-blooms/bitset"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
)

const graph6Header = ">>graph6<<"

// bitFor returns the index of the pair x, y in the graph6 upper-triangle
// bit vector.
func bitFor(x, y int) uint {
	if x < y {
		x, y = y, x
	}
	return uint((x*x-x)/2 + y)
}

// Encode returns the graph6 encoding of g. Self-loops are dropped.
func Encode(g *graph.Graph) string {
	n := g.Order()
	size := uint((n*n - n) / 2)
	bits := bitset.New(size)
	for _, e := range g.Edges() {
		if e[0] != e[1] {
			bits.Set(bitFor(e[0], e[1]))
		}
	}

	var buf strings.Builder
	switch {
	case n < 63:
		buf.WriteByte(byte(n) + 63)
	case n < 258048:
		buf.Write([]byte{126, byte(n>>12)&63 + 63, byte(n>>6)&63 + 63, byte(n)&63 + 63})
	default:
		buf.Write([]byte{126, 126,
			byte(n>>30)&63 + 63, byte(n>>24)&63 + 63, byte(n>>18)&63 + 63,
			byte(n>>12)&63 + 63, byte(n>>6)&63 + 63, byte(n)&63 + 63})
	}

	var c byte
	for i := uint(0); i < size; i++ {
		bit := i % 6
		if bits.Test(i) {
			c |= 1 << (5 - bit)
		}
		if bit == 5 {
			buf.WriteByte(c + 63)
			c = 0
		}
	}
	if size%6 != 0 {
		buf.WriteByte(c + 63)
	}
	return buf.String()
}

// Decode parses a graph6 string, with or without the ">>graph6<<" header.
func Decode(s string) (*graph.Graph, error) {
	s = strings.TrimSpace(s)
	if err := errs.ValidateGraph6(s); err != nil {
		return nil, err
	}
	s = strings.TrimPrefix(s, graph6Header)

	n, body, err := graph6Order(s)
	if err != nil {
		return nil, err
	}
	if err := errs.ValidateVertexCount(n); err != nil {
		return nil, err
	}
	size := (n*n - n) / 2
	if want := (size + 5) / 6; len(body) != want {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "graph6 body has %d bytes, want %d for %d vertices", len(body), want, n)
	}

	g := graph.New(n)
	for y := 1; y < n; y++ {
		for x := 0; x < y; x++ {
			bit := int(bitFor(x, y))
			if (body[bit/6]-63)&(1<<uint(5-bit%6)) == 0 {
				continue
			}
			if err := g.AddEdge(x, y); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func graph6Order(s string) (int, string, error) {
	short := errs.New(errs.ErrCodeInvalidFormat, "graph6 string too short")
	if len(s) < 1 {
		return 0, "", short
	}
	if s[0] != 126 {
		return int(s[0] - 63), s[1:], nil
	}
	if len(s) < 4 {
		return 0, "", short
	}
	if s[1] != 126 {
		return int(s[1]-63)<<12 | int(s[2]-63)<<6 | int(s[3]-63), s[4:], nil
	}
	if len(s) < 8 {
		return 0, "", short
	}
	n := int(s[2]-63)<<30 | int(s[3]-63)<<24 | int(s[4]-63)<<18 | int(s[5]-63)<<12 | int(s[6]-63)<<6 | int(s[7]-63)
	return n, s[8:], nil
}

// ReadGraph6 decodes one graph per non-empty line.
func ReadGraph6(r io.Reader) ([]*graph.Graph, error) {
	var out []*graph.Graph
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		g, err := Decode(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, g)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return out, nil
}

// WriteGraph6 writes one graph6 line per graph.
func WriteGraph6(w io.Writer, gs []*graph.Graph) error {
	bw := bufio.NewWriter(w)
	for _, g := range gs {
		fmt.Fprintln(bw, Encode(g))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
