package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	errs "github.com/matzehuels/isotower/pkg/errors"
	"github.com/matzehuels/isotower/pkg/graph"
)

// ReadGRL decodes every graph of a .gr/.grl stream. Sections without a
// vertex count are skipped.
func ReadGRL(r io.Reader) ([]*graph.Graph, error) {
	var (
		out  []*graph.Graph
		cur  *graph.Graph
		line int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		switch {
		case text == "" || strings.HasPrefix(text, "#"):
			continue
		case strings.HasPrefix(text, "---"):
			if cur != nil {
				out = append(out, cur)
				cur = nil
			}
			continue
		}

		if cur == nil {
			n, err := strconv.Atoi(text)
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: expected vertex count, got %q", line, text)
			}
			if err := errs.ValidateVertexCount(n); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cur = graph.New(n)
			continue
		}

		u, v, err := parseEdge(text)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: bad edge %q", line, text)
		}
		if err := cur.AddEdge(u, v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if cur != nil {
		out = append(out, cur)
	}
	return out, nil
}

// ReadGR decodes a stream that must hold exactly one graph.
func ReadGR(r io.Reader) (*graph.Graph, error) {
	gs, err := ReadGRL(r)
	if err != nil {
		return nil, err
	}
	if len(gs) != 1 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "expected one graph, found %d", len(gs))
	}
	return gs[0], nil
}

func parseEdge(s string) (int, int, error) {
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	a, b, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("missing comma")
	}
	u, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, err
	}
	return u, v, nil
}

// WriteGRL encodes graphs in .grl form, separated by "---" lines.
func WriteGRL(w io.Writer, gs []*graph.Graph) error {
	bw := bufio.NewWriter(w)
	for i, g := range gs {
		if i > 0 {
			fmt.Fprintln(bw, "---")
		}
		fmt.Fprintln(bw, "# Number of vertices:")
		fmt.Fprintln(bw, g.Order())
		fmt.Fprintln(bw, "# Edge list:")
		for _, e := range g.Edges() {
			fmt.Fprintf(bw, "%d,%d\n", e[0], e[1])
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ImportGRL reads every graph of the .gr/.grl file at path.
func ImportGRL(path string) ([]*graph.Graph, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	gs, err := ReadGRL(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return gs, nil
}

// ExportGRL writes graphs to a .grl file at path.
func ExportGRL(path string, gs []*graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteGRL(f, gs)
}

func open(path string) (*os.File, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "%s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
