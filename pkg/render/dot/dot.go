package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/isotower/pkg/graph"
)

// palette holds the fill colors assigned to color classes, in order of
// first appearance. Classes beyond its length reuse it cyclically.
var palette = []string{
	"#8dd3c7", "#ffffb3", "#bebada", "#fb8072", "#80b1d3", "#fdb462",
	"#b3de69", "#fccde5", "#d9d9d9", "#bc80bd", "#ccebc5", "#ffed6f",
}

// Options configures DOT generation.
type Options struct {
	// Colored fills every vertex by its partition color.
	Colored bool

	// Detailed adds the color id, coupling id and twin multiplicity to
	// vertex labels. When false, only the vertex label is shown.
	Detailed bool

	// Matching lists vertex pairs drawn as dashed, unweighted edges.
	// Pairs referring to vertices outside the graph are ignored.
	Matching [][2]int
}

// ToDOT converts g to Graphviz DOT source. The result can be rendered with
// [RenderSVG] or saved for external Graphviz tools.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	fills := classFills(g)
	writeNode := func(indent string, v int) {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, v, opts.Detailed))}
		if opts.Colored {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", fills[g.Color(v)]))
		}
		fmt.Fprintf(&buf, "%sv%d [%s];\n", indent, v, strings.Join(attrs, ", "))
	}

	if g.IsUnion() {
		for i, o := range []graph.Origin{graph.OriginLeft, graph.OriginRight} {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", []string{"G", "H"}[i])
			buf.WriteString("    style=dashed;\n")
			for _, v := range g.Half(o) {
				writeNode("    ", v)
			}
			buf.WriteString("  }\n")
		}
	} else {
		for v := 0; v < g.Order(); v++ {
			writeNode("  ", v)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  v%d -- v%d;\n", e[0], e[1])
	}
	for _, m := range opts.Matching {
		if m[0] < 0 || m[0] >= g.Order() || m[1] < 0 || m[1] >= g.Order() {
			continue
		}
		fmt.Fprintf(&buf, "  v%d -- v%d [style=dashed, color=grey, constraint=false];\n", m[0], m[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func classFills(g *graph.Graph) map[int]string {
	fills := make(map[int]string)
	for v := 0; v < g.Order(); v++ {
		c := g.Color(v)
		if _, ok := fills[c]; !ok {
			fills[c] = palette[len(fills)%len(palette)]
		}
	}
	return fills
}

func fmtLabel(g *graph.Graph, v int, detailed bool) string {
	meta := g.Vertex(v)
	label := strconv.Itoa(meta.Label)
	if !detailed {
		return label
	}
	parts := []string{label, fmt.Sprintf("c%d", g.Color(v))}
	if meta.Origin != graph.OriginNone {
		parts = append(parts, fmt.Sprintf("id %d", meta.Coupling))
	}
	if meta.Twins > 1 {
		parts = append(parts, fmt.Sprintf("x%d", meta.Twins))
	}
	return strings.Join(parts, "\n")
}

// RenderSVG renders DOT source to SVG using the embedded Graphviz.
func RenderSVG(ctx context.Context, src string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the image scales from a
// zero-origin view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
