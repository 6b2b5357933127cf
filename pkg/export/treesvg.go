// Package export renders the location tree to shareable artifacts.
package export

import (
	"fmt"
	"io"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/ownlyhq/ownly/pkg/model"
)

// TreeSVGOptions controls the SVG rendering of the location tree.
type TreeSVGOptions struct {
	Path  string // Output file path
	Title string // Header title; defaults to "Inventory Locations"
}

const (
	svgRowHeight   = 28
	svgIndent      = 28
	svgHeaderH     = 56
	svgPadding     = 20
	svgMinWidth    = 480
	svgCharWidth   = 8 // monospace estimate for width sizing
	svgCountColumn = 60
)

const (
	cssBackdrop = "#282a36"
	cssHeaderBG = "#44475a"
	cssText     = "#f8f8f2"
	cssSubtle   = "#bfbfbf"
	cssBranch   = "#6272a4"
	cssLocation = "#8be9fd"
	cssCount    = "#50fa7b"
)

// svgRow is one flattened line of the tree with its drawing metadata.
type svgRow struct {
	name  string
	icon  string
	depth int
	count int
}

// WriteTreeSVG renders the full location forest (all nodes expanded) to an
// SVG file. Item counts are cumulative per subtree so the picture matches
// the descendant-inclusive filter semantics of the app.
func WriteTreeSVG(locations []model.Location, counts map[model.LocationID]int, opts TreeSVGOptions) error {
	file, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("creating svg: %w", err)
	}
	defer file.Close()

	return RenderTreeSVG(file, locations, counts, opts)
}

// RenderTreeSVG writes the SVG document to w.
func RenderTreeSVG(w io.Writer, locations []model.Location, counts map[model.LocationID]int, opts TreeSVGOptions) error {
	title := opts.Title
	if title == "" {
		title = "Inventory Locations"
	}

	roots, _ := model.BuildLocationForest(locations)
	rows := flattenForSVG(roots, counts)

	width := svgMinWidth
	for _, r := range rows {
		w := svgPadding*2 + r.depth*svgIndent + len(r.name)*svgCharWidth + svgCountColumn
		if w > width {
			width = w
		}
	}
	height := svgHeaderH + len(rows)*svgRowHeight + svgPadding
	if len(rows) == 0 {
		height = svgHeaderH + svgRowHeight + svgPadding
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", cssBackdrop))
	canvas.Roundrect(12, 10, width-24, svgHeaderH-20, 8, 8, fmt.Sprintf("fill:%s", cssHeaderBG))
	canvas.Text(svgPadding+4, svgHeaderH-22, title,
		fmt.Sprintf("fill:%s;font-size:16px;font-family:monospace;font-weight:bold", cssText))

	if len(rows) == 0 {
		canvas.Text(svgPadding, svgHeaderH+svgRowHeight-8, "No locations.",
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", cssSubtle))
		canvas.End()
		return nil
	}

	for i, r := range rows {
		y := svgHeaderH + i*svgRowHeight + svgRowHeight - 8
		x := svgPadding + r.depth*svgIndent

		if r.depth > 0 {
			// Branch guide from the parent's column.
			gx := svgPadding + (r.depth-1)*svgIndent + 6
			canvas.Line(gx, y-svgRowHeight+6, gx, y-6,
				fmt.Sprintf("stroke:%s;stroke-width:1.5", cssBranch))
			canvas.Line(gx, y-6, x-4, y-6,
				fmt.Sprintf("stroke:%s;stroke-width:1.5", cssBranch))
		}

		label := r.name
		if r.icon != "" {
			label = r.icon + " " + label
		}
		canvas.Text(x, y, label,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", cssLocation))

		if r.count > 0 {
			canvas.Text(x+len(label)*svgCharWidth+12, y, fmt.Sprintf("(%d)", r.count),
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", cssCount))
		}
	}

	canvas.End()
	return nil
}

// flattenForSVG walks the forest depth-first and computes cumulative
// per-subtree item counts.
func flattenForSVG(roots []*model.LocationNode, counts map[model.LocationID]int) []svgRow {
	var rows []svgRow
	var walk func(n *model.LocationNode) int
	walk = func(n *model.LocationNode) int {
		idx := len(rows)
		rows = append(rows, svgRow{
			name:  n.Name,
			icon:  n.Icon,
			depth: n.Depth,
		})
		total := counts[n.ID]
		for _, child := range n.Children {
			total += walk(child)
		}
		rows[idx].count = total
		return total
	}
	for _, root := range roots {
		walk(root)
	}
	return rows
}
