package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
)

// TerrainFormatter renders an analyzed map as text
type TerrainFormatter struct {
	useColors bool
}

// NewTerrainFormatter creates a new terrain formatter
func NewTerrainFormatter(useColors bool) *TerrainFormatter {
	return &TerrainFormatter{useColors: useColors}
}

// regionNode is one region in the traversal tree, entered through via
type regionNode struct {
	region   *terrain.Region
	via      *terrain.Chokepoint
	children []*regionNode
}

// FormatTree renders the regions reachable from start as a tree, each child
// entered through the chokepoint that first reaches it. The depth shown is
// the chokepoint's rank in g's current ranking.
func (f *TerrainFormatter) FormatTree(g *terrain.Graph, start terrain.RegionID) string {
	root := f.buildTree(g, start)
	if root == nil {
		return "(no region)"
	}

	var builder strings.Builder
	f.formatNode(&builder, g, root, "", true, true)

	var unreachable []string
	for _, r := range g.Regions() {
		if r.Component != root.region.Component {
			unreachable = append(unreachable, f.regionLabel(r))
		}
	}
	if len(unreachable) > 0 {
		builder.WriteString("unreachable: " + strings.Join(unreachable, ", ") + "\n")
	}
	return builder.String()
}

func (f *TerrainFormatter) buildTree(g *terrain.Graph, start terrain.RegionID) *regionNode {
	region, ok := g.Region(start)
	if !ok {
		return nil
	}
	root := &regionNode{region: region}
	visited := map[terrain.RegionID]bool{start: true}
	queue := []*regionNode{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, cid := range node.region.Chokepoints {
			choke, _ := g.Chokepoint(cid)
			other := choke.Other(node.region.ID)
			if visited[other] {
				continue
			}
			visited[other] = true
			next, _ := g.Region(other)
			child := &regionNode{region: next, via: choke}
			node.children = append(node.children, child)
			queue = append(queue, child)
		}
	}
	return root
}

// formatNode recursively formats a node and its children
func (f *TerrainFormatter) formatNode(builder *strings.Builder, g *terrain.Graph, node *regionNode, prefix string, isLast, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	line := linePrefix + f.regionLabel(node.region)
	if node.via != nil {
		line = fmt.Sprintf("%s%s%s%s → %s",
			linePrefix,
			f.depthColor(g.Depth(node.via.ID)),
			f.chokeLabel(g, node.via),
			f.colorReset(),
			f.regionLabel(node.region),
		)
	}
	builder.WriteString(line + "\n")

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}
	for i, child := range node.children {
		f.formatNode(builder, g, child, childPrefix, i == len(node.children)-1, false)
	}
}

func (f *TerrainFormatter) regionLabel(r *terrain.Region) string {
	name := r.Name
	if name == "" {
		name = "unnamed"
	}
	return fmt.Sprintf("[R%d] %s (%d tiles, center %s)", r.ID, name, r.Size(), r.Center)
}

func (f *TerrainFormatter) chokeLabel(g *terrain.Graph, c *terrain.Chokepoint) string {
	depth := "?"
	if d := g.Depth(c.ID); d != terrain.UnknownDepth {
		depth = fmt.Sprintf("%d", d)
	}
	return fmt.Sprintf("C%d depth %s width %d at %s", c.ID, depth, c.Width, c.Center)
}

// depthColor highlights the chokepoints closest to the start
func (f *TerrainFormatter) depthColor(depth int) string {
	if !f.useColors {
		return ""
	}
	switch depth {
	case 0:
		return "\033[31m" // Red
	case 1:
		return "\033[33m" // Yellow
	default:
		return ""
	}
}

// colorReset returns ANSI reset code
func (f *TerrainFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatSummary creates a one-line description of the map
func (f *TerrainFormatter) FormatSummary(g *terrain.Graph) string {
	components := map[int]bool{}
	for _, r := range g.Regions() {
		components[r.Component] = true
	}
	return fmt.Sprintf("Map %s: %d regions, %d chokepoints, %d bases (%d start), %d components",
		g.Name(),
		len(g.Regions()),
		len(g.Chokepoints()),
		len(g.BaseLocations()),
		len(g.StartLocations()),
		len(components),
	)
}

// FormatBases lists base locations with their ground distance from a tile
func (f *TerrainFormatter) FormatBases(g *terrain.Graph, from shared.TilePosition) string {
	var builder strings.Builder
	for _, b := range g.BaseLocations() {
		distance := "unreachable"
		if d := g.GroundDistance(from, b.Tile); d != terrain.UnreachableDistance {
			distance = fmt.Sprintf("%.1f", d)
		}
		start := ""
		if b.StartLocation {
			start = " start"
		}
		builder.WriteString(fmt.Sprintf("  %-10s R%-3d %-12s%s\n", b.Tile, b.Region, distance, start))
	}
	return builder.String()
}
