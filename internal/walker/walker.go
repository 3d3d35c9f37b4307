// Package walker traverses the raw folder tree depth-first, pruning archival
// branches and guarding against malformed cyclic structures.
package walker

import (
	"regexp"
	"strings"

	"tacmap/internal/audit"
	"tacmap/internal/kml"
)

// DefaultPrunePatterns are case-insensitive substrings marking archival
// folders, matching the upstream map's blacklist.
var DefaultPrunePatterns = []string{
	"archive",
	"old",
	"backup",
	"past",
	"history",
}

// datedName matches folder names led by a year ("2023 Archive",
// "2022 - Kherson"), which mark historical snapshots in the source document.
var datedName = regexp.MustCompile(`^(19|20)\d{2}[\s._-]`)

// maxDepth bounds descent; a deeper chain only occurs on corrupted input.
const maxDepth = 64

// Visit is one surviving placemark together with its folder path.
type Visit struct {
	Node *kml.Node
	Path []string // ancestor folder names, outermost first
}

// Walker traverses a parsed tree and yields placemarks in depth-first
// pre-order, which fixes the encounter order downstream layers preserve.
type Walker struct {
	patterns []string
	log      *audit.Log
}

// New creates a walker with the given prune patterns. A nil pattern slice
// uses DefaultPrunePatterns.
func New(patterns []string, log *audit.Log) *Walker {
	if patterns == nil {
		patterns = DefaultPrunePatterns
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Walker{patterns: lowered, log: log}
}

// Pruned reports whether a folder name matches the archival pattern set.
func (w *Walker) Pruned(name string) bool {
	ln := strings.ToLower(name)
	for _, p := range w.patterns {
		if strings.Contains(ln, p) {
			return true
		}
	}
	return datedName.MatchString(strings.TrimSpace(name))
}

type frame struct {
	node  *kml.Node
	path  []string
	depth int
}

// Walk visits every surviving placemark under root in depth-first pre-order.
// Pruned folders are recorded once (with their placemark count) and not
// descended into; nodes seen twice indicate a cycle and stop that branch.
func (w *Walker) Walk(root *kml.Node, fn func(Visit)) {
	if root == nil {
		return
	}

	visited := make(map[*kml.Node]bool)
	stack := []frame{{node: root, path: nil, depth: 0}}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := f.node
		if visited[node] {
			w.log.Add(audit.StructuralCycle, node.Name, "folder references an ancestor; branch skipped")
			continue
		}
		visited[node] = true

		if !node.Folder {
			fn(Visit{Node: node, Path: f.path})
			continue
		}

		if f.depth > 0 && w.Pruned(node.Name) {
			count := w.countPlacemarks(node, visited)
			w.log.AddCount(audit.PrunedFolder, node.Name, "archival folder skipped", count)
			continue
		}

		if f.depth >= maxDepth {
			w.log.Add(audit.StructuralCycle, node.Name, "depth guard exceeded; branch skipped")
			continue
		}

		path := f.path
		if f.depth > 0 && node.Name != "" {
			path = append(append([]string{}, f.path...), node.Name)
		}

		// Push children in reverse so pop order preserves document order.
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, frame{node: node.Children[i], path: path, depth: f.depth + 1})
		}
	}
}

// countPlacemarks counts placemarks in a pruned subtree for the audit
// record. The visited set doubles as a cycle guard here.
func (w *Walker) countPlacemarks(folder *kml.Node, visited map[*kml.Node]bool) int {
	count := 0
	stack := []*kml.Node{folder}
	seen := map[*kml.Node]bool{folder: true}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, child := range node.Children {
			if seen[child] || visited[child] {
				continue
			}
			seen[child] = true
			if child.Folder {
				stack = append(stack, child)
			} else {
				count++
			}
		}
	}

	return count
}
