package folders

import (
	"sort"
	"strings"
)

// Node is one entry in the display forest. Label is what the UI shows: a
// role label for system folders, the leaf segment for nested custom folders,
// the full localized name for custom roots.
type Node struct {
	Folder   *Folder `json:"folder"`
	Label    string  `json:"label"`
	Children []*Node `json:"children,omitempty"`
}

// Fixed ordering of system folders in the forest. Role folders must always
// be one click away regardless of how the server nests them, so they sort
// ahead of every custom folder and among themselves by this table.
var systemOrder = map[Role]int{
	RoleInbox:   0,
	RoleDrafts:  1,
	RoleSent:    2,
	RoleSpam:    3,
	RoleTrash:   4,
	RoleArchive: 5,
	RoleOutbox:  6,
}

// Builder assembles a flat folder listing into the navigable forest.
type Builder struct {
	Translator Translator
}

// Build partitions records into system and custom folders, orders them
// (system by the fixed precedence table, custom case-insensitively by full
// name) and attaches custom folders under their parent path when one was
// already emitted. Unresolvable parents fall back to root attachment;
// system folders are always rooted regardless of their nominal path.
func (b *Builder) Build(records []*Folder) []*Node {
	var system, custom []*Folder
	for _, f := range records {
		if f.IsSystem() {
			system = append(system, f)
		} else {
			custom = append(custom, f)
		}
	}

	sort.SliceStable(system, func(i, j int) bool {
		return systemOrder[system[i].Role] < systemOrder[system[j].Role]
	})
	sort.SliceStable(custom, func(i, j int) bool {
		return strings.ToLower(custom[i].Name) < strings.ToLower(custom[j].Name)
	})

	var roots []*Node
	byPath := make(map[string]*Node, len(records))

	for _, f := range system {
		node := &Node{Folder: f, Label: f.LocalizedLabel(b.Translator)}
		roots = append(roots, node)
		byPath[f.Name] = node
	}

	for _, f := range custom {
		node := &Node{Folder: f}

		var parent *Node
		if f.Delimiter != "" && strings.Contains(f.Name, f.Delimiter) {
			parts := strings.Split(f.Name, f.Delimiter)
			parentPath := strings.Join(parts[:len(parts)-1], f.Delimiter)
			parent = byPath[parentPath]
			node.Label = parts[len(parts)-1]
		} else {
			node.Label = f.LocalizedLabel(b.Translator)
		}

		if parent != nil {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
		byPath[f.Name] = node
	}

	return roots
}
