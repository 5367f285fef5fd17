// Package pathtree builds the directory tree implied by a flat list of
// slash-separated file paths and renders it with box-drawing connectors.
package pathtree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	branchConnector = "├── "
	lastConnector   = "└── "
	branchPadding   = "│   "
	lastPadding     = "    "
)

const segmentSeparator = "/"

// ErrPathConflict reports a path set that requires the same name to be both a
// file and a directory.
var ErrPathConflict = errors.New("path conflicts with an existing entry")

// Kind distinguishes file leaves from directories.
type Kind int

const (
	// KindFile marks a leaf; the node carries no children.
	KindFile Kind = iota
	// KindDirectory marks a node whose children are keyed by segment name.
	KindDirectory
)

// Node is a single entry of the tree.
type Node struct {
	Kind     Kind
	Children map[string]*Node
}

func newDirectoryNode() *Node {
	return &Node{Kind: KindDirectory, Children: make(map[string]*Node)}
}

// Build converts relative slash-separated paths into a nested tree rooted at
// an unnamed directory node. Empty segments are skipped, so doubled slashes do
// not create phantom entries. Re-inserting an identical path is idempotent. A
// name needed as both file and directory fails with ErrPathConflict and no
// tree is returned.
func Build(paths []string) (*Node, error) {
	root := newDirectoryNode()
	for _, path := range paths {
		if insertError := insertPath(root, path); insertError != nil {
			return nil, insertError
		}
	}
	return root, nil
}

func insertPath(root *Node, path string) error {
	segments := make([]string, 0, strings.Count(path, segmentSeparator)+1)
	for _, segment := range strings.Split(path, segmentSeparator) {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	currentNode := root
	for segmentIndex, segment := range segments {
		isTerminal := segmentIndex == len(segments)-1
		childNode, childExists := currentNode.Children[segment]

		if isTerminal {
			if !childExists {
				currentNode.Children[segment] = &Node{Kind: KindFile}
				continue
			}
			if childNode.Kind == KindDirectory {
				return fmt.Errorf("insert %q: segment %q already a directory: %w", path, segment, ErrPathConflict)
			}
			continue
		}

		if !childExists {
			childNode = newDirectoryNode()
			currentNode.Children[segment] = childNode
		} else if childNode.Kind == KindFile {
			return fmt.Errorf("insert %q: segment %q already a file: %w", path, segment, ErrPathConflict)
		}
		currentNode = childNode
	}
	return nil
}

// Render produces the ASCII form of the tree. Children appear in byte-wise
// lexicographic order regardless of insertion order, so the output is stable
// for a given path set. A tree with a single top-level entry collapses into
// the header form: the entry's name on its own line followed by its children
// without indentation. Multiple top-level entries render as connector
// siblings. An empty tree renders as an empty string.
func Render(root *Node) string {
	if root == nil || len(root.Children) == 0 {
		return ""
	}
	builder := &strings.Builder{}
	if len(root.Children) == 1 {
		for rootName, rootChild := range root.Children {
			builder.WriteString(rootName)
			builder.WriteString("\n")
			renderChildren(builder, rootChild, "")
		}
		return builder.String()
	}
	renderChildren(builder, root, "")
	return builder.String()
}

func renderChildren(builder *strings.Builder, node *Node, prefix string) {
	childNames := SortedChildNames(node)
	for childIndex, childName := range childNames {
		connector := branchConnector
		padding := branchPadding
		if childIndex == len(childNames)-1 {
			connector = lastConnector
			padding = lastPadding
		}
		builder.WriteString(prefix)
		builder.WriteString(connector)
		builder.WriteString(childName)
		builder.WriteString("\n")

		childNode := node.Children[childName]
		if childNode.Kind == KindDirectory {
			renderChildren(builder, childNode, prefix+padding)
		}
	}
}

// SortedChildNames returns the node's child names in the order the renderer
// displays them. Callers projecting the tree into other formats use it to keep
// their ordering in step with the rendered output.
func SortedChildNames(node *Node) []string {
	childNames := make([]string, 0, len(node.Children))
	for childName := range node.Children {
		childNames = append(childNames, childName)
	}
	sort.Strings(childNames)
	return childNames
}
