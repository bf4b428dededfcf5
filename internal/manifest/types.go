package manifest

import (
	"errors"
	"sort"
)

type Kind int

const (
	KindDirectory Kind = iota
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

var (
	ErrEmpty         = errors.New("manifest: no top-level tree")
	ErrInvalidNode   = errors.New("manifest: value must be a mapping or a digest string")
	ErrInvalidDigest = errors.New("manifest: invalid digest")
	ErrMalformed     = errors.New("manifest: malformed document")
)

// Node is either a directory (Children set) or a file expectation (Digest set).
type Node struct {
	Kind     Kind
	Children map[string]*Node
	Digest   string
}

func NewDirectory(children map[string]*Node) *Node {
	if children == nil {
		children = map[string]*Node{}
	}
	return &Node{Kind: KindDirectory, Children: children}
}

func NewFile(digest string) *Node {
	return &Node{Kind: KindFile, Digest: digest}
}

func (n *Node) IsDir() bool { return n != nil && n.Kind == KindDirectory }

// Names returns child names in sorted order.
func (n *Node) Names() []string {
	if !n.IsDir() {
		return nil
	}
	names := make([]string, 0, len(n.Children))
	for name := range n.Children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Summary struct {
	Files       int
	Directories int
	MaxDepth    int
}

func (n *Node) Summarize() Summary {
	var s Summary
	var walk func(node *Node, depth int)
	walk = func(node *Node, depth int) {
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}
		for _, child := range node.Children {
			if child.IsDir() {
				s.Directories++
				walk(child, depth+1)
				continue
			}
			s.Files++
		}
	}
	if n.IsDir() {
		walk(n, 0)
	}
	return s
}

// Tree is a loaded manifest: the top-level key and the directory it names.
type Tree struct {
	Name string
	Root *Node
}
