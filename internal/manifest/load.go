package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func FormatFromPath(p string) Format {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a manifest file and returns the tree named by its first top-level key.
func Load(p string) (Tree, error) {
	data, err := os.ReadFile(p) // #nosec G304
	if err != nil {
		return Tree{}, err
	}
	tree, err := Parse(data, FormatFromPath(p))
	if err != nil {
		return Tree{}, fmt.Errorf("%s: %w", p, err)
	}
	return tree, nil
}

// Parse decodes a serialized manifest. Only the first top-level key (in
// document order) is used; any further keys are ignored.
func Parse(data []byte, format Format) (Tree, error) {
	switch format {
	case FormatYAML:
		return parseYAML(data)
	default:
		return parseJSON(data)
	}
}

func parseJSON(data []byte) (Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return Tree{}, ErrEmpty
	}
	if err != nil {
		return Tree{}, fmt.Errorf("json: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Tree{}, fmt.Errorf("%w: top level is not a mapping", ErrInvalidNode)
	}
	if !dec.More() {
		return Tree{}, ErrEmpty
	}

	keyTok, err := dec.Token()
	if err != nil {
		return Tree{}, fmt.Errorf("json: %w", err)
	}
	name, _ := keyTok.(string)

	root, err := decodeJSONNode(dec, name)
	if err != nil {
		return Tree{}, err
	}
	if !root.IsDir() {
		return Tree{}, fmt.Errorf("%w: tree %q is not a mapping", ErrInvalidNode, name)
	}
	if err := drainJSON(dec); err != nil {
		return Tree{}, err
	}
	return Tree{Name: name, Root: root}, nil
}

// drainJSON consumes the remaining top-level pairs and requires the document
// to end right after the closing brace.
func drainJSON(dec *json.Decoder) error {
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return fmt.Errorf("%w: json: %v", ErrMalformed, err)
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return fmt.Errorf("%w: json: %v", ErrMalformed, err)
		}
	}
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: json: %v", ErrMalformed, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '}' {
		return fmt.Errorf("%w: json: unexpected %v", ErrMalformed, tok)
	}
	if tok, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return fmt.Errorf("%w: json: %v", ErrMalformed, err)
		}
		return fmt.Errorf("%w: json: trailing data %v", ErrMalformed, tok)
	}
	return nil
}

func decodeJSONNode(dec *json.Decoder, at string) (*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("json at %q: %w", at, err)
	}

	switch t := tok.(type) {
	case string:
		return NewFile(t), nil
	case json.Delim:
		if t != '{' {
			return nil, fmt.Errorf("%w: %q holds an array", ErrInvalidNode, at)
		}
		dir := NewDirectory(nil)
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("json at %q: %w", at, err)
			}
			name := keyTok.(string)
			childAt := path.Join(at, name)
			child, err := decodeJSONNode(dec, childAt)
			if err != nil {
				return nil, err
			}
			if _, dup := dir.Children[name]; dup {
				return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidNode, childAt)
			}
			dir.Children[name] = child
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("json at %q: %w", at, err)
		}
		return dir, nil
	default:
		return nil, fmt.Errorf("%w: %q holds %v", ErrInvalidNode, at, t)
	}
}

func parseYAML(data []byte) (Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Tree{}, fmt.Errorf("yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Tree{}, ErrEmpty
	}
	top := doc.Content[0]
	if top.Kind != yaml.MappingNode {
		return Tree{}, fmt.Errorf("%w: top level is not a mapping", ErrInvalidNode)
	}
	if len(top.Content) < 2 {
		return Tree{}, ErrEmpty
	}

	name := top.Content[0].Value
	root, err := decodeYAMLNode(top.Content[1], name)
	if err != nil {
		return Tree{}, err
	}
	if !root.IsDir() {
		return Tree{}, fmt.Errorf("%w: tree %q is not a mapping", ErrInvalidNode, name)
	}
	return Tree{Name: name, Root: root}, nil
}

func decodeYAMLNode(n *yaml.Node, at string) (*Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		// Digests made only of digits resolve as !!int and must be quoted.
		if tag := n.ShortTag(); tag != "!!str" {
			return nil, fmt.Errorf("%w: %q holds %s %q", ErrInvalidNode, at, tag, n.Value)
		}
		return NewFile(n.Value), nil
	case yaml.MappingNode:
		dir := NewDirectory(nil)
		for i := 0; i+1 < len(n.Content); i += 2 {
			name := n.Content[i].Value
			childAt := path.Join(at, name)
			child, err := decodeYAMLNode(n.Content[i+1], childAt)
			if err != nil {
				return nil, err
			}
			if _, dup := dir.Children[name]; dup {
				return nil, fmt.Errorf("%w: duplicate entry %q", ErrInvalidNode, childAt)
			}
			dir.Children[name] = child
		}
		return dir, nil
	case yaml.AliasNode:
		return nil, fmt.Errorf("%w: %q is an alias", ErrInvalidNode, at)
	default:
		return nil, fmt.Errorf("%w: %q holds a sequence", ErrInvalidNode, at)
	}
}

// Validate checks that entry names stay inside their directory and that
// every file digest is hex of hexLen characters. All offending entries are
// reported together.
func Validate(root *Node, hexLen int) error {
	var errs []error
	var walk func(n *Node, at string)
	walk = func(n *Node, at string) {
		for _, name := range n.Names() {
			child := n.Children[name]
			childAt := path.Join(at, name)
			if !validName(name) {
				errs = append(errs, fmt.Errorf("%w: entry name %q under %q", ErrInvalidNode, name, at))
				continue
			}
			if child.IsDir() {
				walk(child, childAt)
				continue
			}
			if err := checkDigest(child.Digest, hexLen); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidDigest, childAt, err))
			}
		}
	}
	walk(root, "")
	return errors.Join(errs...)
}

func checkDigest(d string, hexLen int) error {
	d = strings.TrimSpace(d)
	if hexLen > 0 && len(d) != hexLen {
		return fmt.Errorf("length %d, want %d", len(d), hexLen)
	}
	for i := 0; i < len(d); i++ {
		c := d[i]
		isHex := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
		if !isHex {
			return fmt.Errorf("non-hex character %q at %d", c, i)
		}
	}
	return nil
}

func validName(name string) bool {
	switch name {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(name, `/\`+"\x00")
}
