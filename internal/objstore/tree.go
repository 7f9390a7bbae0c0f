package objstore

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"
)

// TreeEntry represents a single entry in a tree object.
type TreeEntry struct {
	Mode string
	Name string
	Hash string // 40-char hex
}

// WriteTree writes a tree object and returns its hash.
func WriteTree(root string, entries []TreeEntry) (string, error) {
	sort.Slice(entries, func(i, j int) bool {
		// Directories sort with trailing slash in git
		nameI := entries[i].Name
		nameJ := entries[j].Name
		if entries[i].Mode == "40000" {
			nameI += "/"
		}
		if entries[j].Mode == "40000" {
			nameJ += "/"
		}
		return nameI < nameJ
	})

	var buf bytes.Buffer
	for _, e := range entries {
		fmt.Fprintf(&buf, "%s %s\x00", e.Mode, e.Name)
		hashBytes, err := hex.DecodeString(e.Hash)
		if err != nil {
			return "", err
		}
		buf.Write(hashBytes)
	}

	return WriteObject(root, "tree", buf.Bytes())
}

// ReadTree reads a tree object and returns its entries.
func ReadTree(root, hash string) ([]TreeEntry, error) {
	_, content, err := ReadObject(root, hash)
	if err != nil {
		return nil, err
	}
	return ParseTree(content)
}

// ParseTree parses tree object content into entries.
func ParseTree(data []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for len(data) > 0 {
		// Find the null byte separating "mode name" from hash
		nullIdx := bytes.IndexByte(data, 0)
		if nullIdx < 0 {
			return nil, fmt.Errorf("invalid tree entry")
		}

		header := string(data[:nullIdx])
		spaceIdx := strings.IndexByte(header, ' ')
		if spaceIdx < 0 {
			return nil, fmt.Errorf("invalid tree entry header: %s", header)
		}

		mode := header[:spaceIdx]
		name := header[spaceIdx+1:]

		if len(data) < nullIdx+1+20 {
			return nil, fmt.Errorf("tree entry too short")
		}
		hash := hex.EncodeToString(data[nullIdx+1 : nullIdx+21])

		entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: hash})
		data = data[nullIdx+21:]
	}
	return entries, nil
}

// TreeLeaf is one flat path→content mapping, as produced by an index or by
// flattening an existing tree. Mode is an octal string ("100644", "100755",
// "40000", ...), matching the on-disk TreeEntry encoding.
type TreeLeaf struct {
	Path string
	Mode string
	Hash string
}

// BuildTree builds a tree hierarchy from a flat list of leaves and writes
// all tree objects to the store. Returns the root tree hash.
func BuildTree(root string, leaves []TreeLeaf) (string, error) {
	// Group entries by directory
	type dirEntry struct {
		name    string
		mode    string
		hash    string
		isTree  bool
		entries map[string]*dirEntry
	}

	rootDir := &dirEntry{entries: make(map[string]*dirEntry)}

	for _, e := range leaves {
		parts := strings.Split(e.Path, "/")
		cur := rootDir
		for i, part := range parts {
			if i == len(parts)-1 {
				// Leaf blob
				cur.entries[part] = &dirEntry{
					name: part,
					mode: e.Mode,
					hash: e.Hash,
				}
			} else {
				// Intermediate directory
				if _, ok := cur.entries[part]; !ok {
					cur.entries[part] = &dirEntry{
						name:    part,
						isTree:  true,
						entries: make(map[string]*dirEntry),
					}
				}
				cur = cur.entries[part]
			}
		}
	}

	// Recursively write trees
	var writeDir func(d *dirEntry) (string, error)
	writeDir = func(d *dirEntry) (string, error) {
		var treeEntries []TreeEntry
		for _, child := range d.entries {
			if child.isTree {
				childHash, err := writeDir(child)
				if err != nil {
					return "", err
				}
				treeEntries = append(treeEntries, TreeEntry{
					Mode: "40000",
					Name: child.name,
					Hash: childHash,
				})
			} else {
				treeEntries = append(treeEntries, TreeEntry{
					Mode: child.mode,
					Name: child.name,
					Hash: child.hash,
				})
			}
		}
		return WriteTree(root, treeEntries)
	}

	return writeDir(rootDir)
}

// TreeBuilder mutates a content-addressed tree one path at a time,
// descending into subtrees and rebuilding the chain of parent trees
// bottom-up so that every ancestor tree's hash reflects the new content.
// It never mutates objects already on disk — WriteTree always produces
// (or reuses, by content address) a fresh object.
type TreeBuilder struct {
	root string
}

// NewTreeBuilder returns a TreeBuilder rooted at the repository at root.
func NewTreeBuilder(root string) *TreeBuilder {
	return &TreeBuilder{root: root}
}

// GetBlob returns the blob hash and mode stored at path within treeHash.
func (b *TreeBuilder) GetBlob(treeHash, path string) (hash, mode string, err error) {
	parts := strings.Split(path, "/")
	return b.getBlob(treeHash, parts)
}

func (b *TreeBuilder) getBlob(treeHash string, parts []string) (string, string, error) {
	entries, err := ReadTree(b.root, treeHash)
	if err != nil {
		return "", "", err
	}
	name := parts[0]
	for _, e := range entries {
		if e.Name != name {
			continue
		}
		if len(parts) == 1 {
			return e.Hash, e.Mode, nil
		}
		if e.Mode != "40000" {
			return "", "", fmt.Errorf("not a directory: %s", name)
		}
		return b.getBlob(e.Hash, parts[1:])
	}
	return "", "", fmt.Errorf("path not found in tree: %s", strings.Join(parts, "/"))
}

// InsertBlob returns the hash of a tree identical to treeHash except that
// the entry at path has content newBlobHash. The entry's existing mode is
// preserved; every ancestor tree along path is rewritten and re-hashed.
func (b *TreeBuilder) InsertBlob(treeHash, path, newBlobHash string) (string, error) {
	parts := strings.Split(path, "/")
	return b.insertBlob(treeHash, parts, newBlobHash)
}

func (b *TreeBuilder) insertBlob(treeHash string, parts []string, newBlobHash string) (string, error) {
	entries, err := ReadTree(b.root, treeHash)
	if err != nil {
		return "", err
	}

	name := parts[0]
	found := false
	for i, e := range entries {
		if e.Name != name {
			continue
		}
		found = true
		if len(parts) == 1 {
			entries[i].Hash = newBlobHash
		} else {
			if e.Mode != "40000" {
				return "", fmt.Errorf("not a directory: %s", name)
			}
			childHash, err := b.insertBlob(e.Hash, parts[1:], newBlobHash)
			if err != nil {
				return "", err
			}
			entries[i].Hash = childHash
		}
		break
	}
	if !found {
		return "", fmt.Errorf("path not found in tree: %s", name)
	}

	return WriteTree(b.root, entries)
}

// FlattenTree recursively flattens a tree into a map of path→hash.
func FlattenTree(root, treeHash, prefix string) (map[string]string, error) {
	entries, err := ReadTree(root, treeHash)
	if err != nil {
		return nil, err
	}

	result := make(map[string]string)
	for _, e := range entries {
		fullPath := e.Name
		if prefix != "" {
			fullPath = path.Join(prefix, e.Name)
		}
		if e.Mode == "40000" {
			sub, err := FlattenTree(root, e.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			for k, v := range sub {
				result[k] = v
			}
		} else {
			result[fullPath] = e.Hash
		}
	}
	return result, nil
}
