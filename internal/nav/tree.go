// Package nav builds the navigation tree of a docus content directory and
// filters it with the aside and header settings of the site configuration.
package nav

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alexzhang1030/composable-vue/internal/log"
)

const (
	pageExt   = ".md"
	indexName = "index"
)

var orderPrefix = regexp.MustCompile(`^(\d+)\.(.+)$`)

// Node is a page or a section of the content tree.
type Node struct {
	Title    string
	Path     string // URL path, "/" for the root
	Order    int    // numeric prefix, -1 when the name has none
	Page     bool   // backed by a markdown file
	Source   string // file the page was read from, empty for bare sections
	Children []*Node
}

// Depth is the number of URL segments in the node path.
func (n *Node) Depth() int {
	return len(segments(n.Path))
}

func (n *Node) clone() *Node {
	c := *n
	c.Children = nil
	return &c
}

// Walk calls fn for n and every descendant, depth first.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Build reads the content tree rooted at root. Files ending in .md become
// pages, directories become sections, and names starting with "." or "_"
// are skipped. A leading "N." on a name sets the order and is dropped
// from the URL.
func Build(fsys fs.FS, root string) (*Node, error) {
	tree := &Node{Title: "Home", Path: "/", Order: -1}
	if err := buildDir(fsys, root, tree); err != nil {
		return nil, err
	}
	log.Debug("content tree built", "root", root, "children", len(tree.Children))
	return tree, nil
}

func buildDir(fsys fs.FS, dir string, parent *Node) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading content dir %s: %w", dir, err)
	}

	var errs error
	seen := make(map[string]string)
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		src := path.Join(dir, name)

		if !e.IsDir() {
			if !strings.HasSuffix(name, pageExt) {
				continue
			}
			order, slug := splitName(strings.TrimSuffix(name, pageExt))
			if slug == indexName {
				if parent.Source != "" {
					errs = multierr.Append(errs, fmt.Errorf("%s and %s both map to %s", parent.Source, src, parent.Path))
					continue
				}
				parent.Page = true
				parent.Source = src
				continue
			}
			child := &Node{
				Title:  titleOf(slug),
				Path:   path.Join(parent.Path, slug),
				Order:  order,
				Page:   true,
				Source: src,
			}
			if prev, dup := seen[child.Path]; dup {
				errs = multierr.Append(errs, fmt.Errorf("%s and %s both map to %s", prev, src, child.Path))
				continue
			}
			seen[child.Path] = src
			parent.Children = append(parent.Children, child)
			continue
		}

		order, slug := splitName(name)
		child := &Node{
			Title: titleOf(slug),
			Path:  path.Join(parent.Path, slug),
			Order: order,
		}
		if prev, dup := seen[child.Path]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%s and %s both map to %s", prev, src, child.Path))
			continue
		}
		if err := buildDir(fsys, src, child); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !child.Page && len(child.Children) == 0 {
			continue
		}
		seen[child.Path] = src
		parent.Children = append(parent.Children, child)
	}

	sortNodes(parent.Children)
	return errs
}

// sortNodes orders numbered entries first by number, then the rest by path.
func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		switch {
		case a.Order >= 0 && b.Order >= 0 && a.Order != b.Order:
			return a.Order < b.Order
		case a.Order >= 0 && b.Order < 0:
			return true
		case a.Order < 0 && b.Order >= 0:
			return false
		}
		return a.Path < b.Path
	})
}

// splitName returns the ordering prefix of name (-1 if none) and its URL
// slug. Underscores in the slug become dashes.
func splitName(name string) (int, string) {
	order, slug := -1, name
	if m := orderPrefix.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			order, slug = n, m[2]
		}
	}
	return order, strings.ReplaceAll(slug, "_", "-")
}

func titleOf(slug string) string {
	s := strings.ReplaceAll(slug, "-", " ")
	return cases.Title(language.English).String(s)
}

func segments(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
