package nav

import (
	"fmt"
	"path"
	"strings"

	"github.com/alexzhang1030/composable-vue/internal/config"
)

// Link is a single header entry.
type Link struct {
	Title string
	Path  string
}

// HeaderNav is what the header renders.
type HeaderNav struct {
	Logo         bool
	ShowLinkIcon bool
	GitHub       string
	Links        []Link
}

// Navigator applies a site configuration to content trees. It holds no
// reference to the trees it filters and is safe for concurrent use.
type Navigator struct {
	level        int
	aside        *Matcher
	header       *Matcher
	logo         bool
	showLinkIcon bool
	github       string
}

// New compiles the exclude patterns of cfg.
func New(cfg *config.SiteConfig) (*Navigator, error) {
	d := cfg.Docus
	if d.Aside.Level < 0 {
		return nil, fmt.Errorf("docus.aside.level: %w", config.ErrNegative)
	}
	aside, err := Compile(d.Aside.Exclude)
	if err != nil {
		return nil, fmt.Errorf("docus.aside.exclude: %w", err)
	}
	header, err := Compile(d.Header.Exclude)
	if err != nil {
		return nil, fmt.Errorf("docus.header.exclude: %w", err)
	}
	return &Navigator{
		level:        d.Aside.Level,
		aside:        aside,
		header:       header,
		logo:         d.Header.Logo,
		showLinkIcon: d.Header.ShowLinkIcon,
		github:       cfg.GitHubURL(),
	}, nil
}

// Aside returns the sidebar for the page at current. With level 0 it is the
// whole tree; with level N it is the children of the ancestor of current at
// depth N, or nil when current is shallower than N or that ancestor is
// missing or excluded. The returned nodes are copies.
func (n *Navigator) Aside(tree *Node, current string) []*Node {
	root := tree
	segs := segments(path.Clean("/" + strings.TrimPrefix(current, "/")))
	if len(segs) < n.level {
		return nil
	}
	for i := 0; i < n.level; i++ {
		want := "/" + strings.Join(segs[:i+1], "/")
		root = childByPath(root, want)
		if root == nil || n.aside.Match(want) {
			return nil
		}
	}
	return filter(root.Children, n.aside)
}

// Header returns the top-level links that are not excluded from the header.
// A section without its own page links to its first page.
func (n *Navigator) Header(tree *Node) HeaderNav {
	h := HeaderNav{
		Logo:         n.logo,
		ShowLinkIcon: n.showLinkIcon,
		GitHub:       n.github,
		Links:        []Link{},
	}
	for _, c := range tree.Children {
		if n.header.Match(c.Path) {
			continue
		}
		target := firstPage(c, n.header)
		if target == nil {
			continue
		}
		h.Links = append(h.Links, Link{Title: c.Title, Path: target.Path})
	}
	return h
}

// Visible reports whether p shows up in the aside and in the header.
func (n *Navigator) Visible(p string) (aside, header bool) {
	return !n.aside.Match(p), !n.header.Match(p)
}

func filter(nodes []*Node, m *Matcher) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, node := range nodes {
		if m.Match(node.Path) {
			continue
		}
		c := node.clone()
		c.Children = filter(node.Children, m)
		if !c.Page && len(c.Children) == 0 {
			continue
		}
		out = append(out, c)
	}
	return out
}

func childByPath(n *Node, p string) *Node {
	for _, c := range n.Children {
		if c.Path == p {
			return c
		}
	}
	return nil
}

func firstPage(n *Node, m *Matcher) *Node {
	if m.Match(n.Path) {
		return nil
	}
	if n.Page {
		return n
	}
	for _, c := range n.Children {
		if p := firstPage(c, m); p != nil {
			return p
		}
	}
	return nil
}
