package nav

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/suite"

	"github.com/alexzhang1030/composable-vue/internal/config"
)

func contentFS() fstest.MapFS {
	page := &fstest.MapFile{Data: []byte("# page\n")}
	return fstest.MapFS{
		"content/1.introduction/1.getting-started.md": page,
		"content/1.introduction/2.installation.md":    page,
		"content/2.composables/1.use-fetch.md":        page,
		"content/2.composables/2.use_storage.md":      page,
		"content/2.composables/drafts/wip.md":         page,
		"content/2.composables/index.md":              page,
		"content/_partials/footer.md":                 page,
		"content/empty/readme.txt":                    page,
		"content/changelog.md":                        page,
		"content/.hidden.md":                          page,
		"content/index.md":                            page,
		"content/logo.png":                            page,
	}
}

func paths(nodes []*Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.Path)
	}
	return out
}

type TreeTestSuite struct {
	suite.Suite
	tree *Node
}

func (s *TreeTestSuite) SetupTest() {
	tree, err := Build(contentFS(), "content")
	s.Require().NoError(err)
	s.tree = tree
}

func (s *TreeTestSuite) TestTopLevelOrder() {
	s.Equal([]string{"/introduction", "/composables", "/changelog"}, paths(s.tree.Children))
	s.True(s.tree.Page)
	s.Equal("content/index.md", s.tree.Source)
}

func (s *TreeTestSuite) TestSectionPages() {
	intro := s.tree.Children[0]
	s.False(intro.Page)
	s.Equal(1, intro.Order)
	s.Equal("Introduction", intro.Title)
	s.Equal([]string{"/introduction/getting-started", "/introduction/installation"}, paths(intro.Children))
	s.Equal("Getting Started", intro.Children[0].Title)

	comp := s.tree.Children[1]
	s.True(comp.Page)
	s.Equal("content/2.composables/index.md", comp.Source)
	s.Equal([]string{"/composables/use-fetch", "/composables/use-storage", "/composables/drafts"}, paths(comp.Children))
	s.Equal("Use Storage", comp.Children[1].Title)
	s.Equal(2, comp.Children[1].Depth())
}

func (s *TreeTestSuite) TestWalkVisitsEveryNode() {
	count := 0
	s.tree.Walk(func(*Node) { count++ })
	// root, 2 sections + 2 intro pages, 3 composables children, wip, changelog
	s.Equal(10, count)
}

func (s *TreeTestSuite) TestDuplicatePaths() {
	fsys := fstest.MapFS{
		"docs/guide.md":   &fstest.MapFile{},
		"docs/1.guide.md": &fstest.MapFile{},
	}
	_, err := Build(fsys, "docs")

	s.Require().Error(err)
	s.Contains(err.Error(), "both map to /guide")
}

func (s *TreeTestSuite) TestUnderscoresBecomeDashes() {
	fsys := fstest.MapFS{
		"docs/my_section/3.getting_started.md": &fstest.MapFile{},
	}
	tree, err := Build(fsys, "docs")

	s.Require().NoError(err)
	s.Require().Len(tree.Children, 1)
	section := tree.Children[0]
	s.Equal("/my-section", section.Path)
	s.Equal("My Section", section.Title)
	s.Equal("/my-section/getting-started", section.Children[0].Path)
	s.Equal(3, section.Children[0].Order)
}

func (s *TreeTestSuite) TestDuplicateIndexPages() {
	fsys := fstest.MapFS{
		"c/index.md":           &fstest.MapFile{},
		"c/1.index.md":         &fstest.MapFile{},
		"c/guide/index.md":     &fstest.MapFile{},
		"c/guide/2.index.md":   &fstest.MapFile{},
		"c/guide/1.install.md": &fstest.MapFile{},
	}
	_, err := Build(fsys, "c")

	s.Require().Error(err)
	s.Contains(err.Error(), "c/1.index.md and c/index.md both map to /")
	s.Contains(err.Error(), "c/guide/2.index.md and c/guide/index.md both map to /guide")
}

func (s *TreeTestSuite) TestMissingRoot() {
	_, err := Build(fstest.MapFS{}, "content")

	s.Require().Error(err)
	s.Contains(err.Error(), "reading content dir content")
}

func TestTreeSuite(t *testing.T) {
	suite.Run(t, new(TreeTestSuite))
}

type MatcherTestSuite struct {
	suite.Suite
}

func (s *MatcherTestSuite) TestMatch() {
	testCases := []struct {
		pattern string
		path    string
		want    bool
	}{
		{"/blog", "/blog", true},
		{"/blog", "/blog/first-post", true},
		{"/blog", "/blogs", false},
		{"/blog", "/", false},
		{"/blog/*", "/blog/a", true},
		{"/blog/*", "/blog/a/b", true},
		{"/blog/*", "/blog", false},
		{"/**/drafts", "/drafts", true},
		{"/**/drafts", "/a/b/drafts", true},
		{"/**/drafts", "/a/drafts/wip", true},
		{"/**/drafts", "/a/draft", false},
		{"/", "/", true},
		{"/", "/anything/at/all", true},
		{"/c/[a-z]?", "/c/ab", true},
		{"/c/[a-z]?", "/c/1a", false},
		{"/blog", "blog/a/", true},
	}

	for _, tc := range testCases {
		s.Run(tc.pattern+" "+tc.path, func() {
			m, err := Compile([]string{tc.pattern})
			s.Require().NoError(err)
			s.Equal(tc.want, m.Match(tc.path))
		})
	}
}

func (s *MatcherTestSuite) TestEmptyMatchesNothing() {
	m, err := Compile(nil)
	s.Require().NoError(err)
	s.Empty(m.patterns)
	s.False(m.Match("/"))
	s.False(m.Match("/blog"))
}

func (s *MatcherTestSuite) TestCompileCollectsErrors() {
	_, err := Compile([]string{"/ok", "relative", "/bad/[x-"})

	s.Require().Error(err)
	s.ErrorIs(err, config.ErrBadPattern)
	s.Contains(err.Error(), "[x-")
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

type NavigatorTestSuite struct {
	suite.Suite
	tree *Node
	cfg  *config.SiteConfig
}

func (s *NavigatorTestSuite) SetupTest() {
	tree, err := Build(contentFS(), "content")
	s.Require().NoError(err)
	s.tree = tree
	s.cfg = config.Default()
}

func (s *NavigatorTestSuite) navigator() *Navigator {
	n, err := New(s.cfg)
	s.Require().NoError(err)
	return n
}

func (s *NavigatorTestSuite) TestAsideLevelZeroShowsWholeTree() {
	aside := s.navigator().Aside(s.tree, "/introduction/installation")

	s.Equal([]string{"/introduction", "/composables", "/changelog"}, paths(aside))
	s.Len(aside[1].Children, 3)
}

func (s *NavigatorTestSuite) TestAsideExcludesSubtree() {
	s.cfg.Docus.Aside.Exclude = []string{"/composables/drafts", "/changelog"}

	aside := s.navigator().Aside(s.tree, "/")

	s.Equal([]string{"/introduction", "/composables"}, paths(aside))
	s.Equal([]string{"/composables/use-fetch", "/composables/use-storage"}, paths(aside[1].Children))
	// the source tree is untouched
	s.Len(s.tree.Children[1].Children, 3)
}

func (s *NavigatorTestSuite) TestAsideDropsEmptiedSections() {
	s.cfg.Docus.Aside.Exclude = []string{"/introduction/*"}

	aside := s.navigator().Aside(s.tree, "/")

	s.Equal([]string{"/composables", "/changelog"}, paths(aside))
}

func (s *NavigatorTestSuite) TestAsideLevelOne() {
	s.cfg.Docus.Aside.Level = 1
	n := s.navigator()

	s.Equal(
		[]string{"/composables/use-fetch", "/composables/use-storage", "/composables/drafts"},
		paths(n.Aside(s.tree, "/composables/use-fetch")),
	)
	s.Equal(
		[]string{"/introduction/getting-started", "/introduction/installation"},
		paths(n.Aside(s.tree, "introduction")),
	)
	s.Nil(n.Aside(s.tree, "/"))
	s.Nil(n.Aside(s.tree, "/missing/page"))
}

func (s *NavigatorTestSuite) TestAsideLevelOneExcludedSection() {
	s.cfg.Docus.Aside.Level = 1
	s.cfg.Docus.Aside.Exclude = []string{"/composables"}

	s.Nil(s.navigator().Aside(s.tree, "/composables/use-fetch"))
}

func (s *NavigatorTestSuite) TestHeader() {
	s.cfg.Docus.Header.Exclude = []string{"/changelog"}
	s.cfg.Docus.Header.Logo = false

	h := s.navigator().Header(s.tree)

	s.False(h.Logo)
	s.True(h.ShowLinkIcon)
	s.Equal("https://github.com/alexzhang1030/composable-vue", h.GitHub)
	s.Equal([]Link{
		{Title: "Introduction", Path: "/introduction/getting-started"},
		{Title: "Composables", Path: "/composables"},
	}, h.Links)
}

func (s *NavigatorTestSuite) TestHeaderSkipsExcludedFirstPage() {
	s.cfg.Docus.Header.Exclude = []string{"/introduction/getting-started"}

	h := s.navigator().Header(s.tree)

	s.Equal(Link{Title: "Introduction", Path: "/introduction/installation"}, h.Links[0])
}

func (s *NavigatorTestSuite) TestHeaderAndAsideAreIndependent() {
	s.cfg.Docus.Header.Exclude = []string{"/changelog"}
	n := s.navigator()

	aside, header := n.Visible("/changelog")
	s.True(aside)
	s.False(header)
	s.Contains(paths(n.Aside(s.tree, "/")), "/changelog")
}

func (s *NavigatorTestSuite) TestNewRejectsInvalidConfig() {
	s.cfg.Docus.Header.Exclude = []string{"nope"}
	_, err := New(s.cfg)
	s.ErrorIs(err, config.ErrBadPattern)

	s.cfg = config.Default()
	s.cfg.Docus.Aside.Level = -1
	_, err = New(s.cfg)
	s.ErrorIs(err, config.ErrNegative)
}

func TestNavigatorSuite(t *testing.T) {
	suite.Run(t, new(NavigatorTestSuite))
}
