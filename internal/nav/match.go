package nav

import (
	"path"
	"strings"

	"go.uber.org/multierr"

	"github.com/alexzhang1030/composable-vue/internal/config"
)

// Matcher reports whether a URL path is hidden by a list of exclude patterns.
//
// A pattern hides the paths it matches and everything below them, so
// "/blog" hides "/blog/first-post". Segments use path.Match syntax and a
// "**" segment matches zero or more segments.
type Matcher struct {
	patterns [][]string
}

// Compile validates and prepares patterns.
func Compile(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([][]string, 0, len(patterns))}
	var errs error
	for _, p := range patterns {
		if err := config.ValidatePattern(p); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		m.patterns = append(m.patterns, segments(p))
	}
	if errs != nil {
		return nil, errs
	}
	return m, nil
}

// Match reports whether p is excluded.
func (m *Matcher) Match(p string) bool {
	segs := segments(path.Clean("/" + strings.TrimPrefix(p, "/")))
	for _, pat := range m.patterns {
		if matchSegments(pat, segs) {
			return true
		}
	}
	return false
}

func matchSegments(pat, segs []string) bool {
	if len(pat) == 0 {
		return true
	}
	if pat[0] == "**" {
		for i := 0; i <= len(segs); i++ {
			if matchSegments(pat[1:], segs[i:]) {
				return true
			}
		}
		return false
	}
	if len(segs) == 0 {
		return false
	}
	ok, err := path.Match(pat[0], segs[0])
	if err != nil || !ok {
		return false
	}
	return matchSegments(pat[1:], segs[1:])
}
