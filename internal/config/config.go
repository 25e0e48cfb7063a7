// Package config loads, validates and saves the docus site configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/alexzhang1030/composable-vue/internal/filesys"
	"github.com/alexzhang1030/composable-vue/internal/log"
)

var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrNoConfig is returned when the configuration file is not found.
	ErrNoConfig = errors.New("configuration file not found")

	// ErrEmpty marks a required string field that is blank.
	ErrEmpty = errors.New("must not be empty")
	// ErrNegative marks a numeric field below zero.
	ErrNegative = errors.New("must be >= 0")
	// ErrBadHandle marks a social handle that is not owner or owner/repo.
	ErrBadHandle = errors.New("must be a handle like owner or owner/repo")
	// ErrBadPattern marks a malformed exclude pattern.
	ErrBadPattern = errors.New("must be a path pattern starting with /")
)

const (
	// DefaultConfigPath is the default path for the configuration file.
	DefaultConfigPath = "docus.yaml"

	// DefaultTitle is the shipped site title.
	DefaultTitle = "Composable Vue"
	// DefaultDescription is the shipped site description.
	DefaultDescription = "Vue 组合式 API 实践指南"
	// DefaultGitHub is the shipped repository handle.
	DefaultGitHub = "alexzhang1030/composable-vue"

	filePerm = 0o644
)

var (
	githubOwner = regexp.MustCompile(`^[A-Za-z0-9](?:-?[A-Za-z0-9])*$`)
	githubRepo  = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)
)

const maxOwnerLen = 39

// SiteConfig is the root of docus.yaml.
type SiteConfig struct {
	Docus Docus `yaml:"docus"`
}

// Docus holds the site metadata and navigation toggles.
type Docus struct {
	Title       string        `yaml:"title"`
	Description string        `yaml:"description"`
	Socials     SocialsConfig `yaml:"socials"`
	Aside       AsideConfig   `yaml:"aside"`
	Header      HeaderConfig  `yaml:"header"`
}

// SocialsConfig holds social link handles. An empty handle means no link.
type SocialsConfig struct {
	GitHub string `yaml:"github"`
}

// AsideConfig controls the sidebar.
type AsideConfig struct {
	// Level is the tree depth the sidebar is rooted at; 0 shows everything.
	Level   int      `yaml:"level"`
	Exclude []string `yaml:"exclude"`
}

// HeaderConfig controls the top navigation bar.
type HeaderConfig struct {
	Logo         bool     `yaml:"logo"`
	ShowLinkIcon bool     `yaml:"showLinkIcon"`
	Exclude      []string `yaml:"exclude"`
}

// FieldError reports a problem with a single configuration field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Err.Error() }

func (e *FieldError) Unwrap() error { return e.Err }

// Provider defines the interface for loading and persisting configuration.
type Provider interface {
	Load() (*SiteConfig, error)
	Save(cfg *SiteConfig) error
	Path() string
}

// FSProvider implements Provider on top of a filesys.FS.
type FSProvider struct {
	fs   filesys.FS
	path string
}

var _ Provider = (*FSProvider)(nil)

// New creates a provider backed by the local disk. An empty path selects
// DefaultConfigPath in the working directory.
func New(path string) *FSProvider {
	if path == "" {
		path = DefaultConfigPath
	}
	return NewWithPath(filesys.OS(), path)
}

// NewWithPath creates a new provider with a specific filesystem and path.
func NewWithPath(fs filesys.FS, path string) *FSProvider {
	return &FSProvider{
		fs:   fs,
		path: path,
	}
}

// Default returns the configuration shipped with the site.
func Default() *SiteConfig {
	return &SiteConfig{
		Docus: Docus{
			Title:       DefaultTitle,
			Description: DefaultDescription,
			Socials: SocialsConfig{
				GitHub: DefaultGitHub,
			},
			Aside: AsideConfig{
				Level:   0,
				Exclude: []string{},
			},
			Header: HeaderConfig{
				Logo:         true,
				ShowLinkIcon: true,
				Exclude:      []string{},
			},
		},
	}
}

// Path returns the file the provider reads and writes.
func (p *FSProvider) Path() string { return p.path }

// Exists reports whether the configuration file is present.
func (p *FSProvider) Exists() bool {
	_, err := p.fs.Stat(p.path)
	return err == nil
}

// Load reads the configuration file. Keys missing from the file keep their
// default values; a missing file yields Default().
func (p *FSProvider) Load() (*SiteConfig, error) {
	cfg, err := p.loadAndParse()
	if err != nil {
		if errors.Is(err, ErrNoConfig) {
			log.Debug("no config file, using defaults", "path", p.path)
			return Default(), nil
		}
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// Save validates cfg and atomically replaces the configuration file.
func (p *FSProvider) Save(cfg *SiteConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := filesys.AtomicWrite(p.fs, p.path, data, filePerm); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func (p *FSProvider) loadAndParse() (*SiteConfig, error) {
	f, err := p.fs.Open(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoConfig
		}
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding config file: %w", err)
	}
	return cfg, nil
}

// Decode reads a single YAML document from r on top of Default(). Unknown
// keys and trailing documents are rejected.
func Decode(r io.Reader) (*SiteConfig, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("config file is empty")
		}
		return nil, err
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, fmt.Errorf("multiple documents in config file: %w", err)
		}
		return nil, errors.New("multiple documents in config file")
	}
	cfg.normalize()
	return cfg, nil
}

// Marshal encodes the configuration as YAML with two-space indentation.
func (c *SiteConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *SiteConfig) normalize() {
	if c.Docus.Aside.Exclude == nil {
		c.Docus.Aside.Exclude = []string{}
	}
	if c.Docus.Header.Exclude == nil {
		c.Docus.Header.Exclude = []string{}
	}
}

// Validate checks every field and reports all problems together.
func (c *SiteConfig) Validate() error {
	var err error
	d := c.Docus

	if strings.TrimSpace(d.Title) == "" {
		err = multierr.Append(err, &FieldError{Field: "docus.title", Err: ErrEmpty})
	}
	if strings.TrimSpace(d.Description) == "" {
		err = multierr.Append(err, &FieldError{Field: "docus.description", Err: ErrEmpty})
	}
	if d.Socials.GitHub != "" && !validGitHubHandle(d.Socials.GitHub) {
		err = multierr.Append(err, &FieldError{Field: "docus.socials.github", Err: ErrBadHandle})
	}
	if d.Aside.Level < 0 {
		err = multierr.Append(err, &FieldError{Field: "docus.aside.level", Err: ErrNegative})
	}
	err = multierr.Append(err, validatePatterns("docus.aside.exclude", d.Aside.Exclude))
	err = multierr.Append(err, validatePatterns("docus.header.exclude", d.Header.Exclude))
	return err
}

// GitHubURL returns the repository link for the header, or "" when unset.
func (c *SiteConfig) GitHubURL() string {
	if c.Docus.Socials.GitHub == "" {
		return ""
	}
	return "https://github.com/" + c.Docus.Socials.GitHub
}

// validGitHubHandle accepts "owner" or "owner/repo". Owners follow GitHub's
// login rules; a repo name may not consist of dots only.
func validGitHubHandle(h string) bool {
	owner, repo, hasRepo := strings.Cut(h, "/")
	if len(owner) > maxOwnerLen || !githubOwner.MatchString(owner) {
		return false
	}
	if !hasRepo {
		return true
	}
	return githubRepo.MatchString(repo) && strings.Trim(repo, ".") != ""
}

func validatePatterns(field string, patterns []string) error {
	var err error
	for i, p := range patterns {
		if perr := ValidatePattern(p); perr != nil {
			err = multierr.Append(err, &FieldError{Field: fmt.Sprintf("%s[%d]", field, i), Err: perr})
		}
	}
	return err
}

// ValidatePattern checks that p is an absolute path pattern in path.Match
// syntax. A segment consisting of "**" matches any number of segments.
func ValidatePattern(p string) error {
	if !strings.HasPrefix(p, "/") {
		return ErrBadPattern
	}
	for _, seg := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if seg == "**" {
			continue
		}
		if _, err := path.Match(seg, ""); err != nil {
			return fmt.Errorf("%w: %q: %w", ErrBadPattern, seg, err)
		}
	}
	return nil
}

// Problems flattens an error returned by Load, Save or Validate into the
// individual field problems it carries.
func Problems(err error) []error {
	if err == nil {
		return nil
	}
	var out []error
	var walk func(error)
	walk = func(e error) {
		if e == nil || e == ErrInvalidConfig {
			return
		}
		if fe, ok := e.(*FieldError); ok {
			out = append(out, fe)
			return
		}
		if u, ok := e.(interface{ Unwrap() []error }); ok {
			for _, inner := range u.Unwrap() {
				walk(inner)
			}
			return
		}
		out = append(out, e)
	}
	walk(err)
	return out
}
