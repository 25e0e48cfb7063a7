// Package config provides the docus site configuration.
//
// The configuration is a single YAML document, read once at start-up and
// treated as immutable afterwards:
//
//	docus:
//	  title: Composable Vue
//	  description: Vue 组合式 API 实践指南
//	  socials:
//	    github: alexzhang1030/composable-vue
//	  aside:
//	    level: 0          # sidebar root depth, 0 shows the whole tree
//	    exclude: []       # path patterns hidden from the sidebar
//	  header:
//	    logo: true
//	    showLinkIcon: true
//	    exclude: []       # path patterns hidden from the header
//
// # Basic Usage
//
//	provider := config.New("") // ./docus.yaml
//	cfg, err := provider.Load()
//	if err != nil {
//		for _, p := range config.Problems(err) {
//			fmt.Println(p)
//		}
//	}
//
// Keys omitted from the file keep their values from Default(). Unknown keys
// are an error. If the file does not exist, Default() is returned.
//
// # Validation
//
//   - title and description must not be blank
//   - socials.github, when set, must be "owner" or "owner/repo"
//   - aside.level must be >= 0
//   - every exclude entry must start with "/" and be valid path.Match
//     syntax; a "**" segment matches any depth
//
// Validate reports every problem at once. Each problem is a *FieldError
// naming the field, e.g. "docus.aside.exclude[1]", and wrapping one of
// ErrEmpty, ErrNegative, ErrBadHandle or ErrBadPattern. Load and Save wrap
// validation failures with ErrInvalidConfig.
//
// # Saving
//
// Save validates and then replaces the file atomically, so a concurrent
// reader never sees a half-written document.
package config
