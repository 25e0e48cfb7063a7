// Command `docus` inspects and maintains the docus site configuration.
//
// Usage:
//
//	docus validate          - Check docus.yaml and list every problem
//	docus show              - Print the effective configuration
//	docus init [--force]    - Write the default configuration
//	docus nav [page]        - Print the header links and the aside for a page
//	docus version           - Show version information
//
// The configuration file defaults to ./docus.yaml (--config) and the content
// directory to ./content (--content).
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/alexzhang1030/composable-vue/internal/buildinfo"
	"github.com/alexzhang1030/composable-vue/internal/config"
	"github.com/alexzhang1030/composable-vue/internal/log"
	"github.com/alexzhang1030/composable-vue/internal/nav"
)

const defaultContentDir = "content"

func main() {
	var (
		cfgPath    string
		contentDir string
	)

	loadConfig := func() (*config.SiteConfig, error) {
		p := config.New(cfgPath)
		cfg, err := p.Load()
		if err != nil {
			return nil, err
		}
		if p.Exists() {
			log.Debug("loaded config", "path", p.Path())
		}
		return cfg, nil
	}

	root := &cobra.Command{
		Use:   "docus",
		Short: "Docus site configuration tool",
		Long: `docus validates and inspects the docus.yaml configuration of a
documentation site: title, description, social links, and the aside and
header navigation settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultConfigPath, "path to the site configuration")
	root.PersistentFlags().StringVar(&contentDir, "content", defaultContentDir, "path to the content directory")

	// ---- version command ----
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", buildinfo.Version)
			fmt.Printf("commit: %s\n", buildinfo.Commit)
		},
	}

	// ---- validate command ----
	validateCmd := &cobra.Command{
		Use:     "validate",
		Short:   "Validate the site configuration",
		Long:    `Load the site configuration and report every invalid field at once.`,
		Example: "docus validate --config site/docus.yaml",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if _, err := loadConfig(); err != nil {
				if errors.Is(err, config.ErrInvalidConfig) {
					color.New(color.FgHiRed, color.Bold).Println("Configuration is invalid:")
					for _, p := range config.Problems(err) {
						color.New(color.FgYellow).Printf("  - %v\n", p)
					}
				}
				return err
			}
			color.New(color.FgGreen, color.Bold).Println(validSummary(cfgPath, config.New(cfgPath).Exists()))
			return nil
		},
	}

	// ---- show command ----
	showCmd := &cobra.Command{
		Use:     "show",
		Short:   "Print the effective configuration",
		Long:    `Print the configuration after defaults are applied.`,
		Example: "docus show",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			d := cfg.Docus

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Field", "Value"})
			table.SetHeaderColor(
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
				tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiCyanColor},
			)
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			table.AppendBulk([][]string{
				{"docus.title", d.Title},
				{"docus.description", d.Description},
				{"docus.socials.github", d.Socials.GitHub},
				{"docus.aside.level", strconv.Itoa(d.Aside.Level)},
				{"docus.aside.exclude", listOrNone(d.Aside.Exclude)},
				{"docus.header.logo", strconv.FormatBool(d.Header.Logo)},
				{"docus.header.showLinkIcon", strconv.FormatBool(d.Header.ShowLinkIcon)},
				{"docus.header.exclude", listOrNone(d.Header.Exclude)},
			})
			table.Render()
			return nil
		},
	}

	// ---- init command ----
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Long: `Write the default site configuration to the config path.
An existing file is left alone unless --force is given.`,
		Example: "docus init --force",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			p := config.New(cfgPath)
			if p.Exists() && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", p.Path())
			}
			if err := p.Save(config.Default()); err != nil {
				return err
			}
			log.Info("wrote default config", "path", p.Path())
			color.New(color.FgGreen, color.Bold).Printf("✓ Wrote %s\n", p.Path())
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing configuration")

	// ---- nav command ----
	navCmd := &cobra.Command{
		Use:   "nav [page]",
		Short: "Print the navigation for a page",
		Long: `Build the navigation from the content directory and print the header
links and the aside entries visible on the given page (default "/").`,
		Example: "docus nav /composables/use-fetch",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			page := "/"
			if len(args) == 1 {
				page = args[0]
			}

			tree, err := nav.Build(os.DirFS(contentDir), ".")
			if err != nil {
				return fmt.Errorf("building navigation: %w", err)
			}
			n, err := nav.New(cfg)
			if err != nil {
				return err
			}

			pages := 0
			tree.Walk(func(node *nav.Node) {
				if node.Page {
					pages++
				}
			})
			log.Debug("navigation built", "content", contentDir, "pages", pages)
			fmt.Printf("%d pages in %s\n\n", pages, contentDir)

			header := n.Header(tree)
			color.New(color.Bold).Println("HEADER:")
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Title", "Link"})
			table.SetBorder(false)
			for _, l := range header.Links {
				table.Append([]string{l.Title, l.Path})
			}
			table.Render()
			fmt.Printf("logo: %t  link icon: %t  github: %s\n\n", header.Logo, header.ShowLinkIcon, orNone(header.GitHub))

			if inAside, inHeader := n.Visible(page); !inAside || !inHeader {
				color.New(color.FgYellow).Printf("%s is excluded from aside: %t  header: %t\n", page, !inAside, !inHeader)
			}
			color.New(color.Bold).Printf("ASIDE (%s):\n", page)
			aside := n.Aside(tree, page)
			if len(aside) == 0 {
				color.Yellow("No aside entries for this page.")
				return nil
			}
			printNodes(aside, 0)
			return nil
		},
	}

	root.AddCommand(validateCmd, showCmd, initCmd, navCmd, versionCmd)
	if err := root.Execute(); err != nil {
		log.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func printNodes(nodes []*nav.Node, depth int) {
	for _, n := range nodes {
		indent := strings.Repeat("  ", depth)
		if n.Page {
			fmt.Printf("%s- %s (%s)\n", indent, n.Title, n.Path)
		} else {
			color.New(color.FgHiWhite).Printf("%s+ %s\n", indent, n.Title)
		}
		printNodes(n.Children, depth+1)
	}
}

// validSummary is the success line of `docus validate`. Without a file only
// the defaults were checked.
func validSummary(path string, exists bool) string {
	if !exists {
		return fmt.Sprintf("✓ no config file at %s, the defaults are valid", path)
	}
	return fmt.Sprintf("✓ %s is valid", path)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
