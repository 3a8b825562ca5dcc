package cmd

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/spf13/cobra"
)

// renderMarkdown writes the command reference as a Markdown document.
func renderMarkdown(entries []commandEntry, title string) string {
	if title == "" {
		title = "keytips"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s command reference\n\n", title)
	b.WriteString("Tap the activation modifier alone to show key tips, then type the keys in order. ")
	b.WriteString("Escape cancels, Backspace steps back one key.\n\n")
	b.WriteString("| Keys | Path | Description | Source |\n")
	b.WriteString("|------|------|-------------|--------|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			e.Keys, escapeCell(strings.Join(e.Path, " › ")), escapeCell(e.Description), e.Source)
	}

	var exprs []commandEntry
	for _, e := range entries {
		if e.Expr != "" {
			exprs = append(exprs, e)
		}
	}
	if len(exprs) > 0 {
		b.WriteString("\n## Expression commands\n\n")
		for _, e := range exprs {
			fmt.Fprintf(&b, "### %s\n\n```cel\n%s\n```\n\n", e.Keys, strings.TrimSpace(e.Expr))
		}
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// renderHTML converts the Markdown reference into a standalone page.
func renderHTML(md, title string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage | html.HrefTargetBlank,
		Title: title,
	})
	return string(markdown.ToHTML([]byte(md), p, renderer))
}

func newDocsCmd(_ *rootOptions) *cobra.Command {
	var asHTML bool
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Print a command reference (Markdown or HTML)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			entries, _, err := buildListing(cfg)
			if err != nil {
				return err
			}
			md := renderMarkdown(entries, cfg.App.About.Name)
			if asHTML {
				fmt.Fprint(cmd.OutOrStdout(), renderHTML(md, cfg.App.About.Name+" commands"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "render a standalone HTML page")
	return cmd
}
