package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/germanamz/tweak/pkg/tweak"
)

// runList prints every category with its modules, followed by the panel
// kinds and settings stores plugins can use. A non-empty category limits the
// output to that category. Broken modules show the error that replaced them.
func runList(w io.Writer, a *app, category string) error {
	cats := a.loader.Categories()
	if category != "" {
		tag, err := tweak.ParseCategory(category)
		if err != nil {
			return err
		}
		cats = []tweak.CategoryInfo{{Tag: tag, Label: tag.Label()}}
	}

	for _, cat := range cats {
		classes, err := a.loader.ModulesByCategory(cat.Tag)
		if err != nil {
			return err
		}
		if len(classes) == 0 {
			continue
		}

		fmt.Fprintf(w, "%s (%s)\n", cat.Label, cat.Tag)
		for i, c := range classes {
			branch := treeTee
			if i == len(classes)-1 {
				branch = treeCorner
			}
			fmt.Fprintf(w, "%s%s  %s\n", branch, c.Name, listDetail(c))
		}
	}

	if category != "" {
		return nil
	}
	if a.kinds != nil {
		fmt.Fprintf(w, "\nPanel kinds: %s\n", strings.Join(a.kinds.Names(), ", "))
	}
	if a.env.Settings != nil {
		fmt.Fprintf(w, "Settings stores: %s\n", strings.Join(a.env.Settings.Names(), ", "))
	}
	return nil
}

func listDetail(c tweak.Class) string {
	if c.Failure != nil {
		return "error: " + truncate(c.Failure.Error, 60)
	}
	parts := []string{c.Title}
	if c.Version != "" {
		parts = append(parts, "v"+c.Version)
	}
	return strings.Join(parts, " ")
}

// runShow prints a module's details as rendered markdown.
func runShow(w io.Writer, a *app, name string, width int) error {
	c, err := a.loader.Module(name)
	if err != nil {
		return err
	}
	origin, _ := a.loader.Origin(name)
	icon := tweak.ResolveIcon(c.Info, a.env.Dir)

	fmt.Fprintln(w, renderMarkdown(moduleMarkdown(c, origin, icon), width))
	return nil
}

// moduleMarkdown describes c as a markdown document.
func moduleMarkdown(c tweak.Class, origin string, icon tweak.Icon) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s %s\n\n", icon.Glyph, c.Title)
	if c.Description != "" {
		fmt.Fprintf(&sb, "%s\n\n", c.Description)
	}

	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Name | `%s` |\n", c.Name)
	fmt.Fprintf(&sb, "| Category | %s |\n", c.Category.Label())
	if origin != "" {
		fmt.Fprintf(&sb, "| Plugin | %s |\n", origin)
	}
	if c.Version != "" {
		fmt.Fprintf(&sb, "| Version | %s |\n", c.Version)
	}
	if c.Author != "" {
		fmt.Fprintf(&sb, "| Author | %s |\n", c.Author)
	}
	if icon.Path != "" {
		fmt.Fprintf(&sb, "| Icon | %s |\n", icon.Path)
	} else if len(c.Icon) > 0 {
		fmt.Fprintf(&sb, "| Icon | %s |\n", strings.Join(c.Icon, ", "))
	}
	if c.URL != "" {
		fmt.Fprintf(&sb, "\n[%s](%s)\n", c.URLLabel(), c.URL)
	}

	if c.Failure != nil {
		fmt.Fprintf(&sb, "\n## Error\n\n```\n%s\n```\n\nReport ID: `%s`\n", c.Failure.Error, c.Failure.ReportID)
		if hint := tweak.RemediationHint(c.Failure.Error); hint != "" {
			fmt.Fprintf(&sb, "\n```\n%s\n```\n", hint)
		}
	}

	return sb.String()
}
