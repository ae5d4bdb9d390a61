package main

import (
	"strings"

	"github.com/germanamz/tweak/pkg/loader"
	"github.com/germanamz/tweak/pkg/tweak"
	"github.com/germanamz/tweak/pkg/tweakdir"
)

// navItem is a row of the navigation pane: a category header or a module.
type navItem struct {
	category tweak.CategoryInfo
	class    *tweak.Class
	glyph    string
}

func (it navItem) selectable() bool { return it.class != nil }

// navModel lists the categories that have modules, each followed by its
// modules.
type navModel struct {
	items  []navItem
	cursor int
	offset int
}

func newNav(l *loader.Loader, dir tweakdir.Dir) navModel {
	var n navModel
	for _, cat := range l.Categories() {
		classes, err := l.ModulesByCategory(cat.Tag)
		if err != nil || len(classes) == 0 {
			continue
		}
		n.items = append(n.items, navItem{category: cat})
		for i := range classes {
			n.items = append(n.items, navItem{
				category: cat,
				class:    &classes[i],
				glyph:    tweak.ResolveIcon(classes[i].Info, dir).Glyph,
			})
		}
	}
	n.cursor = -1
	n.move(1)
	return n
}

// selected returns the module under the cursor, or nil.
func (n *navModel) selected() *tweak.Class {
	if n.cursor < 0 || n.cursor >= len(n.items) {
		return nil
	}
	return n.items[n.cursor].class
}

// move steps the cursor to the next selectable row in direction step,
// staying put at either end.
func (n *navModel) move(step int) {
	for i := n.cursor + step; i >= 0 && i < len(n.items); i += step {
		if n.items[i].selectable() {
			n.cursor = i
			return
		}
	}
}

// selectModule puts the cursor on the named module and reports whether it
// is listed.
func (n *navModel) selectModule(name string) bool {
	for i, it := range n.items {
		if it.selectable() && it.class.Name == name {
			n.cursor = i
			return true
		}
	}
	return false
}

func (n *navModel) view(width, height int, active string) string {
	if len(n.items) == 0 {
		return dimStyle.Render(truncate("No modules", width))
	}

	if height > 0 {
		if n.cursor < n.offset {
			n.offset = n.cursor
		}
		if n.cursor >= n.offset+height {
			n.offset = n.cursor - height + 1
		}
	}

	end := len(n.items)
	if height > 0 && n.offset+height < end {
		end = n.offset + height
	}

	lines := make([]string, 0, end-n.offset)
	for i := n.offset; i < end; i++ {
		it := n.items[i]
		if !it.selectable() {
			st := categoryStyle
			if it.category.Tag == tweak.CategoryBroken {
				st = brokenCategoryStyle
			}
			lines = append(lines, st.Render(truncate(it.category.Label, width)))
			continue
		}

		text := truncate(it.glyph+" "+it.class.Title, width-1)
		switch {
		case i == n.cursor:
			lines = append(lines, cursorStyle.Render(text))
		case it.class.Name == active:
			lines = append(lines, activeModuleStyle.Render(text))
		default:
			lines = append(lines, moduleStyle.Render(text))
		}
	}
	return strings.Join(lines, "\n")
}
