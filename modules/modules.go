// Package modules lists the tweak modules compiled into the application.
package modules

import (
	"github.com/germanamz/tweak/modules/autostart"
	"github.com/germanamz/tweak/modules/computer"
	"github.com/germanamz/tweak/pkg/tweak"
)

// Builtin is a compiled-in plugin.
type Builtin struct {
	Origin string
	Source tweak.Source
}

// Builtins returns the compiled-in plugins in load order.
func Builtins() []Builtin {
	return []Builtin{
		{Origin: "computer", Source: computer.Source},
		{Origin: "autostart", Source: autostart.Source},
	}
}
