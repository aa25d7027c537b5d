// Package preset bundles ready-made operations that can be imported into an
// updater's registry next to the built-in kinds.
package preset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/javajack/sheetlive"
)

// Format writes the result of an expression over the cell value as text.
//
//	[settings.format]
//	C2 = { target = "home-score", expr = "value == '' ? '-' : value" }
//
// The expression sees "value" (the cell text) and "number" (the value as a
// float, or nil when it is not numeric).
func Format() sheetlive.Preset {
	ev := &evaluator{}
	return sheetlive.Preset{
		Name:   "format",
		Simple: false,
		Operation: func(c sheetlive.Call) error {
			desc, err := cast.ToStringMapStringE(c.Descriptor)
			if err != nil {
				return fmt.Errorf("format needs { target, expr }, got %T", c.Descriptor)
			}
			target, expression := desc["target"], desc["expr"]
			if target == "" || expression == "" {
				return fmt.Errorf("format needs both target and expr")
			}

			result, err := ev.evaluate(expression, cellEnv(c.Value))
			if err != nil {
				return err
			}
			return c.Surface.SetText(target, cast.ToString(result))
		},
	}
}

func cellEnv(value string) map[string]any {
	env := map[string]any{"value": value, "number": nil}
	if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		env["number"] = f
	}
	return env
}

// Toggle shows an element when the cell holds a true value (a ticked checkbox
// reads as "TRUE") and hides it otherwise.
func Toggle() sheetlive.Preset {
	return sheetlive.Preset{
		Name:   "toggle",
		Simple: true,
		Operation: func(c sheetlive.Call) error {
			id, ok := c.Descriptor.(string)
			if !ok {
				return fmt.Errorf("toggle needs an element id, got %T", c.Descriptor)
			}
			return c.Surface.SetVisible(id, truthy(c.Value))
		},
	}
}

func truthy(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "yes", "y", "on", "x", "✓":
		return true
	}
	b, err := cast.ToBoolE(v)
	return err == nil && b
}

// Constant writes a fixed text into every listed element, whatever the cell holds.
func Constant(name, text string) sheetlive.Preset {
	return sheetlive.Preset{
		Name:   name,
		Simple: true,
		Operation: func(c sheetlive.Call) error {
			id, ok := c.Descriptor.(string)
			if !ok {
				return fmt.Errorf("%s needs an element id, got %T", name, c.Descriptor)
			}
			return c.Surface.SetText(id, text)
		},
	}
}

var named = map[string]func() sheetlive.Preset{
	"format": Format,
	"toggle": Toggle,
}

// Lookup returns the preset registered under name.
func Lookup(name string) (sheetlive.Preset, bool) {
	fn, ok := named[name]
	if !ok {
		return sheetlive.Preset{}, false
	}
	return fn(), true
}

// Names lists the presets available to Lookup.
func Names() []string {
	names := make([]string, 0, len(named))
	for name := range named {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
