package sheetlive

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Built-in operation kinds.
const (
	KindString  = "string"
	KindImage   = "image"
	KindCounter = "counter"
	KindSwitch  = "switch"
)

// opString writes the cell value as the element's text.
func opString(c Call) error {
	id, err := elementID(c.Descriptor)
	if err != nil {
		return err
	}
	return warnMissing(c, id, c.Surface.SetText(id, c.Value))
}

// opImage writes the cell value as the element's image source.
func opImage(c Call) error {
	id, err := elementID(c.Descriptor)
	if err != nil {
		return err
	}
	return warnMissing(c, id, c.Surface.SetImage(id, c.Value))
}

// opCounter shows the first n elements of a list and hides the rest,
// where n is the cell value read as a non-negative integer.
func opCounter(c Call) error {
	ids, err := cast.ToStringSliceE(c.Descriptor)
	if err != nil {
		return fmt.Errorf("counter needs a list of element ids, got %T", c.Descriptor)
	}

	n := ParseCount(c.Value)
	if n < 0 {
		c.Log.WithField("value", c.Value).Warn("counter value is not a number, defaulting to 0")
		n = 0
	}

	for i, id := range ids {
		if err := warnMissing(c, id, c.Surface.SetVisible(id, i < n)); err != nil {
			return err
		}
	}
	return nil
}

// opSwitch shows exactly the element whose key equals the cell value and hides the others.
func opSwitch(c Call) error {
	table, err := cast.ToStringMapStringE(c.Descriptor)
	if err != nil {
		return fmt.Errorf("switch needs a table of value = element id, got %T", c.Descriptor)
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Several keys may name the same element, so the shown id is chosen first
	// and only ids that differ from it are hidden.
	shown, matched := table[c.Value]
	for _, k := range keys {
		id := table[k]
		if matched && id == shown {
			continue
		}
		if err := warnMissing(c, id, c.Surface.SetVisible(id, false)); err != nil {
			return err
		}
	}
	if !matched {
		c.Log.WithField("value", c.Value).Warn("switch hid every element: no key matches the cell value")
		return nil
	}
	return warnMissing(c, shown, c.Surface.SetVisible(shown, true))
}

// ParseCount reads a counter cell. Empty cells count as 0; values that are not
// numbers, including "Inf" and "NaN", return -1 so the caller can report them.
// Fractions are truncated. Only the whole value is read: "3 up" is not a number.
func ParseCount(value string) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	f, err := cast.ToFloat64E(value)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return -1
	}
	switch {
	case f <= 0:
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

func elementID(desc any) (string, error) {
	id, ok := desc.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("descriptor must be an element id, got %T", desc)
	}
	return id, nil
}

// warnMissing turns ErrElementNotFound into a warning so one absent element
// never fails the entry.
func warnMissing(c Call, id string, err error) error {
	if errors.Is(err, ErrElementNotFound) {
		c.Log.WithField("target", id).Warn("display element not found")
		return nil
	}
	return err
}
