package propernames

import (
	"math"
)

// Option keys as they appear in rule configuration.
const (
	OptionNames        = "names"
	OptionCodeBlocks   = "code_blocks"
	OptionHTMLElements = "html_elements"
	OptionHeadingID    = "heading_id"
)

// Options controls a check. The three booleans say whether the matching
// region is eligible: true means names are matched there.
type Options struct {
	// Names is the configured list of canonical names.
	Names []string

	// CodeBlocks enables matching inside code spans and code blocks.
	CodeBlocks bool

	// HTMLElements enables matching inside HTML elements.
	HTMLElements bool

	// HeadingID enables matching inside trailing {#id} heading fragments.
	HeadingID bool
}

// DefaultOptions returns Options with every region eligible and no names.
func DefaultOptions() Options {
	return Options{
		CodeBlocks:   true,
		HTMLElements: true,
		HeadingID:    true,
	}
}

// OptionsFromMap coerces loosely typed rule options into Options.
// A missing flag keeps its default of true; a present flag is converted by
// truthiness, so null, false, 0 and "" all disable it. A names value that is
// not a list yields no names, and non-string list items are skipped.
func OptionsFromMap(raw map[string]any) Options {
	opts := DefaultOptions()
	if raw == nil {
		return opts
	}

	opts.Names = namesFrom(raw[OptionNames])

	if v, ok := raw[OptionCodeBlocks]; ok {
		opts.CodeBlocks = Truthy(v)
	}
	if v, ok := raw[OptionHTMLElements]; ok {
		opts.HTMLElements = Truthy(v)
	}
	if v, ok := raw[OptionHeadingID]; ok {
		opts.HeadingID = Truthy(v)
	}

	return opts
}

// ToMap renders opts in the shape OptionsFromMap accepts.
func (o Options) ToMap() map[string]any {
	names := make([]any, 0, len(o.Names))
	for _, n := range o.Names {
		names = append(names, n)
	}
	return map[string]any{
		OptionNames:        names,
		OptionCodeBlocks:   o.CodeBlocks,
		OptionHTMLElements: o.HTMLElements,
		OptionHeadingID:    o.HeadingID,
	}
}

func namesFrom(v any) []string {
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		names := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	default:
		return nil
	}
}

// Truthy reports how an option flag of any type is read: null, false, zero
// and "" are false, everything else is true.
func Truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case uint64:
		return val != 0
	case float64:
		return val != 0 && !math.IsNaN(val)
	default:
		return true
	}
}
