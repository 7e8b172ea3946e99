package rules

import "github.com/yaklabco/mdnames/pkg/lint"

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// The markdownlint rule name and the plugin name both resolve
	// to MD044.
	registry.Register(NewProperNamesRule(), "enhanced-proper-names") // MD044
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
}
