// Package rules provides the built-in lint rules for mdnames.
//
//   - MD044: proper-names (alias enhanced-proper-names) - Proper names
//     should have the correct capitalization. Options:
//
//   - names: list of canonical spellings
//
//   - code_blocks: check code blocks and code spans (default true)
//
//   - html_elements: check inline and block HTML (default true)
//
//   - heading_id: check {#id} heading fragments (default true)
//
// Rules register themselves with lint.DefaultRegistry in init.
package rules
