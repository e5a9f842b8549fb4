// Package ui styles the CLI output of faustok with [lipgloss].
//
// [Palette] holds the named styles; the package-level helpers ([Title], [OK],
// [Err], [Warn], [Hint]) use the default palette.
package ui
