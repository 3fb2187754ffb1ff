// Package config loads keymarks settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file
//  3. KEYMARKS_* environment variables
//
// A missing file is not an error. Unknown keys and invalid values are.
//
//	[marks]
//	upper_case_for_local = false
//	column_unit = "utf16"
//
//	[persistence]
//	path = "~/.local/state/keymarks/marks.json"
//	flush_delay = "250ms"
//
//	[pending]
//	timeout = "1s"
//
//	[logging]
//	level = "info"
//	format = "console"
package config
