// Package api provides the Lua API modules exposed to plugins.
//
// Plugins reach host functionality through the "ks" namespace:
//
//	local ks = require("ks")
//	ks.marks.create("a")
//	for _, m in ipairs(ks.marks.list()) do
//	    print(m.name, m.scope, m.line, m.column, m.buffer)
//	end
//
// Each module implements Module and declares the capability a plugin needs
// to see it. The Registry injects only the modules a plugin is allowed to
// use, then aggregates them into the "ks" table.
//
// Positions are zero-based, exactly as the host reports them.
package api
