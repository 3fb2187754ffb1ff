package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// Capability names a permission a plugin must hold to use a module.
type Capability string

// Capabilities.
const (
	// CapabilityMarks allows reading and changing marks.
	CapabilityMarks Capability = "marks"
)

// CapabilityChecker reports the capabilities granted to one plugin.
type CapabilityChecker interface {
	HasCapability(c Capability) bool
}

// Grants is a fixed set of capabilities.
type Grants map[Capability]bool

// HasCapability reports whether c is granted.
func (g Grants) HasCapability(c Capability) bool {
	return g[c]
}

// Module represents a Lua API module that can be registered with the plugin system.
type Module interface {
	// Name returns the module name (e.g., "marks").
	Name() string

	// RequiredCapability returns the capability required to use this module.
	// Returns empty string if no capability is required.
	RequiredCapability() Capability

	// Register registers the module functions into the Lua state.
	// The module should register itself under _ks_<name> global.
	Register(L *lua.LState) error
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates a new API registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]Module),
	}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}

	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	mod, ok := r.modules[name]
	return mod, ok
}

// List returns all registered module names, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every permitted module into the Lua state and installs
// the "ks" module. If checker is nil, only modules with no required
// capability are injected.
func (r *Registry) InjectAll(L *lua.LState, checker CapabilityChecker) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := r.namesLocked()
	for _, name := range names {
		mod := r.modules[name]
		if reqCap := mod.RequiredCapability(); reqCap != "" {
			if checker == nil || !checker.HasCapability(reqCap) {
				continue
			}
		}

		if err := mod.Register(L); err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
	}

	installKSLoader(L, names)
	return nil
}

// Inject registers specific modules into the Lua state. Unlike InjectAll, it
// fails if a module requires a capability the checker doesn't grant.
func (r *Registry) Inject(L *lua.LState, checker CapabilityChecker, moduleNames ...string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, name := range moduleNames {
		mod, ok := r.modules[name]
		if !ok {
			return fmt.Errorf("module %q not found", name)
		}

		if reqCap := mod.RequiredCapability(); reqCap != "" {
			if checker == nil || !checker.HasCapability(reqCap) {
				return fmt.Errorf("plugin lacks capability %q for module %q", reqCap, name)
			}
		}

		if err := mod.Register(L); err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
	}

	return nil
}

// installKSLoader moves the _ks_<name> globals into a "ks" table that
// plugins load with require("ks").
func installKSLoader(L *lua.LState, names []string) {
	ksModule := L.NewTable()

	for _, name := range names {
		globalName := "_ks_" + name
		val := L.GetGlobal(globalName)
		if val != lua.LNil {
			L.SetField(ksModule, name, val)
			L.SetGlobal(globalName, lua.LNil)
		}
	}

	L.SetField(ksModule, "api_version", lua.LNumber(1))

	L.PreloadModule("ks", func(L *lua.LState) int {
		L.Push(ksModule)
		return 1
	})
}
