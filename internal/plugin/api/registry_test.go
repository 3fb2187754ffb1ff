package api

import (
	"testing"

	lua "github.com/yuin/gopher-lua"
)

// mockModule is a simple test module.
type mockModule struct {
	name       string
	capability Capability
	registered bool
}

func (m *mockModule) Name() string                   { return m.name }
func (m *mockModule) RequiredCapability() Capability { return m.capability }
func (m *mockModule) Register(L *lua.LState) error {
	m.registered = true
	mod := L.NewTable()
	L.SetField(mod, "test", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("mock"))
		return 1
	}))
	L.SetGlobal("_ks_"+m.name, mod)
	return nil
}

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()

	mod := &mockModule{name: "test"}
	if err := r.Register(mod); err != nil {
		t.Errorf("Register error = %v", err)
	}

	// Duplicate registration should fail
	if err := r.Register(mod); err == nil {
		t.Error("duplicate Register should return error")
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	mod := &mockModule{name: "test"}
	_ = r.Register(mod)

	got, ok := r.Get("test")
	if !ok {
		t.Error("Get returned ok = false")
	}
	if got != mod {
		t.Error("Get returned wrong module")
	}

	if _, ok := r.Get("nonexistent"); ok {
		t.Error("Get for nonexistent should return ok = false")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockModule{name: "mod2"})
	_ = r.Register(&mockModule{name: "mod1"})

	names := r.List()
	if len(names) != 2 || names[0] != "mod1" || names[1] != "mod2" {
		t.Errorf("List() = %v, want [mod1 mod2]", names)
	}
}

func TestRegistryInjectAll(t *testing.T) {
	r := NewRegistry()
	open := &mockModule{name: "open"}
	guarded := &mockModule{name: "guarded", capability: CapabilityMarks}
	_ = r.Register(open)
	_ = r.Register(guarded)

	L := lua.NewState()
	defer L.Close()

	if err := r.InjectAll(L, nil); err != nil {
		t.Fatalf("InjectAll error = %v", err)
	}
	if !open.registered {
		t.Error("module without capability should be injected")
	}
	if guarded.registered {
		t.Error("module requiring a capability should be skipped without a checker")
	}

	err := L.DoString(`
		local ks = require("ks")
		result = ks.open.test()
		has_guarded = ks.guarded ~= nil
		version = ks.api_version
	`)
	if err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if L.GetGlobal("result").String() != "mock" {
		t.Errorf("ks.open.test() = %v, want mock", L.GetGlobal("result"))
	}
	if L.GetGlobal("has_guarded") != lua.LFalse {
		t.Error("ks.guarded should be absent")
	}
	if L.GetGlobal("version").(lua.LNumber) != 1 {
		t.Errorf("api_version = %v, want 1", L.GetGlobal("version"))
	}
	if L.GetGlobal("_ks_open") != lua.LNil {
		t.Error("internal global should be removed")
	}
}

func TestRegistryInjectAllWithGrants(t *testing.T) {
	r := NewRegistry()
	guarded := &mockModule{name: "guarded", capability: CapabilityMarks}
	_ = r.Register(guarded)

	L := lua.NewState()
	defer L.Close()

	if err := r.InjectAll(L, Grants{CapabilityMarks: true}); err != nil {
		t.Fatalf("InjectAll error = %v", err)
	}
	if !guarded.registered {
		t.Error("granted module should be injected")
	}
}

func TestRegistryInject(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockModule{name: "guarded", capability: CapabilityMarks})

	L := lua.NewState()
	defer L.Close()

	if err := r.Inject(L, nil, "guarded"); err == nil {
		t.Error("Inject without checker should fail for guarded module")
	}
	if err := r.Inject(L, Grants{}, "guarded"); err == nil {
		t.Error("Inject without grant should fail")
	}
	if err := r.Inject(L, Grants{CapabilityMarks: true}, "guarded"); err != nil {
		t.Errorf("Inject with grant error = %v", err)
	}
	if err := r.Inject(L, nil, "missing"); err == nil {
		t.Error("Inject of unknown module should fail")
	}
}

func TestMarksModuleThroughRegistry(t *testing.T) {
	marks := newMockMarksProvider()
	r := NewRegistry()
	if err := r.Register(NewMarksModule(marks)); err != nil {
		t.Fatal(err)
	}

	L := lua.NewState()
	defer L.Close()
	if err := r.InjectAll(L, Grants{CapabilityMarks: true}); err != nil {
		t.Fatal(err)
	}

	if err := L.DoString(`
		local ks = require("ks")
		ks.marks.create("m")
	`); err != nil {
		t.Fatalf("DoString error = %v", err)
	}
	if marks.store.Len() != 1 {
		t.Errorf("expected 1 mark, got %d", marks.store.Len())
	}
}
