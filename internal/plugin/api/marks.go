package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/keymarks/internal/mark"
)

// MarksProvider is the mark controller seen by plugins.
type MarksProvider interface {
	// CreateMark records a mark at the current cursor position.
	CreateMark(name string) error
	// JumpToMark moves the cursor to a mark.
	JumpToMark(name string) error
	// DeleteMark removes a mark.
	DeleteMark(name string) error
	// DeleteAll removes every mark.
	DeleteAll()
	// GetMark returns a mark reachable from the current buffer.
	GetMark(name string) (mark.Mark, error)
	// List returns the marks reachable from the current buffer.
	List() []mark.Entry
	// ListAll returns every mark of every buffer.
	ListAll() []mark.Entry
}

// MarksModule implements the ks.marks API module.
type MarksModule struct {
	marks MarksProvider
}

// NewMarksModule creates a new marks module.
func NewMarksModule(marks MarksProvider) *MarksModule {
	return &MarksModule{marks: marks}
}

// Name returns the module name.
func (m *MarksModule) Name() string {
	return "marks"
}

// RequiredCapability returns the capability required for this module.
func (m *MarksModule) RequiredCapability() Capability {
	return CapabilityMarks
}

// Register registers the module into the Lua state.
func (m *MarksModule) Register(L *lua.LState) error {
	mod := L.NewTable()

	L.SetField(mod, "create", L.NewFunction(m.create))
	L.SetField(mod, "jump", L.NewFunction(m.jump))
	L.SetField(mod, "delete", L.NewFunction(m.delete))
	L.SetField(mod, "get", L.NewFunction(m.get))
	L.SetField(mod, "list", L.NewFunction(m.list))
	L.SetField(mod, "list_all", L.NewFunction(m.listAll))
	L.SetField(mod, "clear", L.NewFunction(m.clear))

	L.SetGlobal("_ks_marks", mod)
	return nil
}

// create(name) -> true | nil, err
func (m *MarksModule) create(L *lua.LState) int {
	return m.result(L, m.marks.CreateMark(L.CheckString(1)))
}

// jump(name) -> true | nil, err
func (m *MarksModule) jump(L *lua.LState) int {
	return m.result(L, m.marks.JumpToMark(L.CheckString(1)))
}

// delete(name) -> true | nil, err
func (m *MarksModule) delete(L *lua.LState) int {
	return m.result(L, m.marks.DeleteMark(L.CheckString(1)))
}

// get(name) -> {line, column, buffer} | nil, err
func (m *MarksModule) get(L *lua.LState) int {
	mk, err := m.marks.GetMark(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}

	tbl := L.NewTable()
	L.SetField(tbl, "line", lua.LNumber(mk.Pos.Line))
	L.SetField(tbl, "column", lua.LNumber(mk.Pos.Column))
	L.SetField(tbl, "buffer", lua.LString(string(mk.Buffer)))
	L.Push(tbl)
	return 1
}

// list() -> {{name, scope, line, column, buffer}, ...}
// Globals come first, then locals of the current buffer.
func (m *MarksModule) list(L *lua.LState) int {
	L.Push(entriesTable(L, m.marks.List()))
	return 1
}

// list_all() -> {{name, scope, line, column, buffer}, ...}
// Globals by name, then locals of every buffer by buffer and name.
func (m *MarksModule) listAll(L *lua.LState) int {
	L.Push(entriesTable(L, m.marks.ListAll()))
	return 1
}

func entriesTable(L *lua.LState, entries []mark.Entry) *lua.LTable {
	tbl := L.CreateTable(len(entries), 0)
	for i, e := range entries {
		item := L.NewTable()
		L.SetField(item, "name", lua.LString(e.Display))
		L.SetField(item, "scope", lua.LString(e.Ref.Scope.String()))
		L.SetField(item, "line", lua.LNumber(e.Mark.Pos.Line))
		L.SetField(item, "column", lua.LNumber(e.Mark.Pos.Column))
		L.SetField(item, "buffer", lua.LString(string(e.Mark.Buffer)))
		tbl.RawSetInt(i+1, item)
	}
	return tbl
}

// clear() -> nil
func (m *MarksModule) clear(L *lua.LState) int {
	m.marks.DeleteAll()
	return 0
}

// result pushes true on success, or nil and the message on failure.
func (m *MarksModule) result(L *lua.LState, err error) int {
	if err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
