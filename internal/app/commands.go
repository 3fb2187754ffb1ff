package app

// CommandPrefix prefixes every command name.
const CommandPrefix = "keymarks."

// promptPlaceholder is shown by prompt-driven commands.
const promptPlaceholder = "Single character, uppercase or lowercase."

// Command is a named action a host can bind to keys or menus.
type Command struct {
	Name string
	Run  func() error
}

// Commands returns every command, in a stable order:
//
//	keymarks.create_mark       prompt for a name, then create
//	keymarks.jump_to_mark      prompt for a name, then jump
//	keymarks.delete_mark       prompt for a name, then delete
//	keymarks.delete_all_marks  delete every mark
//	keymarks.mark_mode         arm the create gesture
//	keymarks.jump_mode         arm the jump gesture
//	keymarks.create_mark_<c>   create mark c, for every letter
//	keymarks.jump_to_mark_<c>  jump to mark c, for every letter
func (m *Marks) Commands() []Command {
	cmds := []Command{
		{CommandPrefix + "create_mark", func() error { return m.promptThen(m.CreateMark) }},
		{CommandPrefix + "jump_to_mark", func() error { return m.promptThen(m.JumpToMark) }},
		{CommandPrefix + "delete_mark", func() error { return m.promptThen(m.DeleteMark) }},
		{CommandPrefix + "delete_all_marks", func() error { m.DeleteAll(); return nil }},
		{CommandPrefix + "mark_mode", func() error { m.ArmCreate(); return nil }},
		{CommandPrefix + "jump_mode", func() error { m.ArmJump(); return nil }},
	}

	for _, c := range letters() {
		name := string(c)
		cmds = append(cmds,
			Command{CommandPrefix + "create_mark_" + name, func() error { return m.CreateMark(name) }},
			Command{CommandPrefix + "jump_to_mark_" + name, func() error { return m.JumpToMark(name) }},
		)
	}
	return cmds
}

// promptThen asks the editor for one key and runs fn with it. A dismissed
// prompt does nothing.
func (m *Marks) promptThen(fn func(string) error) error {
	p, ok := m.editor.(Prompter)
	if !ok {
		return NewOperationError("prompt", "", ErrNoPrompt)
	}
	r, ok := p.PromptKey(promptPlaceholder)
	if !ok {
		return nil
	}
	return fn(string(r))
}

// letters returns A-Z followed by a-z.
func letters() []rune {
	out := make([]rune, 0, 52)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, c)
	}
	for c := 'a'; c <= 'z'; c++ {
		out = append(out, c)
	}
	return out
}

// Run executes the command called name.
func (m *Marks) Run(name string) error {
	for _, c := range m.Commands() {
		if c.Name == name {
			return c.Run()
		}
	}
	return NewOperationError("run", name, ErrUnknownCommand)
}
