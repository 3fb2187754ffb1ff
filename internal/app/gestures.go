package app

import (
	"github.com/dshills/keymarks/internal/input/pending"
)

// ArmCreate makes the next key typed name a new mark.
func (m *Marks) ArmCreate() {
	m.pending.Arm(pending.KindCreate, m.onGestureKey)
}

// ArmJump makes the next key typed name the mark to jump to.
func (m *Marks) ArmJump() {
	m.pending.Arm(pending.KindJump, m.onGestureKey)
}

// HandleKey offers a typed key to an armed gesture. It returns true if the
// key was consumed and must not reach the buffer.
func (m *Marks) HandleKey(r rune) bool {
	return m.pending.Key(r)
}

// CancelPending disarms a pending gesture. Hosts call it when the user does
// anything other than type a key.
func (m *Marks) CancelPending() bool {
	return m.pending.Cancel()
}

// PendingState reports whether a gesture is armed.
func (m *Marks) PendingState() (pending.State, pending.Kind) {
	return m.pending.State()
}

func (m *Marks) onGestureKey(kind pending.Kind, r rune) {
	var err error
	switch kind {
	case pending.KindCreate:
		err = m.CreateMark(string(r))
	case pending.KindJump:
		err = m.JumpToMark(string(r))
	}
	if err != nil {
		m.onError(err)
	}
}
