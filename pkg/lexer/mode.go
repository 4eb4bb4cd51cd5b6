package lexer

// Mode selects which token rules are active.
type Mode int

const (
	ModeDefault Mode = iota
	ModePragma
	ModeAssemblyBlock
	ModeLowLevel
)

func (m Mode) String() string {
	switch m {
	case ModeDefault:
		return "default"
	case ModePragma:
		return "pragma"
	case ModeAssemblyBlock:
		return "assembly"
	case ModeLowLevel:
		return "lowlevel"
	}
	return "unknown"
}

// modeStack is the tokenizer's stack of modes. The bottom frame is always
// ModeDefault and is never popped.
type modeStack []Mode

func newModeStack() modeStack {
	return modeStack{ModeDefault}
}

func (s modeStack) top() Mode {
	return s[len(s)-1]
}

func (s *modeStack) push(m Mode) {
	*s = append(*s, m)
}

// pop removes the top frame. It refuses to remove the sentinel.
func (s *modeStack) pop() bool {
	if len(*s) <= 1 {
		return false
	}
	*s = (*s)[:len(*s)-1]
	return true
}

// replace swaps the top frame for m.
func (s *modeStack) replace(m Mode) {
	(*s)[len(*s)-1] = m
}
