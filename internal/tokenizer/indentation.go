package tokenizer

// IndentState describes how the first non-space character of a line
// relates to the indentation of the previous content line.
type IndentState int

const (
	// IndentStateEqual means the line starts at the current indentation.
	IndentStateEqual IndentState = iota
	// IndentStateUp means the line is indented deeper than before.
	IndentStateUp
	// IndentStateDown means the line closes one or more indentation levels.
	IndentStateDown
	// IndentStateKeep means the line continues the previous scalar and
	// leaves the indentation untouched.
	IndentStateKeep
)

func (s IndentState) String() string {
	switch s {
	case IndentStateEqual:
		return "Equal"
	case IndentStateUp:
		return "Up"
	case IndentStateDown:
		return "Down"
	case IndentStateKeep:
		return "Keep"
	}
	return ""
}

// updateIndent maintains the indentation stack for a new content line
// whose first character is at column. The stack holds indentation widths
// [0, 2, 4, ...]; its depth is the indent level reported on positions.
//
// Example:
//
//	parent:          width 0, level 0, Equal
//	  child:         width 2, level 1, Up
//	    - item       width 4, level 2, Up
//	other: value     width 0, level 0, Down
func (s *Scanner) updateIndent(column int) {
	if s.isFlow() {
		s.indentState = IndentStateKeep
		return
	}
	width := column - 1
	top := s.indents[len(s.indents)-1]
	switch {
	case width > top:
		s.indents = append(s.indents, width)
		s.indentState = IndentStateUp
	case width == top:
		s.indentState = IndentStateEqual
	default:
		for len(s.indents) > 1 && s.indents[len(s.indents)-1] > width {
			s.indents = s.indents[:len(s.indents)-1]
		}
		// A dedent that lands between two recorded widths opens a new level.
		if s.indents[len(s.indents)-1] < width {
			s.indents = append(s.indents, width)
		}
		s.indentState = IndentStateDown
	}
	s.indentLevel = len(s.indents) - 1
}

func (s *Scanner) resetIndent() {
	s.indents = s.indents[:1]
	s.indentLevel = 0
	s.indentState = IndentStateEqual
}

// blockParentIndent returns the indentation of the node that owns a block
// scalar header, derived from the last ':' key column or '-' column.
// -1 means the scalar is at the top level of a document.
func (s *Scanner) blockParentIndent() int {
	if s.lastDelimColumn == 0 {
		return -1
	}
	return s.lastDelimColumn - 1
}
