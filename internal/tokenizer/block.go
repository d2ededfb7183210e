package tokenizer

import (
	"strings"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// blockLine is one source line of a block scalar body with the content
// indentation removed.
type blockLine struct {
	text     string
	empty    bool
	hasBreak bool
}

// scanBlockScalar scans a literal (|) or folded (>) block scalar.
//
// Grammar:
//
//	BlockHeader = ( "|" | ">" ) [ Chomping ] [ Indent ] [ Comment ] LineBreak
//	            | ( "|" | ">" ) [ Indent ] [ Chomping ] [ Comment ] LineBreak ;
//	Chomping    = "-" | "+" ;
//	Indent      = "1" ... "9" ;
//
// The header is emitted as a Literal or Folded token, an optional comment
// follows, and the body is emitted as one String token holding the final
// value. The body always exists, even when it is empty.
func (s *Scanner) scanBlockScalar(c rune) {
	pos := s.pos()
	var chomp rune
	indent := 0
	n := 1
	for {
		r := s.peek(n)
		if (r == '-' || r == '+') && chomp == 0 {
			chomp = r
		} else if r >= '1' && r <= '9' && indent == 0 {
			indent = int(r - '0')
		} else {
			break
		}
		n++
	}
	ws := n
	for isBlank(s.peek(ws)) {
		ws++
	}
	if next := s.peek(ws); next != 0 && !isBreak(next) && (next != '#' || ws == n) {
		s.invalidToken("invalid header option for block scalar", pos, s.lineEnd())
		return
	}

	header := string(s.src[s.idx : s.idx+n])
	s.progress(n)
	if c == '|' {
		s.emit(token.Literal(header, s.origin(s.idx), pos))
	} else {
		s.emit(token.Folded(header, s.origin(s.idx), pos))
	}
	s.progress(ws - n)
	if s.peek(0) == '#' {
		s.scanComment()
	}
	s.scanBlockBody(c == '|', chomp, indent, pos.Line)
}

func (s *Scanner) scanBlockBody(literal bool, chomp rune, indent, headerLine int) {
	parent := s.blockParentIndent()
	contentIndent := -1
	if indent > 0 {
		contentIndent = max(parent, 0) + indent
	}
	bodyPos := &token.Position{Line: headerLine + 1, Column: 1, Offset: s.idx + 1, IndentNum: s.indentNum, IndentLevel: s.indentLevel}
	if s.idx < len(s.src) {
		s.advanceLine()
	}

	var lines []blockLine
	found := false
	for s.idx < len(s.src) {
		lineStart := s.idx
		spaces := 0
		for s.peek(spaces) == ' ' {
			spaces++
		}
		end := s.lineEnd()
		rest := s.src[lineStart+spaces : end]
		empty := strings.TrimLeft(string(rest), " \t") == ""

		if !empty {
			if spaces == 0 && (s.isDocumentMarker("---") || s.isDocumentMarker("...")) {
				break
			}
			if contentIndent < 0 {
				if spaces <= parent {
					break
				}
				contentIndent = spaces
			}
			if spaces < contentIndent {
				break
			}
		}

		var line blockLine
		if !empty || (contentIndent >= 0 && spaces > contentIndent) {
			// spaces beyond the content indentation are content too
			line.text = string(s.src[lineStart+contentIndent : end])
		} else {
			line.empty = true
		}
		if !line.empty && !found {
			found = true
			bodyPos = &token.Position{
				Line:        s.line,
				Column:      contentIndent + 1,
				Offset:      lineStart + contentIndent + 1,
				IndentNum:   spaces,
				IndentLevel: s.indentLevel,
			}
		}

		s.progress(end - s.idx)
		if s.idx < len(s.src) {
			s.advanceLine()
			line.hasBreak = true
		}
		lines = append(lines, line)
	}
	if s.idx < len(s.src) {
		s.isFirstCharAtLine = true
	}

	value := blockValue(lines, literal, chomp)
	s.emit(token.String(value, s.origin(s.idx), bodyPos))
}

// blockValue joins body lines and applies chomping.
//
// Literal scalars keep every line break. Folded scalars turn a single
// break between two normal lines into a space; empty lines and lines
// indented beyond the content indentation keep their breaks.
//
// Chomping decides the trailing breaks: clip (default) keeps one, strip
// (-) keeps none, keep (+) keeps them all.
func blockValue(lines []blockLine, literal bool, chomp rune) string {
	last := -1
	for i, l := range lines {
		if !l.empty {
			last = i
		}
	}

	var b strings.Builder
	if literal {
		for i := 0; i <= last; i++ {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(lines[i].text)
		}
	} else {
		foldLines(&b, lines[:last+1])
	}

	trailing := 0
	from := last
	if from < 0 {
		from = 0
	}
	for _, l := range lines[from:] {
		if l.hasBreak {
			trailing++
		}
	}

	switch chomp {
	case '-':
	case '+':
		b.WriteString(strings.Repeat("\n", trailing))
	default:
		if last >= 0 && trailing > 0 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func foldLines(b *strings.Builder, lines []blockLine) {
	first := true
	prevNormal := false
	pendingEmpty := 0
	for _, l := range lines {
		if l.empty {
			pendingEmpty++
			continue
		}
		normal := l.text == "" || !isBlank(rune(l.text[0]))
		switch {
		case first:
			b.WriteString(strings.Repeat("\n", pendingEmpty))
		case prevNormal && normal && pendingEmpty == 0:
			b.WriteByte(' ')
		case prevNormal && normal:
			b.WriteString(strings.Repeat("\n", pendingEmpty))
		default:
			b.WriteString(strings.Repeat("\n", pendingEmpty+1))
		}
		b.WriteString(l.text)
		first = false
		prevNormal = normal
		pendingEmpty = 0
	}
}
