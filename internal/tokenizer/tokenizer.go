package tokenizer

import (
	"io"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// Scanner turns YAML source text into a linked token list.
//
// Plain scalars are buffered rune by rune and flushed when an indicator,
// a comment or a less indented line ends them. Every other construct is
// scanned by a dedicated routine dispatched on its first character:
//
//	- ? :        block structure   (must be followed by a blank or end of input)
//	[ ] { } ,    flow collections  (',' only separates entries inside a flow)
//	| >          block scalars
//	' "          quoted scalars
//	! & *        tags, anchors, aliases
//	# %          comments, directives
//	@ `          reserved, always invalid
type Scanner struct {
	src    []rune
	idx    int
	line   int
	column int

	isFirstCharAtLine bool
	indentNum         int
	indentLevel       int
	indentState       IndentState
	indents           []int

	// lastDelimColumn is the column of the last block '-' or '?', or of the
	// key before the last block ':'. Lines starting beyond it continue the
	// current plain scalar.
	lastDelimColumn int
	flowSeqDepth    int
	flowMapDepth    int

	// originStart is where the Origin of the next emitted token begins.
	originStart int

	buf       []rune
	bufPos    *token.Position
	bufEnd    int
	bufBreaks int

	tokens  token.Tokens
	invalid bool
	done    bool
}

// Tokenize scans src in a single pass and returns all of its tokens.
// If the input contains an error, the last token is of InvalidType.
func Tokenize(src string) token.Tokens {
	var s Scanner
	s.Init(src)
	tokens, _ := s.Scan()
	return tokens
}

// Init prepares the scanner for src, discarding any previous state.
func (s *Scanner) Init(src string) {
	*s = Scanner{
		src:               []rune(src),
		line:              1,
		column:            1,
		isFirstCharAtLine: true,
		indents:           []int{0},
	}
}

// Scan returns the tokens of the whole input. The input is consumed by the
// first call; later calls return io.EOF.
func (s *Scanner) Scan() (token.Tokens, error) {
	if s.done {
		return nil, io.EOF
	}
	s.done = true
	s.scan()
	return s.tokens, nil
}

// IndentState reports the indentation state of the last scanned line.
func (s *Scanner) IndentState() IndentState {
	return s.indentState
}

func (s *Scanner) scan() {
	for s.idx < len(s.src) && !s.invalid {
		if s.isFirstCharAtLine {
			s.scanLineStart()
			continue
		}
		c := s.src[s.idx]
		switch c {
		case '\n', '\r':
			s.scanNewLine()
		case ' ', '\t':
			if len(s.buf) > 0 {
				s.buf = append(s.buf, c)
			}
			s.progress(1)
		case '#':
			if len(s.buf) == 0 || isBlank(s.peek(-1)) {
				s.flush()
				s.scanComment()
				continue
			}
			s.addBuf(c)
		case '-':
			if len(s.buf) == 0 && isBlankOrEnd(s.peek(1)) {
				s.scanBlockIndicator(token.SequenceEntry)
				continue
			}
			s.addBuf(c)
		case '?':
			if len(s.buf) == 0 && isBlankOrEnd(s.peek(1)) {
				s.scanBlockIndicator(token.MappingKey)
				continue
			}
			s.addBuf(c)
		case ':':
			if s.isMappingValue() {
				s.scanMappingValue()
				continue
			}
			s.addBuf(c)
		case '[', '{':
			if len(s.buf) == 0 || s.isFlow() {
				s.flush()
				s.scanFlowStart(c)
				continue
			}
			s.addBuf(c)
		case ']', '}':
			if len(s.buf) == 0 || s.isFlow() {
				s.flush()
				s.scanFlowEnd(c)
				continue
			}
			s.addBuf(c)
		case ',':
			if s.isFlow() {
				s.flush()
				s.scanCollectEntry()
				continue
			}
			s.addBuf(c)
		case '|', '>':
			if len(s.buf) == 0 && !s.isFlow() {
				s.scanBlockScalar(c)
				continue
			}
			s.addBuf(c)
		case '\'':
			if len(s.buf) == 0 {
				s.scanSingleQuote()
				continue
			}
			s.addBuf(c)
		case '"':
			if len(s.buf) == 0 {
				s.scanDoubleQuote()
				continue
			}
			s.addBuf(c)
		case '!':
			if len(s.buf) == 0 {
				s.scanTag()
				continue
			}
			s.addBuf(c)
		case '&', '*':
			if len(s.buf) == 0 {
				s.scanAnchorOrAlias(c)
				continue
			}
			s.addBuf(c)
		case '@', '`':
			if len(s.buf) == 0 {
				s.invalidToken("'"+string(c)+"' is a reserved character and cannot start any token", s.pos(), s.lineEnd())
				continue
			}
			s.addBuf(c)
		default:
			s.addBuf(c)
		}
	}
	if s.invalid {
		return
	}
	s.flush()
	if s.originStart < len(s.src) && len(s.tokens) > 0 {
		last := s.tokens[len(s.tokens)-1]
		last.Origin += string(s.src[s.originStart:])
		s.originStart = len(s.src)
	}
}

// scanLineStart consumes the indentation of a new line and decides whether
// the line continues a buffered plain scalar or starts new content.
func (s *Scanner) scanLineStart() {
	s.isFirstCharAtLine = false

	spaces := 0
	for s.peek(spaces) == ' ' {
		spaces++
	}
	ws := spaces
	for isBlank(s.peek(ws)) {
		ws++
	}
	first := s.peek(ws)
	blank := first == 0 || isBreak(first)

	if s.peek(spaces) == '\t' && !blank && first != '#' && !s.isFlow() {
		tabColumn := spaces + 1
		if s.lastDelimColumn == 0 || tabColumn <= s.lastDelimColumn {
			s.progress(spaces)
			msg := "found a tab character where an indentation space is expected"
			if s.lastDelimColumn == 0 {
				msg = "found character '\\t' that cannot start any token"
			}
			s.invalidToken(msg, s.pos(), s.lineEnd())
			return
		}
	}

	s.progress(ws)
	s.indentNum = spaces
	if blank || first == '#' {
		if first == '#' {
			s.flush()
		}
		return
	}

	if s.column == 1 {
		if s.isDocumentMarker("---") || s.isDocumentMarker("...") {
			s.flush()
			s.scanDocumentMarker()
			return
		}
		if first == '%' && !s.isFlow() {
			s.flush()
			s.scanDirective()
			return
		}
	}

	if len(s.buf) > 0 {
		if s.isFlow() || s.column > s.lastDelimColumn {
			s.foldBuf()
			s.indentState = IndentStateKeep
			return
		}
		s.flush()
	}
	s.updateIndent(s.column)
}

func (s *Scanner) scanNewLine() {
	if len(s.buf) > 0 {
		s.buf = trimRightBlank(s.buf, 0)
		s.bufBreaks++
	}
	s.advanceLine()
	s.isFirstCharAtLine = true
}

// advanceLine moves past one line break (LF, CRLF or a lone CR).
func (s *Scanner) advanceLine() {
	if s.peek(0) == '\r' && s.peek(1) == '\n' {
		s.idx++
	}
	s.idx++
	s.line++
	s.column = 1
}

// progress moves n runes forward on the current line.
func (s *Scanner) progress(n int) {
	s.idx += n
	s.column += n
}

// peek returns the rune at offset n from the cursor, or 0 outside the input.
func (s *Scanner) peek(n int) rune {
	i := s.idx + n
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

// lineEnd returns the index of the next line break or the end of input.
func (s *Scanner) lineEnd() int {
	i := s.idx
	for i < len(s.src) && !isBreak(s.src[i]) {
		i++
	}
	return i
}

func (s *Scanner) isFlow() bool {
	return s.flowSeqDepth > 0 || s.flowMapDepth > 0
}

func (s *Scanner) pos() *token.Position {
	return &token.Position{
		Line:        s.line,
		Column:      s.column,
		Offset:      s.idx + 1,
		IndentNum:   s.indentNum,
		IndentLevel: s.indentLevel,
	}
}

// origin returns the source text from the end of the previous token up to end.
func (s *Scanner) origin(end int) string {
	org := string(s.src[s.originStart:end])
	s.originStart = end
	return org
}

func (s *Scanner) emit(tk *token.Token) {
	s.tokens.Add(tk)
}

func (s *Scanner) lastToken() *token.Token {
	if len(s.tokens) == 0 {
		return nil
	}
	return s.tokens[len(s.tokens)-1]
}

func (s *Scanner) invalidToken(msg string, pos *token.Position, end int) {
	if end > len(s.src) {
		end = len(s.src)
	}
	if end < s.idx {
		end = s.idx
	}
	s.column += end - s.idx
	s.idx = end
	s.emit(token.Invalid(msg, s.origin(end), pos))
	s.invalid = true
}

func (s *Scanner) addBuf(c rune) {
	if len(s.buf) == 0 {
		s.bufPos = s.pos()
		s.bufBreaks = 0
	}
	s.buf = append(s.buf, c)
	s.progress(1)
	s.bufEnd = s.idx
}

// foldBuf joins a continuation line to the buffered plain scalar: a single
// line break becomes a space, and each further empty line a newline.
func (s *Scanner) foldBuf() {
	if s.bufBreaks <= 1 {
		s.buf = append(s.buf, ' ')
	} else {
		for i := 1; i < s.bufBreaks; i++ {
			s.buf = append(s.buf, '\n')
		}
	}
	s.bufBreaks = 0
}

func (s *Scanner) flush() {
	if len(s.buf) == 0 {
		return
	}
	value := string(trimRightBlank(s.buf, 0))
	org := s.origin(s.bufEnd)
	if value == "<<" {
		s.emit(token.MergeKey(org, s.bufPos))
	} else {
		s.emit(token.New(value, org, s.bufPos))
	}
	s.buf = s.buf[:0]
	s.bufBreaks = 0
}

func (s *Scanner) isDocumentMarker(marker string) bool {
	for i, r := range marker {
		if s.peek(i) != r {
			return false
		}
	}
	return isBlankOrEnd(s.peek(len(marker)))
}

func (s *Scanner) scanDocumentMarker() {
	pos := s.pos()
	header := s.peek(0) == '-'
	s.progress(3)
	if header {
		s.emit(token.DocumentHeader(s.origin(s.idx), pos))
	} else {
		s.emit(token.DocumentEnd(s.origin(s.idx), pos))
	}
	s.lastDelimColumn = 0
	s.flowSeqDepth = 0
	s.flowMapDepth = 0
	s.resetIndent()
}

func (s *Scanner) scanBlockIndicator(newToken func(string, *token.Position) *token.Token) {
	pos := s.pos()
	s.progress(1)
	s.emit(newToken(s.origin(s.idx), pos))
	if !s.isFlow() {
		s.lastDelimColumn = pos.Column
	}
}

// isMappingValue reports whether the ':' under the cursor is an indicator.
// Inside a flow it may also be adjacent to a flow indicator, or follow a
// quoted key or a flow collection directly ({"a":1}).
func (s *Scanner) isMappingValue() bool {
	next := s.peek(1)
	if isBlankOrEnd(next) {
		return true
	}
	if !s.isFlow() {
		return false
	}
	if isFlowIndicator(next) {
		return true
	}
	last := s.lastToken()
	if len(s.buf) > 0 || last == nil || s.originStart != s.idx {
		return false
	}
	switch last.Type {
	case token.SingleQuoteType, token.DoubleQuoteType, token.SequenceEndType, token.MappingEndType:
		return true
	}
	return false
}

func (s *Scanner) scanMappingValue() {
	if len(s.buf) > 0 && s.bufPos.Line != s.line && !s.isFlow() {
		s.invalidToken("could not find expected ':' before the end of the implicit key", s.bufPos, s.idx)
		return
	}
	s.flush()

	keyColumn := s.column
walk:
	for tk := s.lastToken(); tk != nil && tk.Position.Line == s.line; tk = tk.Prev {
		switch tk.Type {
		case token.SequenceEntryType, token.MappingKeyType, token.MappingValueType,
			token.CollectEntryType, token.SequenceStartType, token.MappingStartType:
			break walk
		}
		keyColumn = tk.Position.Column
	}

	pos := s.pos()
	s.progress(1)
	s.emit(token.MappingValue(s.origin(s.idx), pos))
	if !s.isFlow() {
		s.lastDelimColumn = keyColumn
	}
}

func (s *Scanner) scanFlowStart(c rune) {
	pos := s.pos()
	s.progress(1)
	if c == '[' {
		s.flowSeqDepth++
		s.emit(token.SequenceStart(s.origin(s.idx), pos))
		return
	}
	s.flowMapDepth++
	s.emit(token.MappingStart(s.origin(s.idx), pos))
}

func (s *Scanner) scanFlowEnd(c rune) {
	pos := s.pos()
	s.progress(1)
	if c == ']' {
		if s.flowSeqDepth > 0 {
			s.flowSeqDepth--
		}
		s.emit(token.SequenceEnd(s.origin(s.idx), pos))
		return
	}
	if s.flowMapDepth > 0 {
		s.flowMapDepth--
	}
	s.emit(token.MappingEnd(s.origin(s.idx), pos))
}

func (s *Scanner) scanCollectEntry() {
	pos := s.pos()
	s.progress(1)
	s.emit(token.CollectEntry(s.origin(s.idx), pos))
}

// scanComment consumes '#' up to the end of the line.
func (s *Scanner) scanComment() {
	pos := s.pos()
	end := s.lineEnd()
	value := string(s.src[s.idx+1 : end])
	s.progress(end - s.idx)
	s.emit(token.Comment(value, s.origin(s.idx), pos))
}

// scanTag consumes a tag such as !!str, !local or !<tag:example.com,2000:app>.
func (s *Scanner) scanTag() {
	pos := s.pos()
	n := 1
	for {
		r := s.peek(n)
		if isBlankOrEnd(r) || (s.isFlow() && isFlowIndicator(r)) {
			break
		}
		n++
	}
	value := string(s.src[s.idx : s.idx+n])
	s.progress(n)
	s.emit(token.Tag(value, s.origin(s.idx), pos))
}

// scanAnchorOrAlias emits the '&' or '*' indicator followed by the name as
// a String token.
func (s *Scanner) scanAnchorOrAlias(c rune) {
	pos := s.pos()
	s.progress(1)
	if c == '&' {
		s.emit(token.Anchor(s.origin(s.idx), pos))
	} else {
		s.emit(token.Alias(s.origin(s.idx), pos))
	}

	namePos := s.pos()
	n := 0
	for {
		r := s.peek(n)
		if isBlankOrEnd(r) || isFlowIndicator(r) {
			break
		}
		if r == ':' && (isBlankOrEnd(s.peek(n+1)) || (s.isFlow() && isFlowIndicator(s.peek(n+1)))) {
			break
		}
		n++
	}
	if n == 0 {
		kind := "anchor"
		if c == '*' {
			kind = "alias"
		}
		s.invalidToken("did not find expected "+kind+" name", namePos, s.idx)
		return
	}
	name := string(s.src[s.idx : s.idx+n])
	s.progress(n)
	s.emit(token.String(name, s.origin(s.idx), namePos))
}

// scanDirective emits '%' and then one String token per word on the line.
func (s *Scanner) scanDirective() {
	pos := s.pos()
	s.progress(1)
	s.emit(token.Directive(s.origin(s.idx), pos))
	for s.idx < len(s.src) {
		c := s.src[s.idx]
		switch {
		case isBreak(c):
			return
		case isBlank(c):
			s.progress(1)
		case c == '#':
			s.scanComment()
			return
		default:
			wordPos := s.pos()
			start := s.idx
			for s.idx < len(s.src) && !isBlankOrEnd(s.src[s.idx]) {
				s.progress(1)
			}
			s.emit(token.String(string(s.src[start:s.idx]), s.origin(s.idx), wordPos))
		}
	}
}
