// Package tokenizer implements the YAML scanner.
//
// The scanner walks the source one rune at a time and produces a linked
// token list (see pkg/token). It never fails with an error value: a problem
// in the input becomes a token of InvalidType that carries the message, and
// scanning stops there.
package tokenizer

// Character classes used by the scanner.

func isBlank(r rune) bool {
	return r == ' ' || r == '\t'
}

func isBreak(r rune) bool {
	return r == '\n' || r == '\r'
}

// isBlankOrEnd treats 0 as end of input; peek returns 0 past the last rune.
func isBlankOrEnd(r rune) bool {
	return r == 0 || isBlank(r) || isBreak(r)
}

func isFlowIndicator(r rune) bool {
	switch r {
	case ',', '[', ']', '{', '}':
		return true
	}
	return false
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func hexValue(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return r - '0'
	case r >= 'a' && r <= 'f':
		return r - 'a' + 10
	default:
		return r - 'A' + 10
	}
}

func trimRightBlank(rs []rune, floor int) []rune {
	for len(rs) > floor && isBlank(rs[len(rs)-1]) {
		rs = rs[:len(rs)-1]
	}
	return rs
}
