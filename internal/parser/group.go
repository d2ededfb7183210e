package parser

import (
	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

type tokenGroupType int

const (
	groupNone tokenGroupType = iota
	groupAnchor
	groupAnchorName
	groupAlias
	groupLiteral
	groupFolded
	groupScalarTag
	groupExplicitKey
	groupMapKey
	groupMapKeyValue
	groupDirective
	groupDocument
)

func (t tokenGroupType) String() string {
	switch t {
	case groupNone:
		return "none"
	case groupAnchor:
		return "anchor"
	case groupAnchorName:
		return "anchorName"
	case groupAlias:
		return "alias"
	case groupLiteral:
		return "literal"
	case groupFolded:
		return "folded"
	case groupScalarTag:
		return "scalarTag"
	case groupExplicitKey:
		return "explicitKey"
	case groupMapKey:
		return "mapKey"
	case groupMapKeyValue:
		return "mapKeyValue"
	case groupDirective:
		return "directive"
	case groupDocument:
		return "document"
	}
	return ""
}

// tkn is an element of the grouped token list: either a scanner token or
// a group of elements that the parser consumes as one unit.
type tkn struct {
	raw         *token.Token
	group       *tokenGroup
	lineComment *token.Token
}

type tokenGroup struct {
	typ    tokenGroupType
	tokens []*tkn
}

func newGroup(typ tokenGroupType, tokens ...*tkn) *tkn {
	t := &tkn{group: &tokenGroup{typ: typ, tokens: tokens}}
	if typ == groupLiteral || typ == groupFolded {
		// the header comment stays on the header token and is rendered by
		// the block scalar itself
		return t
	}
	for _, member := range tokens {
		if member.lineComment != nil {
			t.lineComment = member.lineComment
		}
	}
	return t
}

// first returns the first scanner token of t.
func (t *tkn) first() *token.Token {
	if t.group != nil {
		return t.group.tokens[0].first()
	}
	return t.raw
}

// last returns the last scanner token of t.
func (t *tkn) last() *token.Token {
	if t.group != nil {
		return t.group.tokens[len(t.group.tokens)-1].last()
	}
	return t.raw
}

// rawType returns the token type of a scanner token, or UnknownType for groups.
func (t *tkn) rawType() token.Type {
	if t.group != nil {
		return token.UnknownType
	}
	return t.raw.Type
}

func (t *tkn) groupType() tokenGroupType {
	if t.group == nil {
		return groupNone
	}
	return t.group.typ
}

func (t *tkn) line() int   { return t.first().Position.Line }
func (t *tkn) column() int { return t.first().Position.Column }

// endLine is the line of the last scanner token of t.
func (t *tkn) endLine() int { return t.last().Position.Line }

func (t *tkn) isRawScalar() bool {
	if t.group != nil {
		return false
	}
	return t.raw.Type.IsScalar() || t.raw.Type == token.MergeKeyType
}

// isScalarValue reports whether t is a complete value written on one line:
// a scalar, an alias, or a scalar carrying an anchor and/or a tag.
func (t *tkn) isScalarValue() bool {
	if t.isRawScalar() {
		return true
	}
	switch t.groupType() {
	case groupAnchor, groupAlias, groupScalarTag:
		return true
	}
	return false
}

func (t *tkn) isBlockScalar() bool {
	typ := t.groupType()
	return typ == groupLiteral || typ == groupFolded
}

// createGroupedTokens folds the scanner output into groups. The passes run
// in a fixed order because later passes match the groups of earlier ones.
func createGroupedTokens(tokens token.Tokens, keepComments bool) []*tkn {
	list := make([]*tkn, 0, len(tokens))
	for _, tk := range tokens {
		if tk.Type == token.CommentType && !keepComments {
			continue
		}
		list = append(list, &tkn{raw: tk})
	}
	list = createLineCommentTokens(list)
	list = createLiteralAndFoldedTokenGroups(list)
	list = createAnchorAndAliasTokenGroups(list)
	list = createScalarTagTokenGroups(list)
	list = createAnchorWithScalarTagTokenGroups(list)
	list = createExplicitKeyTokenGroups(list)
	list = createMapKeyTokenGroups(list)
	list = createMapKeyValueTokenGroups(list)
	list = createDirectiveTokenGroups(list)
	return list
}

func sameLine(a, b *tkn) bool {
	return a.endLine() == b.line()
}

// createLineCommentTokens moves a comment that follows another token on
// the same line onto that token.
func createLineCommentTokens(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for _, t := range list {
		if t.rawType() == token.CommentType && len(out) > 0 {
			prev := out[len(out)-1]
			if prev.rawType() != token.CommentType && sameLine(prev, t) {
				prev.lineComment = t.raw
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// createLiteralAndFoldedTokenGroups joins a block scalar header and its body.
func createLiteralAndFoldedTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		typ := t.rawType()
		if (typ == token.LiteralType || typ == token.FoldedType) && i+1 < len(list) && list[i+1].rawType() == token.StringType {
			groupTyp := groupLiteral
			if typ == token.FoldedType {
				groupTyp = groupFolded
			}
			out = append(out, newGroup(groupTyp, t, list[i+1]))
			i++
			continue
		}
		out = append(out, t)
	}
	return out
}

// createAnchorAndAliasTokenGroups joins '&' and '*' with their names. An
// anchor name directly followed by a scalar on the same line takes it as
// its value:
//
//	&a          => anchorName(&, a)
//	&a value    => anchor(anchorName(&, a), value)
//	*a          => alias(*, a)
func createAnchorAndAliasTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		switch t.rawType() {
		case token.AnchorType:
			if i+1 >= len(list) || list[i+1].rawType() != token.StringType {
				break
			}
			name := newGroup(groupAnchorName, t, list[i+1])
			i++
			if i+1 < len(list) && sameLine(name, list[i+1]) && (list[i+1].isRawScalar() || list[i+1].isBlockScalar()) {
				out = append(out, newGroup(groupAnchor, name, list[i+1]))
				i++
				continue
			}
			out = append(out, name)
			continue
		case token.AliasType:
			if i+1 >= len(list) || list[i+1].rawType() != token.StringType {
				break
			}
			out = append(out, newGroup(groupAlias, t, list[i+1]))
			i++
			continue
		}
		out = append(out, t)
	}
	return out
}

// createScalarTagTokenGroups joins a scalar tag with the scalar after it
// on the same line. Collection tags and tags in front of a flow collection
// are left for the parser.
func createScalarTagTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		if t.rawType() == token.TagType && !token.IsCollectionTag(t.raw.Value) && i+1 < len(list) {
			next := list[i+1]
			if sameLine(t, next) && (next.isRawScalar() || next.isBlockScalar()) {
				out = append(out, newGroup(groupScalarTag, t, next))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// createAnchorWithScalarTagTokenGroups joins "&a !!str value".
func createAnchorWithScalarTagTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		if t.groupType() == groupAnchorName && i+1 < len(list) {
			next := list[i+1]
			if next.groupType() == groupScalarTag && sameLine(t, next) {
				out = append(out, newGroup(groupAnchor, t, next))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// createExplicitKeyTokenGroups joins '?' with a key written on the same line.
func createExplicitKeyTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		if t.rawType() == token.MappingKeyType && i+1 < len(list) {
			next := list[i+1]
			if sameLine(t, next) && next.isScalarValue() {
				out = append(out, newGroup(groupExplicitKey, t, next))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// createMapKeyTokenGroups joins a key with the ':' after it.
//
//	key:        => mapKey(key, :)
//	? key\n:    => mapKey(explicitKey(?, key), :)
func createMapKeyTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		if i+1 < len(list) && list[i+1].rawType() == token.MappingValueType {
			if t.isScalarValue() || t.groupType() == groupExplicitKey {
				out = append(out, newGroup(groupMapKey, t, list[i+1]))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// createMapKeyValueTokenGroups joins a key with a value written on the
// same line after its ':'.
func createMapKeyValueTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		if t.groupType() == groupMapKey && i+1 < len(list) {
			next := list[i+1]
			if sameLine(t, next) && (next.isScalarValue() || next.isBlockScalar()) {
				out = append(out, newGroup(groupMapKeyValue, t, next))
				i++
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// createDirectiveTokenGroups joins '%' with the words on its line.
func createDirectiveTokenGroups(list []*tkn) []*tkn {
	out := make([]*tkn, 0, len(list))
	for i := 0; i < len(list); i++ {
		t := list[i]
		if t.rawType() != token.DirectiveType {
			out = append(out, t)
			continue
		}
		members := []*tkn{t}
		for i+1 < len(list) && list[i+1].rawType() == token.StringType && sameLine(t, list[i+1]) {
			members = append(members, list[i+1])
			i++
		}
		out = append(out, newGroup(groupDirective, members...))
	}
	return out
}

// createDocumentTokenGroups splits the list into one group per document.
// A "---" after content starts a new document and "..." ends the current
// one. Directives are only allowed before the first content of a document.
func createDocumentTokenGroups(list []*tkn) ([]*tkn, error) {
	var (
		docs       []*tkn
		current    []*tkn
		hasContent bool
	)
	flush := func() {
		if len(current) > 0 {
			docs = append(docs, newGroup(groupDocument, current...))
		}
		current = nil
		hasContent = false
	}
	for _, t := range list {
		switch {
		case t.rawType() == token.DocumentHeaderType:
			if hasContent {
				flush()
			}
			current = append(current, t)
			hasContent = true
		case t.rawType() == token.DocumentEndType:
			current = append(current, t)
			flush()
		case t.groupType() == groupDirective:
			if hasContent {
				return nil, errors.ErrSyntax("directive must be preceded by a document end marker", t.first())
			}
			current = append(current, t)
		default:
			if t.rawType() != token.CommentType {
				hasContent = true
			}
			current = append(current, t)
		}
	}
	flush()
	return docs, nil
}
