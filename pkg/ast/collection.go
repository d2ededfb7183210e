package ast

import (
	"strings"

	"github.com/shapestone/shape-yaml-ast/pkg/token"
)

// MappingNode is a block or flow mapping.
type MappingNode struct {
	BaseNode
	// Start and End are the braces of a flow mapping. Block mappings, and
	// the single-pair mappings written inside a flow sequence, have none.
	Start       *token.Token
	End         *token.Token
	IsFlowStyle bool
	Values      []*MappingValueNode
}

// Mapping creates a MappingNode.
func Mapping(start *token.Token, isFlowStyle bool, values ...*MappingValueNode) *MappingNode {
	return &MappingNode{Start: start, IsFlowStyle: isFlowStyle, Values: values}
}

func (n *MappingNode) Type() NodeType { return MappingType }

func (n *MappingNode) GetToken() *token.Token {
	if n.Start != nil || len(n.Values) == 0 {
		return n.Start
	}
	return n.Values[0].Key.GetToken()
}

func (n *MappingNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	n.End.AddColumn(col)
	for _, value := range n.Values {
		value.AddColumn(col)
	}
	n.addCommentColumn(col)
}

// Merge adds the entries of target to n. Keys already present in n take
// the value from target; target is shifted to n's column first.
func (n *MappingNode) Merge(target *MappingNode) {
	keyToMapValue := map[string]*MappingValueNode{}
	for _, value := range n.Values {
		keyToMapValue[value.Key.String()] = value
	}
	target.AddColumn(n.column() - target.column())
	for _, value := range target.Values {
		if mapValue, exists := keyToMapValue[value.Key.String()]; exists {
			mapValue.Value = value.Value
			continue
		}
		n.Values = append(n.Values, value)
	}
}

func (n *MappingNode) column() int {
	if tk := n.GetToken(); tk != nil && tk.Position != nil {
		return tk.Position.Column
	}
	return 1
}

func (n *MappingNode) String() string {
	if n.IsFlowStyle || len(n.Values) == 0 {
		return n.flowStyleString()
	}
	values := make([]string, 0, len(n.Values))
	for _, value := range n.Values {
		values = append(values, value.String())
	}
	text := strings.Join(values, "\n")
	if foot := n.GetComment(CommentFootPosition); foot != nil {
		text += "\n" + foot.String()
	}
	return text
}

func (n *MappingNode) flowStyleString() string {
	values := make([]string, 0, len(n.Values))
	for _, value := range n.Values {
		values = append(values, value.flowStyleString())
	}
	return "{" + strings.Join(values, ", ") + "}"
}

// MappingKeyNode is an explicit key introduced by '?'.
type MappingKeyNode struct {
	BaseNode
	Start *token.Token
	Value Node
}

func MappingKey(tk *token.Token) *MappingKeyNode {
	return &MappingKeyNode{Start: tk}
}

func (n *MappingKeyNode) Type() NodeType         { return MappingKeyType }
func (n *MappingKeyNode) GetToken() *token.Token { return n.Start }
func (n *MappingKeyNode) IsMergeKey() bool       { return false }

func (n *MappingKeyNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	if n.Value != nil {
		n.Value.AddColumn(col)
	}
	n.addCommentColumn(col)
}

func (n *MappingKeyNode) String() string {
	space := spaces(n.Start.Position.Column)
	return strings.TrimPrefix(entryString(space, "?", n.Value, n.GetComment(CommentLinePosition)), space)
}

// MappingValueNode is one key/value pair of a mapping.
type MappingValueNode struct {
	BaseNode
	// Start is the ':' token, or the key token of a flow entry written
	// without a value.
	Start *token.Token
	Key   MapKeyNode
	Value Node
}

func MappingValue(tk *token.Token, key MapKeyNode, value Node) *MappingValueNode {
	return &MappingValueNode{Start: tk, Key: key, Value: value}
}

func (n *MappingValueNode) Type() NodeType         { return MappingValueType }
func (n *MappingValueNode) GetToken() *token.Token { return n.Start }

// IsMergeKey reports whether the entry is a << merge.
func (n *MappingValueNode) IsMergeKey() bool {
	return n.Key != nil && n.Key.IsMergeKey()
}

func (n *MappingValueNode) AddColumn(col int) {
	if n.Start != n.Key.GetToken() {
		n.Start.AddColumn(col)
	}
	n.Key.AddColumn(col)
	n.Value.AddColumn(col)
	n.addCommentColumn(col)
}

func (n *MappingValueNode) String() string {
	var b strings.Builder
	if head := n.GetComment(CommentHeadPosition); head != nil {
		b.WriteString(head.String())
		b.WriteByte('\n')
	}
	space := spaces(n.Key.GetToken().Position.Column)
	line := n.GetComment(CommentLinePosition)
	if key, ok := n.Key.(*MappingKeyNode); ok {
		b.WriteString(space)
		b.WriteString(key.String())
		b.WriteByte('\n')
		b.WriteString(entryString(space, ":", n.Value, line))
		return b.String()
	}
	b.WriteString(space)
	b.WriteString(n.Key.String())
	b.WriteByte(':')
	value := n.Value.String()
	switch {
	case isBlockCollection(n.Value):
		b.WriteString(lineCommentString(line))
		b.WriteByte('\n')
		b.WriteString(value)
	case value == "":
		b.WriteString(lineCommentString(line))
	default:
		b.WriteByte(' ')
		b.WriteString(withLineComment(value, line))
	}
	return b.String()
}

func (n *MappingValueNode) flowStyleString() string {
	if key, ok := n.Key.(*MappingKeyNode); ok && key.Value != nil {
		return strings.TrimRight("? "+key.Value.String()+": "+n.Value.String(), " ")
	}
	return strings.TrimRight(n.Key.String()+": "+n.Value.String(), " ")
}

// SequenceNode is a block or flow sequence.
type SequenceNode struct {
	BaseNode
	// Start and End are the brackets of a flow sequence; block sequences have none.
	Start       *token.Token
	End         *token.Token
	IsFlowStyle bool
	Values      []*SequenceEntryNode
}

func Sequence(start *token.Token, isFlowStyle bool) *SequenceNode {
	return &SequenceNode{Start: start, IsFlowStyle: isFlowStyle}
}

func (n *SequenceNode) Type() NodeType { return SequenceType }

func (n *SequenceNode) GetToken() *token.Token {
	if n.Start != nil || len(n.Values) == 0 {
		return n.Start
	}
	return n.Values[0].GetToken()
}

func (n *SequenceNode) AddColumn(col int) {
	n.Start.AddColumn(col)
	n.End.AddColumn(col)
	for _, value := range n.Values {
		value.AddColumn(col)
	}
	n.addCommentColumn(col)
}

// Merge appends the entries of target to n, shifting them to n's column.
func (n *SequenceNode) Merge(target *SequenceNode) {
	if tk, other := n.GetToken(), target.GetToken(); tk != nil && other != nil {
		target.AddColumn(tk.Position.Column - other.Position.Column)
	}
	n.Values = append(n.Values, target.Values...)
}

func (n *SequenceNode) String() string {
	if n.IsFlowStyle || len(n.Values) == 0 {
		values := make([]string, 0, len(n.Values))
		for _, value := range n.Values {
			values = append(values, value.Value.String())
		}
		return "[" + strings.Join(values, ", ") + "]"
	}
	values := make([]string, 0, len(n.Values))
	for _, value := range n.Values {
		values = append(values, value.String())
	}
	text := strings.Join(values, "\n")
	if foot := n.GetComment(CommentFootPosition); foot != nil {
		text += "\n" + foot.String()
	}
	return text
}

// SequenceEntryNode is one entry of a sequence. Start is the '-' token of a
// block entry and the first token of the value in a flow sequence.
type SequenceEntryNode struct {
	BaseNode
	Start *token.Token
	Value Node
}

func SequenceEntry(start *token.Token, value Node) *SequenceEntryNode {
	return &SequenceEntryNode{Start: start, Value: value}
}

func (n *SequenceEntryNode) Type() NodeType         { return SequenceEntryType }
func (n *SequenceEntryNode) GetToken() *token.Token { return n.Start }

func (n *SequenceEntryNode) AddColumn(col int) {
	if n.Start != n.Value.GetToken() {
		n.Start.AddColumn(col)
	}
	n.Value.AddColumn(col)
	n.addCommentColumn(col)
}

func (n *SequenceEntryNode) String() string {
	var b strings.Builder
	if head := n.GetComment(CommentHeadPosition); head != nil {
		b.WriteString(head.String())
		b.WriteByte('\n')
	}
	b.WriteString(entryString(spaces(n.Start.Position.Column), "-", n.Value, n.GetComment(CommentLinePosition)))
	return b.String()
}

// entryString writes an indicator ('-', '?' or ':') followed by its value.
// A block collection is pulled up onto the indicator line when its first
// entry is indented at least two columns past the indicator:
//
//	-            - a: 1
//	  a: 1   =>    b: 2
//	  b: 2
func entryString(space, indicator string, value Node, line *CommentGroupNode) string {
	if value == nil {
		return space + indicator + lineCommentString(line)
	}
	text := value.String()
	if isBlockCollection(value) {
		prefix := space + strings.Repeat(" ", len(indicator)+1)
		rest := strings.TrimPrefix(text, prefix)
		if line == nil && rest != text && !strings.HasPrefix(strings.TrimLeft(rest, " "), "#") {
			return space + indicator + " " + rest
		}
		return space + indicator + lineCommentString(line) + "\n" + text
	}
	if text == "" {
		return space + indicator + lineCommentString(line)
	}
	return space + indicator + " " + withLineComment(text, line)
}

func isBlockCollection(node Node) bool {
	switch n := node.(type) {
	case *MappingNode:
		return !n.IsFlowStyle && len(n.Values) > 0
	case *SequenceNode:
		return !n.IsFlowStyle && len(n.Values) > 0
	}
	return false
}

func spaces(column int) string {
	if column <= 1 {
		return ""
	}
	return strings.Repeat(" ", column-1)
}
