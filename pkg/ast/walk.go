package ast

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a syntax tree in depth-first order: it calls v.Visit(node);
// node must not be nil. Comment groups attached to a node are visited
// before its children.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range children(node) {
		Walk(v, child)
	}
	v.Visit(nil)
}

// children returns the direct children of node in source order.
func children(node Node) []Node {
	var list []Node
	if _, ok := node.(*CommentGroupNode); !ok {
		for _, pos := range []CommentPosition{CommentHeadPosition, CommentLinePosition} {
			if c := node.GetComment(pos); c != nil {
				list = append(list, c)
			}
		}
	}
	switch n := node.(type) {
	case *CommentGroupNode:
		for _, c := range n.Comments {
			list = append(list, c)
		}
	case *LiteralNode:
		list = append(list, n.Value)
	case *MappingNode:
		for _, value := range n.Values {
			list = append(list, value)
		}
	case *MappingKeyNode:
		list = appendNode(list, n.Value)
	case *MappingValueNode:
		list = append(list, n.Key)
		list = appendNode(list, n.Value)
	case *SequenceNode:
		for _, value := range n.Values {
			list = append(list, value)
		}
	case *SequenceEntryNode:
		list = appendNode(list, n.Value)
	case *AnchorNode:
		list = append(list, n.Name)
		list = appendNode(list, n.Value)
	case *AliasNode:
		list = append(list, n.Value)
	case *TagNode:
		list = appendNode(list, n.Value)
	case *DirectiveNode:
		list = append(list, n.Name)
		for _, value := range n.Values {
			list = append(list, value)
		}
	case *DocumentNode:
		for _, d := range n.Directives {
			list = append(list, d)
		}
		list = appendNode(list, n.Body)
	}
	if _, ok := node.(*CommentGroupNode); !ok {
		if c := node.GetComment(CommentFootPosition); c != nil {
			list = append(list, c)
		}
	}
	return list
}

func appendNode(list []Node, node Node) []Node {
	if node == nil {
		return list
	}
	return append(list, node)
}

type filterWalker struct {
	typ     NodeType
	results []Node
}

func (v *filterWalker) Visit(n Node) Visitor {
	if n != nil && n.Type() == v.typ {
		v.results = append(v.results, n)
	}
	return v
}

// Filter returns all nodes of type typ in the tree rooted at node.
func Filter(typ NodeType, node Node) []Node {
	walker := &filterWalker{typ: typ}
	Walk(walker, node)
	return walker.results
}

// FilterFile returns all nodes of type typ in every document of file.
func FilterFile(typ NodeType, file *File) []Node {
	var results []Node
	for _, doc := range file.Docs {
		results = append(results, Filter(typ, doc)...)
	}
	return results
}

// Comments returns every comment group in the tree rooted at node.
func Comments(node Node) []*CommentGroupNode {
	var groups []*CommentGroupNode
	for _, n := range Filter(CommentGroupType, node) {
		groups = append(groups, n.(*CommentGroupNode))
	}
	return groups
}

// Parent returns the node whose direct child is child, searching from
// root by identity. It returns nil when child is root or not in the tree.
func Parent(root, child Node) Node {
	for _, c := range children(root) {
		if c == child {
			return root
		}
		if found := Parent(c, child); found != nil {
			return found
		}
	}
	return nil
}
