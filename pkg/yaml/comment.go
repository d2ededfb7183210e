package yaml

import (
	"github.com/samber/lo"

	"github.com/shapestone/shape-yaml-ast/pkg/ast"
)

// CommentPosition is where a comment sits relative to its node.
type CommentPosition = ast.CommentPosition

const (
	HeadComment = ast.CommentHeadPosition
	LineComment = ast.CommentLinePosition
	FootComment = ast.CommentFootPosition
)

// Comment is a group of comment lines at one position.
type Comment struct {
	Texts    []string
	Position CommentPosition
}

// CommentMap maps a node path such as $.a.b[0] to its comments.
type CommentMap map[string][]*Comment

func (m CommentMap) add(path string, pos CommentPosition, group *ast.CommentGroupNode) {
	if group == nil {
		return
	}
	exists := lo.ContainsBy(m[path], func(c *Comment) bool {
		return c.Position == pos
	})
	if exists {
		return
	}
	m[path] = append(m[path], &Comment{Texts: group.Texts(), Position: pos})
}

func (d *Decoder) addCommentsToMap(node ast.Node) {
	if d.toCommentMap == nil || node == nil {
		return
	}
	path := node.GetPath()
	for _, pos := range []CommentPosition{HeadComment, LineComment, FootComment} {
		d.toCommentMap.add(path, pos, node.GetComment(pos))
	}
}
