package yaml

import (
	"golang.org/x/xerrors"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
)

var (
	ErrExceededMaxDepth          = errors.ErrExceededMaxDepth
	ErrDecodeRequiredPointerType = xerrors.New("required pointer type value")
	ErrInvalidCommentMapValue    = xerrors.New("invalid comment map value. it must be not nil value")
)

type (
	// TokenError is implemented by every error that points at a source
	// token. GetMessage returns the message without position or excerpt.
	TokenError = errors.TokenError
	// SyntaxError is returned for input that cannot be parsed.
	SyntaxError = errors.SyntaxError
	// InvalidTokenError is returned when the scanner produced an invalid token.
	InvalidTokenError = errors.InvalidTokenError
	// DuplicateKeyError is returned for a repeated mapping key.
	DuplicateKeyError = errors.DuplicateKeyError
	// UnexpectedNodeTypeError is returned when a node has the wrong type,
	// such as a merge key whose value is not a mapping.
	UnexpectedNodeTypeError = errors.UnexpectedNodeTypeError
)
