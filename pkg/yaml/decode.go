package yaml

import (
	"fmt"
	"io"
	"reflect"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"

	"github.com/shapestone/shape-yaml-ast/internal/errors"
	"github.com/shapestone/shape-yaml-ast/internal/parser"
	"github.com/shapestone/shape-yaml-ast/pkg/ast"
)

// maxDecodeDepth bounds the nesting of values built from a single document.
const maxDecodeDepth = 10000

// Decoder reads YAML documents from an input stream and converts them to
// Go values.
//
// The whole input is parsed on the first call to Decode; every later call
// returns the next document.
type Decoder struct {
	reader io.Reader
	opts   []DecodeOption

	referenceReaders     []io.Reader
	referenceFiles       []string
	referenceDirs        []string
	isRecursiveDir       bool
	allowDuplicateMapKey bool
	useOrderedMap        bool
	toCommentMap         CommentMap
	fs                   afero.Fs
	logger               *log.Logger

	anchorNodeMap     map[string]ast.Node
	anchorValueMap    map[string]interface{}
	referenceNodeMap  map[string]ast.Node
	referenceValueMap map[string]interface{}

	initialized bool
	initErr     error
	loaded      bool
	loadErr     error
	file        *ast.File
	docIndex    int
	depth       int
}

// NewDecoder returns a Decoder that reads from r.
func NewDecoder(r io.Reader, opts ...DecodeOption) *Decoder {
	return &Decoder{
		reader:            r,
		opts:              opts,
		fs:                afero.NewOsFs(),
		logger:            log.New(io.Discard),
		anchorNodeMap:     map[string]ast.Node{},
		anchorValueMap:    map[string]interface{}{},
		referenceNodeMap:  map[string]ast.Node{},
		referenceValueMap: map[string]interface{}{},
	}
}

// Decode decodes the next document into the value pointed to by v.
// It returns io.EOF when there are no more documents.
func (d *Decoder) Decode(v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrDecodeRequiredPointerType
	}
	value, err := d.DecodeValue()
	if err != nil {
		return err
	}
	return assign(value, v)
}

// DecodeValue decodes the next document into its generic form: nil, bool,
// int64, uint64, float64, string, []byte, time.Time, []interface{} and
// map[string]interface{} (or MapSlice with UseOrderedMap).
func (d *Decoder) DecodeValue() (interface{}, error) {
	if err := d.load(); err != nil {
		return nil, err
	}
	if d.docIndex >= len(d.file.Docs) {
		return nil, errors.ErrEOF
	}
	doc := d.file.Docs[d.docIndex]
	d.docIndex++
	d.resetAnchors()
	d.logger.Debug("decoding document", "index", d.docIndex-1)
	return d.nodeToValue(doc)
}

// DecodeFromNode decodes node into the value pointed to by v. Anchors
// registered by earlier calls remain visible.
func (d *Decoder) DecodeFromNode(node ast.Node, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return ErrDecodeRequiredPointerType
	}
	if err := d.init(); err != nil {
		return err
	}
	value, err := d.nodeToValue(node)
	if err != nil {
		return err
	}
	return assign(value, v)
}

// init applies options and decodes reference inputs.
func (d *Decoder) init() error {
	if d.initialized {
		return d.initErr
	}
	d.initialized = true
	for _, opt := range d.opts {
		if err := opt(d); err != nil {
			d.initErr = xerrors.Errorf("failed to apply option: %w", err)
			return d.initErr
		}
	}
	d.initErr = d.resolveReference()
	return d.initErr
}

// load parses the main input once.
func (d *Decoder) load() error {
	if err := d.init(); err != nil {
		return err
	}
	if d.loaded {
		return d.loadErr
	}
	d.loaded = true
	src, err := io.ReadAll(d.reader)
	if err != nil {
		d.loadErr = xerrors.Errorf("failed to read buffer: %w", err)
		return d.loadErr
	}
	file, err := d.parse(src)
	if err != nil {
		d.loadErr = err
		return err
	}
	d.file = file
	d.logger.Debug("parsed input", "bytes", len(src), "documents", len(file.Docs))
	return nil
}

func (d *Decoder) parse(src []byte) (*ast.File, error) {
	var mode parser.Mode
	if d.toCommentMap != nil {
		mode |= parser.ParseComments
	}
	var opts []parser.Option
	if d.allowDuplicateMapKey {
		opts = append(opts, parser.AllowDuplicateMapKey())
	}
	return parser.ParseBytes(src, mode, opts...)
}

// resetAnchors starts a new document with only the reference anchors.
func (d *Decoder) resetAnchors() {
	d.anchorNodeMap = lo.Assign(d.referenceNodeMap)
	d.anchorValueMap = lo.Assign(d.referenceValueMap)
}

func (d *Decoder) nodeToValue(node ast.Node) (interface{}, error) {
	d.depth++
	defer func() { d.depth-- }()
	if d.depth > maxDecodeDepth {
		return nil, ErrExceededMaxDepth
	}
	if node != nil {
		d.addCommentsToMap(node)
	}

	switch n := node.(type) {
	case nil:
		return nil, nil
	case *ast.DocumentNode:
		return d.nodeToValue(n.Body)
	case *ast.NullNode:
		return nil, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.LiteralNode:
		return n.Value.Value, nil
	case ast.ScalarNode:
		return n.GetValue(), nil
	case *ast.TagNode:
		return d.tagToValue(n)
	case *ast.AnchorNode:
		name := n.Name.Value
		d.anchorNodeMap[name] = n.Value
		// an alias to the anchor from inside its own value decodes to nil
		d.anchorValueMap[name] = nil
		value, err := d.nodeToValue(n.Value)
		if err != nil {
			return nil, err
		}
		d.anchorValueMap[name] = value
		d.logger.Debug("registered anchor", "name", name, "path", n.GetPath())
		return value, nil
	case *ast.AliasNode:
		name := n.Name()
		if value, exists := d.anchorValueMap[name]; exists {
			return value, nil
		}
		if target, exists := d.anchorNodeMap[name]; exists {
			return d.nodeToValue(target)
		}
		return nil, errors.ErrSyntax(fmt.Sprintf("could not find alias %q", name), n.Value.GetToken())
	case *ast.MappingKeyNode:
		return d.nodeToValue(n.Value)
	case *ast.MappingValueNode:
		return d.mappingToValue([]*ast.MappingValueNode{n})
	case *ast.MappingNode:
		return d.mappingToValue(n.Values)
	case *ast.SequenceNode:
		values := make([]interface{}, 0, len(n.Values))
		for _, entry := range n.Values {
			d.addCommentsToMap(entry)
			value, err := d.nodeToValue(entry.Value)
			if err != nil {
				return nil, err
			}
			values = append(values, value)
		}
		return values, nil
	case *ast.SequenceEntryNode:
		return d.nodeToValue(n.Value)
	case *ast.CommentGroupNode, *ast.DirectiveNode:
		return nil, nil
	}
	return nil, errors.ErrSyntax(fmt.Sprintf("unexpected node type %s", node.Type()), node.GetToken())
}

func (d *Decoder) mappingToValue(values []*ast.MappingValueNode) (interface{}, error) {
	b := newMappingBuilder(len(values))
	for _, mv := range values {
		d.addCommentsToMap(mv)
		if mv.IsMergeKey() {
			if err := d.mergeInto(b, mv.Value); err != nil {
				return nil, err
			}
			continue
		}
		key, err := d.nodeToValue(mv.Key)
		if err != nil {
			return nil, err
		}
		name := keyString(key)
		if prev, exists := b.explicit[name]; exists && !d.allowDuplicateMapKey {
			pos := prev.GetToken().Position
			return nil, errors.ErrDuplicateKey(
				fmt.Sprintf("mapping key %q already defined at [%d:%d]", name, pos.Line, pos.Column),
				mv.Key.GetToken(),
			)
		}
		b.explicit[name] = mv.Key
		value, err := d.nodeToValue(mv.Value)
		if err != nil {
			return nil, err
		}
		b.set(key, value)
	}
	return b.result(d.useOrderedMap), nil
}

// mergeInto adds the entries of a << value to b. The value must be a
// mapping or a sequence of mappings, possibly behind an alias.
func (d *Decoder) mergeInto(b *mappingBuilder, node ast.Node) error {
	value, err := d.nodeToValue(node)
	if err != nil {
		return err
	}
	target := d.mergeTarget(node)
	switch t := target.(type) {
	case *ast.MappingNode, *ast.MappingValueNode:
		b.merge(value)
		return nil
	case *ast.SequenceNode:
		for _, entry := range t.Values {
			if m := d.mergeTarget(entry.Value); m == nil || m.Type() != ast.MappingType {
				return errors.ErrUnexpectedNodeType(nodeType(m), ast.MappingType, entry.Start)
			}
		}
		if items, ok := value.([]interface{}); ok {
			for _, item := range items {
				b.merge(item)
			}
		}
		return nil
	}
	return errors.ErrUnexpectedNodeType(nodeType(target), ast.MappingType, node.GetToken())
}

// mergeTarget follows aliases and node properties down to the node that
// holds the merged value.
func (d *Decoder) mergeTarget(node ast.Node) ast.Node {
	for i := 0; i < maxDecodeDepth; i++ {
		switch n := node.(type) {
		case *ast.AliasNode:
			target, exists := d.anchorNodeMap[n.Name()]
			if !exists {
				return nil
			}
			node = target
		case *ast.AnchorNode:
			node = n.Value
		case *ast.TagNode:
			node = n.Value
		default:
			return node
		}
	}
	return nil
}

func nodeType(node ast.Node) ast.NodeType {
	if node == nil {
		return ast.UnknownNodeType
	}
	return node.Type()
}

type mapEntry struct {
	key   interface{}
	value interface{}
}

// mappingBuilder collects mapping entries in source order.
type mappingBuilder struct {
	entries  []mapEntry
	index    map[string]int
	explicit map[string]ast.Node
}

func newMappingBuilder(size int) *mappingBuilder {
	return &mappingBuilder{
		entries:  make([]mapEntry, 0, size),
		index:    make(map[string]int, size),
		explicit: make(map[string]ast.Node, size),
	}
}

func (b *mappingBuilder) set(key, value interface{}) {
	name := keyString(key)
	if i, exists := b.index[name]; exists {
		b.entries[i].value = value
		return
	}
	b.index[name] = len(b.entries)
	b.entries = append(b.entries, mapEntry{key: key, value: value})
}

// merge adds the entries of a decoded mapping that are not already set.
func (b *mappingBuilder) merge(value interface{}) {
	switch v := value.(type) {
	case MapSlice:
		for _, item := range v {
			b.setIfAbsent(item.Key, item.Value)
		}
	case map[string]interface{}:
		keys := lo.Keys(v)
		sort.Strings(keys)
		for _, k := range keys {
			b.setIfAbsent(k, v[k])
		}
	}
}

func (b *mappingBuilder) setIfAbsent(key, value interface{}) {
	if _, exists := b.index[keyString(key)]; exists {
		return
	}
	b.set(key, value)
}

func (b *mappingBuilder) result(ordered bool) interface{} {
	if ordered {
		s := make(MapSlice, 0, len(b.entries))
		for _, e := range b.entries {
			s = append(s, MapItem{Key: e.key, Value: e.value})
		}
		return s
	}
	m := make(map[string]interface{}, len(b.entries))
	for _, e := range b.entries {
		m[keyString(e.key)] = e.value
	}
	return m
}
