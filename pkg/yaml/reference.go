package yaml

import (
	"bytes"
	"io"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

const (
	referencePattern          = "*.{yml,yaml}"
	recursiveReferencePattern = "**/*.{yml,yaml}"
)

// resolveReference decodes every reference input and keeps the anchors
// they define for the documents of the main input.
func (d *Decoder) resolveReference() error {
	for _, dir := range d.referenceDirs {
		files, err := d.referenceFilesInDir(dir)
		if err != nil {
			return err
		}
		d.referenceFiles = append(d.referenceFiles, files...)
	}
	for _, path := range d.referenceFiles {
		src, err := afero.ReadFile(d.fs, path)
		if err != nil {
			return xerrors.Errorf("failed to read reference file %s: %w", path, err)
		}
		d.referenceReaders = append(d.referenceReaders, bytes.NewReader(src))
		d.logger.Debug("loaded reference file", "path", path)
	}
	for _, r := range d.referenceReaders {
		if err := d.decodeReference(r); err != nil {
			return err
		}
	}
	d.referenceNodeMap = lo.Assign(d.anchorNodeMap)
	d.referenceValueMap = lo.Assign(d.anchorValueMap)
	return nil
}

// referenceFilesInDir lists the YAML files of dir in lexical order.
func (d *Decoder) referenceFilesInDir(dir string) ([]string, error) {
	if ok, err := afero.DirExists(d.fs, dir); err != nil || !ok {
		return nil, xerrors.Errorf("reference dir %s does not exist", dir)
	}
	pattern := referencePattern
	if d.isRecursiveDir {
		pattern = recursiveReferencePattern
	}
	fsys := afero.NewIOFS(afero.NewBasePathFs(d.fs, dir))
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, xerrors.Errorf("failed to search reference dir %s: %w", dir, err)
	}
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, filepath.Join(dir, filepath.FromSlash(match)))
	}
	return files, nil
}

// decodeReference decodes all documents of r into the shared anchor
// tables. Anchors accumulate across reference documents.
func (d *Decoder) decodeReference(r io.Reader) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return xerrors.Errorf("failed to read reference: %w", err)
	}
	file, err := d.parse(src)
	if err != nil {
		return err
	}
	commentMap := d.toCommentMap
	d.toCommentMap = nil
	defer func() { d.toCommentMap = commentMap }()
	for _, doc := range file.Docs {
		if _, err := d.nodeToValue(doc); err != nil {
			return err
		}
	}
	return nil
}
