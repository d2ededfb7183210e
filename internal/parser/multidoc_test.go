package parser

import (
	"testing"

	"github.com/shapestone/shape-yaml-ast/pkg/ast"
)

func mappingValue(t *testing.T, node ast.Node, key string) ast.Node {
	t.Helper()
	mapping, ok := node.(*ast.MappingNode)
	if !ok {
		t.Fatalf("Expected MappingNode, got: %T", node)
	}
	for _, value := range mapping.Values {
		if value.Key.String() == key {
			return value.Value
		}
	}
	t.Fatalf("Expected key %q in mapping", key)
	return nil
}

// TestParseMultipleDocuments tests parsing multiple documents separated by ---
func TestParseMultipleDocuments(t *testing.T) {
	input := `---
name: doc1
type: ConfigMap
---
name: doc2
type: Service`

	file, err := ParseBytes([]byte(input), 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Docs) != 2 {
		t.Fatalf("Expected 2 documents, got: %d", len(file.Docs))
	}
	for i, want := range []string{"doc1", "doc2"} {
		if got := mappingValue(t, file.Docs[i].Body, "name").String(); got != want {
			t.Errorf("Document %d: expected name=%q, got: %q", i, want, got)
		}
		if file.Docs[i].Start == nil {
			t.Errorf("Document %d: expected start marker", i)
		}
	}
}

// TestParseKubernetesManifests tests a typical multi-resource manifest
func TestParseKubernetesManifests(t *testing.T) {
	input := `apiVersion: v1
kind: Service
metadata:
  name: web
spec:
  ports:
  - port: 80
    targetPort: 8080
---
apiVersion: apps/v1
kind: Deployment
metadata:
  name: web
spec:
  replicas: 3
  template:
    spec:
      containers:
        - name: web
          image: nginx:1.25
`

	file, err := ParseBytes([]byte(input), 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Docs) != 2 {
		t.Fatalf("Expected 2 documents, got: %d", len(file.Docs))
	}

	service := file.Docs[0].Body
	if file.Docs[0].Start != nil {
		t.Error("Expected the first document to have no start marker")
	}
	ports := mappingValue(t, mappingValue(t, service, "spec"), "ports")
	seq, ok := ports.(*ast.SequenceNode)
	if !ok || len(seq.Values) != 1 {
		t.Fatalf("Expected one port, got: %v", ports)
	}
	if got := mappingValue(t, seq.Values[0].Value, "targetPort").(*ast.IntegerNode).Value; got != int64(8080) {
		t.Errorf("Expected targetPort 8080, got: %v", got)
	}

	deployment := file.Docs[1].Body
	containers := mappingValue(t, mappingValue(t, mappingValue(t, mappingValue(t, deployment, "spec"), "template"), "spec"), "containers")
	image := mappingValue(t, containers.(*ast.SequenceNode).Values[0].Value, "image")
	if image.String() != "nginx:1.25" {
		t.Errorf("Expected image nginx:1.25, got: %s", image)
	}
	if image.GetPath() != "$.spec.template.spec.containers[0].image" {
		t.Errorf("Unexpected path: %s", image.GetPath())
	}
}

// TestParseEmptyDocuments tests documents without a body
func TestParseEmptyDocuments(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{name: "single header", input: "---\n", want: 1},
		{name: "two headers", input: "---\n---\n", want: 2},
		{name: "header and end", input: "---\n...\n", want: 1},
		{name: "empty between documents", input: "a: 1\n---\n---\nb: 2\n", want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			file, err := ParseBytes([]byte(tt.input), 0)
			if err != nil {
				t.Fatalf("Expected no error, got: %v", err)
			}
			if len(file.Docs) != tt.want {
				t.Fatalf("Expected %d documents, got: %d", tt.want, len(file.Docs))
			}
			for _, doc := range file.Docs {
				if doc.Body != nil && doc.Body.Type() != ast.MappingType {
					t.Errorf("Unexpected body: %T", doc.Body)
				}
			}
		})
	}
}

// TestParseDocumentEndMarker tests "..." between documents
func TestParseDocumentEndMarker(t *testing.T) {
	file, err := ParseBytes([]byte("a: 1\n...\nb: 2\n...\n"), 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Docs) != 2 {
		t.Fatalf("Expected 2 documents, got: %d", len(file.Docs))
	}
	for i, doc := range file.Docs {
		if doc.End == nil {
			t.Errorf("Document %d: expected end marker", i)
		}
	}
	if got := file.String(); got != "a: 1\n...\nb: 2\n...\n" {
		t.Errorf("Unexpected output: %q", got)
	}
}

// TestParseDocumentsWithComments tests comments around document markers
func TestParseDocumentsWithComments(t *testing.T) {
	input := `# first
a: 1
---
# second
b: 2
# trailing
`
	file, err := ParseBytes([]byte(input), ParseComments)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Docs) != 2 {
		t.Fatalf("Expected 2 documents, got: %d", len(file.Docs))
	}
	if got := file.String(); got != input {
		t.Errorf("Expected round trip, got: %q", got)
	}

	// comments are dropped without ParseComments
	file, err = ParseBytes([]byte(input), 0)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if groups := ast.FilterFile(ast.CommentGroupType, file); len(groups) != 0 {
		t.Errorf("Expected no comments, got: %d", len(groups))
	}
}

// TestParseTrailingCommentDocument tests that a comment-only document after
// "..." joins the foot of the previous document
func TestParseTrailingCommentDocument(t *testing.T) {
	file, err := ParseBytes([]byte("a: 1\n...\n# done\n"), ParseComments)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(file.Docs) != 1 {
		t.Fatalf("Expected 1 document, got: %d", len(file.Docs))
	}
	foot := file.Docs[0].GetComment(ast.CommentFootPosition)
	if foot == nil || foot.Texts()[0] != " done" {
		t.Fatalf("Expected foot comment ' done', got: %v", foot)
	}
}
