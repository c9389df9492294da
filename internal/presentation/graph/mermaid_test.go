package graph

import (
	"strings"
	"testing"

	"github.com/dotpipe/dotpipe/pkg/document"
)

func testTree(t *testing.T) *document.Tree {
	t.Helper()
	tree, err := document.Decode([]byte(`{"body": [
		{"tag": "button", "id": "bump", "macro": "inc:count"},
		{"tag": "div", "id": "panel", "children": [
			{"tag": "span", "id": "display"}
		]}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	return tree
}

func TestGenerateMermaid(t *testing.T) {
	out := GenerateMermaid(testTree(t), nil)

	if !strings.HasPrefix(out, "graph TD\n") {
		t.Fatalf("missing header:\n%s", out)
	}
	// Macro nodes get the subroutine shape, the root a circle, and the
	// hierarchy becomes edges.
	for _, want := range []string{
		`bump[["bump"]]`,
		`panel["panel"]`,
		`display["display"]`,
		"panel --> display",
		`anon0(("body"))`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := GenerateMermaid(testTree(t), &Overlay{
		Entries:   []string{"bump"},
		LastFired: "bump",
	})

	if !strings.Contains(out, "style bump stroke:#818cf8") {
		t.Errorf("missing entry style:\n%s", out)
	}
	if !strings.Contains(out, "style bump fill:#e879f9") {
		t.Errorf("missing last-fired style:\n%s", out)
	}
}

func TestSanitizeMermaidID(t *testing.T) {
	if got := sanitizeMermaidID("nav.item-3"); got != "nav_item_3" {
		t.Errorf("got %q", got)
	}
}
