package tui

import (
	"strings"
	"testing"

	"github.com/dotpipe/dotpipe/pkg/document"
)

func TestPageMarkdown(t *testing.T) {
	tree, err := document.Decode([]byte(`{
		"title": "Demo",
		"body": [
			{"tag": "h1", "text": "Counter"},
			{"tag": "p", "text": "Press the button."},
			{"tag": "button", "id": "bump", "text": "Bump", "macro": "inc:count"},
			{"tag": "ul", "children": [
				{"tag": "li", "text": "one"},
				{"tag": "li", "text": "two"}
			]}
		]
	}`))
	if err != nil {
		t.Fatal(err)
	}

	md := PageMarkdown(tree)

	for _, want := range []string{
		"# Demo",
		"## Counter",
		"Press the button.",
		"**[ Bump ]** `inc:count`",
		"- one",
		"- two",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestPageMarkdown_ButtonFallsBackToID(t *testing.T) {
	tree, err := document.Decode([]byte(`{"body": [
		{"tag": "button", "id": "go", "macro": "log:hi"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}

	if md := PageMarkdown(tree); !strings.Contains(md, "**[ go ]**") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
}

func TestNewRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render("# hello")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("rendered output missing heading text: %q", out)
	}
}
