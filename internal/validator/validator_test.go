package validator

import (
	"strings"
	"testing"

	"github.com/dotpipe/dotpipe/pkg/document"
)

func lintPage(t *testing.T, page string) []Problem {
	t.Helper()
	tree, err := document.Decode([]byte(page))
	if err != nil {
		t.Fatal(err)
	}
	return ValidatePage(tree)
}

func TestValidatePage_CleanPage(t *testing.T) {
	problems := lintPage(t, `{"body": [
		{"tag": "button", "id": "bump", "macro": "inc:count|$display:!count"},
		{"tag": "span", "id": "display"}
	]}`)
	if len(problems) != 0 {
		t.Fatalf("unexpected problems: %v", problems)
	}
}

func TestValidatePage_InvalidSegment(t *testing.T) {
	problems := lintPage(t, `{"body": [
		{"tag": "button", "id": "go", "macro": "inc:count|???"}
	]}`)
	if len(problems) != 1 {
		t.Fatalf("want one problem, got %v", problems)
	}
	if problems[0].NodeID != "go" || !strings.Contains(problems[0].Message, "no form") {
		t.Errorf("unexpected problem: %v", problems[0])
	}
}

func TestValidatePage_DanglingSelector(t *testing.T) {
	problems := lintPage(t, `{"body": [
		{"tag": "button", "id": "go", "macro": "$ghost:!count"}
	]}`)
	if len(problems) != 1 || !strings.Contains(problems[0].Message, "resolves to no nodes") {
		t.Fatalf("want dangling selector finding, got %v", problems)
	}
}

func TestValidatePage_ShellBalance(t *testing.T) {
	problems := lintPage(t, `{"body": [
		{"tag": "div", "id": "panel"},
		{"tag": "button", "id": "go", "macro": "+panel:sh|&a:1|-other"}
	]}`)
	if len(problems) != 1 || !strings.Contains(problems[0].Message, `closes shell "other"`) {
		t.Fatalf("want shell mismatch finding, got %v", problems)
	}

	problems = lintPage(t, `{"body": [
		{"tag": "button", "id": "go", "macro": "-sh"}
	]}`)
	if len(problems) != 1 || !strings.Contains(problems[0].Message, "none is open") {
		t.Fatalf("want stray close finding, got %v", problems)
	}
}

func TestValidatePage_BadIndexExpression(t *testing.T) {
	problems := lintPage(t, `{"body": [
		{"tag": "div", "class": "item"},
		{"tag": "button", "id": "go", "macro": ".item[zz].text:done"}
	]}`)
	if len(problems) != 1 || !strings.Contains(problems[0].Message, "bad index expression") {
		t.Fatalf("want index finding, got %v", problems)
	}
}

func TestValidatePage_AnonymousNodesNamedByTag(t *testing.T) {
	problems := lintPage(t, `{"body": [
		{"tag": "div", "macro": "???"}
	]}`)
	if len(problems) != 1 || problems[0].NodeID != "<anonymous div>" {
		t.Fatalf("got %v", problems)
	}
}
