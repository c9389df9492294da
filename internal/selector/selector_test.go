package selector

import (
	"errors"
	"testing"

	"github.com/dotpipe/dotpipe/pkg/document"
	"github.com/dotpipe/dotpipe/pkg/domain"
)

func fixture(t *testing.T) *document.Tree {
	t.Helper()
	b := document.NewBuilder()
	b.Element("div").ID("single").Text("one")
	for i := 0; i < 5; i++ {
		b.Element("li").Class("item").ID(string(rune('a' + i)))
	}
	tree, err := b.Build()
	if err != nil {
		t.Fatalf("fixture build failed: %v", err)
	}
	return tree
}

func TestResolve_Forms(t *testing.T) {
	tree := fixture(t)

	t.Run("hash id", func(t *testing.T) {
		nodes, err := Resolve(tree, "#single", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != 1 || nodes[0].ID() != "single" {
			t.Errorf("unexpected result: %v", nodes)
		}
	})

	t.Run("bare id", func(t *testing.T) {
		nodes, err := Resolve(tree, "single", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != 1 {
			t.Errorf("expected 1 node, got %d", len(nodes))
		}
	})

	t.Run("class in tree order", func(t *testing.T) {
		nodes, err := Resolve(tree, ".item", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != 5 {
			t.Fatalf("expected 5 nodes, got %d", len(nodes))
		}
		if nodes[0].ID() != "a" || nodes[4].ID() != "e" {
			t.Errorf("class results out of tree order")
		}
	})

	t.Run("unresolved yields empty", func(t *testing.T) {
		nodes, err := Resolve(tree, "#ghost", "")
		if err != nil {
			t.Fatal(err)
		}
		if len(nodes) != 0 {
			t.Errorf("expected empty list, got %d", len(nodes))
		}
	})
}

func TestResolve_IndexExpressions(t *testing.T) {
	tree := fixture(t)

	cases := []struct {
		expr string
		want []string
	}{
		{"0", []string{"a"}},
		{"-1", []string{"e"}},
		{"9", nil},
		{"-9", nil},
		{"0,2,4", []string{"a", "c", "e"}},
		{"4,0", []string{"e", "a"}},
		{"1:4:2", []string{"b", "d"}},
		{"1:4", []string{"b", "c", "d"}},
		{":2", []string{"a", "b"}},
		{"3:", []string{"d", "e"}},
		{"::2", []string{"a", "c", "e"}},
		{"-2:", []string{"d", "e"}},
		{"0:99", []string{"a", "b", "c", "d", "e"}},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			nodes, err := Resolve(tree, ".item", c.expr)
			if err != nil {
				t.Fatal(err)
			}
			if len(nodes) != len(c.want) {
				t.Fatalf("expr %q: got %d nodes, want %d", c.expr, len(nodes), len(c.want))
			}
			for i, n := range nodes {
				if n.ID() != c.want[i] {
					t.Errorf("expr %q: position %d = %q, want %q", c.expr, i, n.ID(), c.want[i])
				}
			}
		})
	}
}

func TestResolve_MalformedIndex(t *testing.T) {
	tree := fixture(t)

	for _, expr := range []string{"abc", "1,x", "1:y", "1:4:0", "1:2:3:4"} {
		t.Run(expr, func(t *testing.T) {
			_, err := Resolve(tree, ".item", expr)
			if !errors.Is(err, domain.ErrBadIndex) {
				t.Errorf("expr %q: expected ErrBadIndex, got %v", expr, err)
			}
		})
	}
}
