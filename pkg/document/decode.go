package document

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// pageSpec mirrors the page definition format: a head block plus a list of
// body elements.
type pageSpec struct {
	Head headSpec `mapstructure:"head"`
	Body []any    `mapstructure:"body"`

	// Head fields are also accepted at the top level.
	Title       string   `mapstructure:"title"`
	Stylesheets []string `mapstructure:"stylesheets"`
	Styles      string   `mapstructure:"styles"`
}

type headSpec struct {
	Title       string   `mapstructure:"title"`
	Stylesheets []string `mapstructure:"stylesheets"`
	Styles      string   `mapstructure:"styles"`
}

// elementSpec is one element definition. Keys outside the reserved set are
// treated as attributes, which is why the remainder is captured.
type elementSpec struct {
	Tag        string         `mapstructure:"tag"`
	Text       string         `mapstructure:"text"`
	Attributes map[string]any `mapstructure:"attributes"`
	Children   []any          `mapstructure:"children"`
	Extra      map[string]any `mapstructure:",remain"`
}

// Decode parses a raw page definition (JSON) into a Tree. The definition is
// either a full page object with a "body" list, a bare list of elements, or
// a single element.
func Decode(data []byte) (*Tree, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid page definition: %w", err)
	}

	t := New()

	switch v := raw.(type) {
	case map[string]any:
		if _, ok := v["body"]; ok {
			var page pageSpec
			if err := mapstructure.Decode(v, &page); err != nil {
				return nil, fmt.Errorf("failed to decode page: %w", err)
			}
			t.Title = page.Head.Title
			t.Stylesheets = page.Head.Stylesheets
			t.InlineStyle = page.Head.Styles
			if t.Title == "" {
				t.Title = page.Title
			}
			if len(t.Stylesheets) == 0 {
				t.Stylesheets = page.Stylesheets
			}
			if t.InlineStyle == "" {
				t.InlineStyle = page.Styles
			}
			if err := appendElements(t, nil, page.Body); err != nil {
				return nil, err
			}
			return t, nil
		}
		if err := appendElements(t, nil, []any{v}); err != nil {
			return nil, err
		}
		return t, nil
	case []any:
		if err := appendElements(t, nil, v); err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("invalid page definition: expected object or list")
}

func appendElements(t *Tree, parent *Node, items []any) error {
	for _, item := range items {
		switch child := item.(type) {
		case string:
			// Bare strings become text runs on the parent.
			target := parent
			if target == nil {
				target = t.root
			}
			t.mu.Lock()
			target.content += child
			t.mu.Unlock()
		case map[string]any:
			node, grandchildren, err := buildNode(t, child)
			if err != nil {
				return err
			}
			if err := t.Append(parent, node); err != nil {
				return err
			}
			if err := appendElements(t, node, grandchildren); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid element: %T", item)
		}
	}
	return nil
}

func buildNode(t *Tree, m map[string]any) (*Node, []any, error) {
	var spec elementSpec
	if err := mapstructure.Decode(m, &spec); err != nil {
		return nil, nil, fmt.Errorf("failed to decode element: %w", err)
	}

	tag := spec.Tag
	if tag == "" {
		tag = "div"
	}
	node := t.newNode(tag)
	node.content = spec.Text

	// Explicit attributes win over loose keys.
	attrs := make(map[string]any, len(spec.Extra)+len(spec.Attributes))
	for k, v := range spec.Extra {
		attrs[k] = v
	}
	for k, v := range spec.Attributes {
		attrs[k] = v
	}

	for name, raw := range attrs {
		value, keep := attrString(raw)
		if !keep {
			continue
		}
		switch {
		case name == "id":
			node.id = value
		case name == "class":
			node.classes = strings.Fields(value)
		case name == "style":
			parseStyle(node, value)
		default:
			if _, ok := propertyNames[name]; ok {
				node.props[name] = value
			} else {
				node.attrs[name] = value
			}
		}
	}
	return node, spec.Children, nil
}

// attrString converts a loose JSON attribute value. nil and false drop the
// attribute, true keeps it with an empty value.
func attrString(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", false
	case bool:
		if v {
			return "", true
		}
		return "", false
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	default:
		return fmt.Sprintf("%v", v), true
	}
}

func parseStyle(node *Node, style string) {
	for _, decl := range strings.Split(style, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		node.styles[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
}
