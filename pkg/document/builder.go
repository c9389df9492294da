package document

import "strings"

// Builder constructs document trees programmatically, for hosts and tests
// that do not load pages from a definition file.
type Builder struct {
	title    string
	elements []*ElementBuilder
}

// NewBuilder creates an empty page builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Title sets the page title.
func (b *Builder) Title(title string) *Builder {
	b.title = title
	return b
}

// Element adds a root-level element and returns its builder.
func (b *Builder) Element(tag string) *ElementBuilder {
	eb := newElementBuilder(tag)
	b.elements = append(b.elements, eb)
	return eb
}

// Build materializes the tree. It fails on duplicate node ids.
func (b *Builder) Build() (*Tree, error) {
	t := New()
	t.Title = b.title
	for _, eb := range b.elements {
		if err := eb.attach(t, nil); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// ElementBuilder accumulates one element definition.
type ElementBuilder struct {
	tag      string
	id       string
	text     string
	classes  []string
	attrs    map[string]string
	styles   map[string]string
	props    map[string]string
	children []*ElementBuilder
}

func newElementBuilder(tag string) *ElementBuilder {
	return &ElementBuilder{
		tag:    tag,
		attrs:  make(map[string]string),
		styles: make(map[string]string),
		props:  make(map[string]string),
	}
}

// ID sets the element id.
func (e *ElementBuilder) ID(id string) *ElementBuilder {
	e.id = id
	return e
}

// Class adds one or more space-separated classes.
func (e *ElementBuilder) Class(classes string) *ElementBuilder {
	e.classes = append(e.classes, strings.Fields(classes)...)
	return e
}

// Text sets the element's text content.
func (e *ElementBuilder) Text(text string) *ElementBuilder {
	e.text = text
	return e
}

// Macro attaches a macro pipeline to the element.
func (e *ElementBuilder) Macro(macro string) *ElementBuilder {
	e.attrs["macro"] = macro
	return e
}

// Attr sets a raw attribute.
func (e *ElementBuilder) Attr(name, value string) *ElementBuilder {
	e.attrs[name] = value
	return e
}

// Style sets a style declaration.
func (e *ElementBuilder) Style(name, value string) *ElementBuilder {
	e.styles[name] = value
	return e
}

// Prop sets a plain node property.
func (e *ElementBuilder) Prop(name, value string) *ElementBuilder {
	e.props[name] = value
	return e
}

// Child adds a nested element and returns the child's builder.
func (e *ElementBuilder) Child(tag string) *ElementBuilder {
	child := newElementBuilder(tag)
	e.children = append(e.children, child)
	return child
}

func (e *ElementBuilder) attach(t *Tree, parent *Node) error {
	node := t.newNode(e.tag)
	node.id = e.id
	node.content = e.text
	node.classes = append([]string(nil), e.classes...)
	for k, v := range e.attrs {
		node.attrs[k] = v
	}
	for k, v := range e.styles {
		node.styles[k] = v
	}
	for k, v := range e.props {
		node.props[k] = v
	}
	if err := t.Append(parent, node); err != nil {
		return err
	}
	for _, c := range e.children {
		if err := c.attach(t, node); err != nil {
			return err
		}
	}
	return nil
}
