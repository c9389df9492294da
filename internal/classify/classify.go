// Package classify splits macro pipelines on the pipe delimiter and
// classifies each segment against the fixed-priority grammar. Several forms
// are textually ambiguous prefixes of each other, so the order of the trial
// functions below is load-bearing: first match wins.
package classify

import "strings"

// Kind identifies the grammatical form of a segment.
type Kind int

const (
	// KindInvalid marks segments matching no form; they are skipped.
	KindInvalid Kind = iota
	KindAttrBind
	KindIndexedSet
	KindShellOpen
	KindShellClose
	KindAssign
	KindPropSet
	KindValueStore
	KindContentSet
	KindVerb
)

// String returns the kind's wire name, used in events and logs.
func (k Kind) String() string {
	switch k {
	case KindAttrBind:
		return "attribute_bind"
	case KindIndexedSet:
		return "indexed_set"
	case KindShellOpen:
		return "shell_open"
	case KindShellClose:
		return "shell_close"
	case KindAssign:
		return "assign"
	case KindPropSet:
		return "property_set"
	case KindValueStore:
		return "value_store"
	case KindContentSet:
		return "content_set"
	case KindVerb:
		return "verb"
	}
	return "invalid"
}

// Segment is the ephemeral classification of one pipe-delimited unit.
// Which fields are populated depends on Kind.
type Segment struct {
	Raw  string
	Kind Kind

	Selector string // attribute-bind, indexed-set, property-set
	Index    string // indexed-set
	Attr     string // attribute-bind
	Prop     string // indexed-set ("text" means content), property-set
	Name     string // assign / value-store / shell / content target / verb
	Value    string // the right-hand side literal
	Target   string // shell-open target id

	// Default-assign (&name:!existing?default) captures.
	HasDefault bool
	DerefName  string
	Default    string

	Args []string // verb arguments
}

// Split divides a pipeline into its non-empty segments.
func Split(macro string) []string {
	parts := strings.Split(macro, "|")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// Classify matches a segment against the grammar. Unmatched segments come
// back as KindInvalid and are skipped by the engine, not errored.
func Classify(raw string) Segment {
	s := strings.TrimSpace(raw)
	seg := Segment{Raw: raw, Kind: KindInvalid}
	if s == "" {
		return seg
	}

	type trial func(string) (Segment, bool)
	for _, try := range []trial{
		tryAttrBind,
		tryIndexedSet,
		tryShellOpen,
		tryShellClose,
		tryAssign,
		tryPropSet,
		tryValueStore,
		tryContentSet,
		tryVerb,
	} {
		if matched, ok := try(s); ok {
			matched.Raw = raw
			return matched
		}
	}
	return seg
}

// tryAttrBind matches selector[attrName]:value.
func tryAttrBind(s string) (Segment, bool) {
	sel, rest, ok := bracketParts(s)
	if !ok {
		return Segment{}, false
	}
	inner, after := rest[0], rest[1]
	if !strings.HasPrefix(after, ":") {
		return Segment{}, false
	}
	if sel == "" || !isName(inner) {
		return Segment{}, false
	}
	return Segment{
		Kind:     KindAttrBind,
		Selector: sel,
		Attr:     inner,
		Value:    after[1:],
	}, true
}

// tryIndexedSet matches selector[indexExpr].propOrKind:value.
func tryIndexedSet(s string) (Segment, bool) {
	sel, rest, ok := bracketParts(s)
	if !ok {
		return Segment{}, false
	}
	inner, after := rest[0], rest[1]
	if !strings.HasPrefix(after, ".") {
		return Segment{}, false
	}
	prop, value, ok := strings.Cut(after[1:], ":")
	if !ok || sel == "" || !isName(prop) {
		return Segment{}, false
	}
	return Segment{
		Kind:     KindIndexedSet,
		Selector: sel,
		Index:    inner,
		Prop:     prop,
		Value:    value,
	}, true
}

// tryShellOpen matches +targetId:shellName.
func tryShellOpen(s string) (Segment, bool) {
	if !strings.HasPrefix(s, "+") {
		return Segment{}, false
	}
	target, name, ok := strings.Cut(s[1:], ":")
	if !ok || !isName(target) || !isName(name) {
		return Segment{}, false
	}
	return Segment{Kind: KindShellOpen, Target: target, Name: name}, true
}

// tryShellClose matches -shellName.
func tryShellClose(s string) (Segment, bool) {
	if !strings.HasPrefix(s, "-") {
		return Segment{}, false
	}
	name := s[1:]
	if !isName(name) {
		return Segment{}, false
	}
	return Segment{Kind: KindShellClose, Name: name}, true
}

// tryAssign matches &name:value, including the default-assign sub-form
// &name:!existing?default which assigns only when existing is absent.
func tryAssign(s string) (Segment, bool) {
	if !strings.HasPrefix(s, "&") {
		return Segment{}, false
	}
	name, value, ok := strings.Cut(s[1:], ":")
	if !ok || !isName(name) {
		return Segment{}, false
	}
	seg := Segment{Kind: KindAssign, Name: name, Value: value}
	if strings.HasPrefix(value, "!") {
		if deref, def, found := strings.Cut(value[1:], "?"); found && isName(deref) {
			seg.HasDefault = true
			seg.DerefName = deref
			seg.Default = def
		}
	}
	return seg, true
}

// tryPropSet matches selector.prop:value, splitting at the last dot before
// the colon so class selectors (".item.color:red") resolve correctly.
func tryPropSet(s string) (Segment, bool) {
	head, value, ok := strings.Cut(s, ":")
	if !ok {
		return Segment{}, false
	}
	dot := strings.LastIndex(head, ".")
	if dot <= 0 {
		return Segment{}, false
	}
	sel, prop := head[:dot], head[dot+1:]
	if !isName(prop) {
		return Segment{}, false
	}
	return Segment{Kind: KindPropSet, Selector: sel, Prop: prop, Value: value}, true
}

// tryValueStore matches nop:name, storing the last-value register.
func tryValueStore(s string) (Segment, bool) {
	name, ok := strings.CutPrefix(s, "nop:")
	if !ok || !isName(name) {
		return Segment{}, false
	}
	return Segment{Kind: KindValueStore, Name: name}, true
}

// tryContentSet matches $targetId or $targetId:source.
func tryContentSet(s string) (Segment, bool) {
	if !strings.HasPrefix(s, "$") {
		return Segment{}, false
	}
	target, source, _ := strings.Cut(s[1:], ":")
	if !isName(target) {
		return Segment{}, false
	}
	return Segment{Kind: KindContentSet, Name: target, Value: source}, true
}

// tryVerb is the catch-all: verbName:arg1:arg2:...
func tryVerb(s string) (Segment, bool) {
	name, rest, hasArgs := strings.Cut(s, ":")
	if !isName(name) {
		return Segment{}, false
	}
	seg := Segment{Kind: KindVerb, Name: name}
	if hasArgs {
		seg.Args = splitArgs(rest)
	}
	return seg, true
}

// splitArgs splits verb arguments on colons, except colons that introduce
// "//" so URLs survive intact (ajax:http://host/path:GET). The guard does
// not extend past the scheme: a port colon (http://host:8080/x) still
// splits, because the colon is the argument delimiter of the grammar and a
// later ":GET" argument is indistinguishable from a path. Pages that need a
// port put the URL in a variable and pass !name.
func splitArgs(s string) []string {
	var args []string
	var cur strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == ':' && !strings.HasPrefix(s[i+1:], "//") {
			args = append(args, cur.String())
			cur.Reset()
			continue
		}
		cur.WriteByte(s[i])
	}
	args = append(args, cur.String())
	return args
}

// bracketParts splits selector[inner]rest, rejecting nested or unterminated
// brackets.
func bracketParts(s string) (sel string, parts [2]string, ok bool) {
	open := strings.Index(s, "[")
	if open <= 0 {
		return "", parts, false
	}
	end := strings.Index(s[open:], "]")
	if end < 0 {
		return "", parts, false
	}
	end += open
	inner := s[open+1 : end]
	if strings.Contains(inner, "[") {
		return "", parts, false
	}
	return s[:open], [2]string{inner, s[end+1:]}, true
}

// isName accepts identifier-ish tokens: letters, digits, underscore and
// hyphen, starting with a letter or underscore.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_':
		case r >= '0' && r <= '9' || r == '-':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
