package classify

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	got := Split("&n:1||log:!n|")
	want := []string{"&n:1", "log:!n"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Split = %v, want %v", got, want)
	}
	if got := Split(""); len(got) != 0 {
		t.Errorf("Split(\"\") = %v, want empty", got)
	}
}

func TestClassify_Forms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Segment
	}{
		{
			"attribute bind",
			"#box[data-state]:open",
			Segment{Kind: KindAttrBind, Selector: "#box", Attr: "data-state", Value: "open"},
		},
		{
			"indexed content set",
			".item[1:4:2].text:hi",
			Segment{Kind: KindIndexedSet, Selector: ".item", Index: "1:4:2", Prop: "text", Value: "hi"},
		},
		{
			"indexed style set",
			".item[-1].color:red",
			Segment{Kind: KindIndexedSet, Selector: ".item", Index: "-1", Prop: "color", Value: "red"},
		},
		{
			"shell open",
			"+panel:edit",
			Segment{Kind: KindShellOpen, Target: "panel", Name: "edit"},
		},
		{
			"shell close",
			"-edit",
			Segment{Kind: KindShellClose, Name: "edit"},
		},
		{
			"plain assign",
			"&n:testing",
			Segment{Kind: KindAssign, Name: "n", Value: "testing"},
		},
		{
			"default assign",
			"&x:!y?5",
			Segment{Kind: KindAssign, Name: "x", Value: "!y?5", HasDefault: true, DerefName: "y", Default: "5"},
		},
		{
			"bare property set",
			"#box.color:blue",
			Segment{Kind: KindPropSet, Selector: "#box", Prop: "color", Value: "blue"},
		},
		{
			"class selector property set",
			".item.display:none",
			Segment{Kind: KindPropSet, Selector: ".item", Prop: "display", Value: "none"},
		},
		{
			"value store",
			"nop:result",
			Segment{Kind: KindValueStore, Name: "result"},
		},
		{
			"content set from register",
			"$out",
			Segment{Kind: KindContentSet, Name: "out"},
		},
		{
			"content set from variable",
			"$out:!n",
			Segment{Kind: KindContentSet, Name: "out", Value: "!n"},
		},
		{
			"verb with args",
			"inc:counter:!step",
			Segment{Kind: KindVerb, Name: "inc", Args: []string{"counter", "!step"}},
		},
		{
			"verb without args",
			"log",
			Segment{Kind: KindVerb, Name: "log"},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Classify(c.raw)
			c.want.Raw = c.raw
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("Classify(%q)\n got: %+v\nwant: %+v", c.raw, got, c.want)
			}
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// Attribute-bind wins over indexed-set when there is no dot after the
	// bracket.
	if got := Classify("#a[title]:x").Kind; got != KindAttrBind {
		t.Errorf("bracket-colon form classified as %v", got)
	}
	// nop is value-store, never a verb.
	if got := Classify("nop:x").Kind; got != KindValueStore {
		t.Errorf("nop classified as %v", got)
	}
	// A dotted head is a property set, not a verb.
	if got := Classify("box.color:red").Kind; got != KindPropSet {
		t.Errorf("dotted head classified as %v", got)
	}
}

func TestClassify_URLArgsSurvive(t *testing.T) {
	seg := Classify("ajax:http://api.local/items:POST")
	if seg.Kind != KindVerb {
		t.Fatalf("classified as %v", seg.Kind)
	}
	want := []string{"http://api.local/items", "POST"}
	if !reflect.DeepEqual(seg.Args, want) {
		t.Errorf("args = %v, want %v", seg.Args, want)
	}

	// A port colon is still a delimiter; such URLs go through a variable.
	seg = Classify("ajax:http://api.local:8080/items:POST")
	want = []string{"http://api.local", "8080/items", "POST"}
	if !reflect.DeepEqual(seg.Args, want) {
		t.Errorf("args = %v, want %v", seg.Args, want)
	}
}

func TestClassify_UnmatchedIsInvalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "[broken", "#a[3]:x", "&:x", "+:name", "$"} {
		if got := Classify(raw).Kind; got != KindInvalid {
			t.Errorf("Classify(%q).Kind = %v, want invalid", raw, got)
		}
	}
}
