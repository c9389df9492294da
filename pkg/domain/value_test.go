package domain

import "testing"

func TestParse_Coercion(t *testing.T) {
	cases := []struct {
		raw  string
		kind Kind
	}{
		{"42", KindNumber},
		{"-3.5", KindNumber},
		{"true", KindBool},
		{"false", KindBool},
		{"hello", KindText},
		{"", KindText},
		{"12abc", KindText},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			if got := Parse(c.raw).Kind(); got != c.kind {
				t.Errorf("Parse(%q).Kind() = %v, want %v", c.raw, got, c.kind)
			}
		})
	}
}

func TestValue_Render(t *testing.T) {
	if got := Number(10).Render(); got != "10" {
		t.Errorf("Number(10).Render() = %q, want \"10\"", got)
	}
	if got := Number(2.5).Render(); got != "2.5" {
		t.Errorf("Number(2.5).Render() = %q, want \"2.5\"", got)
	}
	if got := Bool(true).Render(); got != "ON" {
		t.Errorf("Bool(true).Render() = %q, want \"ON\"", got)
	}
	if got := Bool(false).Render(); got != "OFF" {
		t.Errorf("Bool(false).Render() = %q, want \"OFF\"", got)
	}
	if got := Absent().Render(); got != "" {
		t.Errorf("Absent().Render() = %q, want \"\"", got)
	}
}

func TestValue_Num(t *testing.T) {
	if got := Absent().Num(); got != 0 {
		t.Errorf("Absent().Num() = %v, want 0", got)
	}
	if got := Text("7").Num(); got != 7 {
		t.Errorf("Text(\"7\").Num() = %v, want 7", got)
	}
	if got := Text("nope").Num(); got != 0 {
		t.Errorf("Text(\"nope\").Num() = %v, want 0", got)
	}
	if got := Bool(true).Num(); got != 1 {
		t.Errorf("Bool(true).Num() = %v, want 1", got)
	}
}
