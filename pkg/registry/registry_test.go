package registry

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

func testRegistry() *Registry {
	return Default(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func call(scope *domain.Scope, verb string, args ...domain.Value) *Call {
	return &Call{Verb: verb, Args: args, Scope: scope}
}

func TestRegistry_RegisterOverwrites(t *testing.T) {
	r := New()
	r.Register("probe", func(_ context.Context, _ *Call) (domain.Value, error) {
		return domain.Number(1), nil
	})
	r.Register("probe", func(_ context.Context, _ *Call) (domain.Value, error) {
		return domain.Number(2), nil
	})

	got, err := r.Execute(context.Background(), call(domain.NewScope(), "probe"))
	if err != nil {
		t.Fatal(err)
	}
	if got.Num() != 2 {
		t.Errorf("expected later registration to win, got %v", got)
	}
}

func TestRegistry_UnknownVerb(t *testing.T) {
	r := New()
	_, err := r.Execute(context.Background(), call(domain.NewScope(), "ghost"))
	if err == nil {
		t.Fatal("expected error for unregistered verb")
	}
}

func TestBuiltins_IncDec(t *testing.T) {
	r := testRegistry()
	scope := domain.NewScope()
	scope.Set("count", "0")
	ctx := context.Background()

	v, err := r.Execute(ctx, call(scope, "inc", domain.Text("count"), domain.Number(5)))
	if err != nil {
		t.Fatal(err)
	}
	if v.Num() != 5 {
		t.Errorf("inc result = %v, want 5", v)
	}

	// Default step is 1.
	if _, err := r.Execute(ctx, call(scope, "inc", domain.Text("count"))); err != nil {
		t.Fatal(err)
	}
	if got := scope.Get("count").Num(); got != 6 {
		t.Errorf("count = %v, want 6", got)
	}

	if _, err := r.Execute(ctx, call(scope, "dec", domain.Text("count"), domain.Number(2))); err != nil {
		t.Fatal(err)
	}
	if got := scope.Get("count").Num(); got != 4 {
		t.Errorf("count = %v, want 4", got)
	}
}

func TestBuiltins_IncAbsentStartsAtZero(t *testing.T) {
	r := testRegistry()
	scope := domain.NewScope()

	v, err := r.Execute(context.Background(), call(scope, "inc", domain.Text("fresh")))
	if err != nil {
		t.Fatal(err)
	}
	if v.Num() != 1 {
		t.Errorf("inc on absent = %v, want 1", v)
	}
}

func TestBuiltins_Toggle(t *testing.T) {
	r := testRegistry()
	scope := domain.NewScope()
	ctx := context.Background()

	v, err := r.Execute(ctx, call(scope, "toggle", domain.Text("lit")))
	if err != nil {
		t.Fatal(err)
	}
	if !v.Flag() || v.Render() != "ON" {
		t.Errorf("first toggle = %v, want ON", v)
	}

	v, err = r.Execute(ctx, call(scope, "toggle", domain.Text("lit")))
	if err != nil {
		t.Fatal(err)
	}
	if v.Flag() {
		t.Errorf("second toggle = %v, want OFF", v)
	}
}

func TestBuiltins_Clamp(t *testing.T) {
	r := testRegistry()
	scope := domain.NewScope()
	scope.Set("volume", "250")

	v, err := r.Execute(context.Background(), call(scope, "clamp",
		domain.Text("volume"), domain.Number(0), domain.Number(11)))
	if err != nil {
		t.Fatal(err)
	}
	if v.Num() != 11 {
		t.Errorf("clamp = %v, want 11", v)
	}
	if got := scope.Get("volume").Num(); got != 11 {
		t.Errorf("stored = %v, want 11", got)
	}

	// Default bounds are 0..100.
	scope.Set("volume", "-3")
	v, _ = r.Execute(context.Background(), call(scope, "clamp", domain.Text("volume")))
	if v.Num() != 0 {
		t.Errorf("clamp with defaults = %v, want 0", v)
	}
}

func TestBuiltins_Arithmetic(t *testing.T) {
	r := testRegistry()
	scope := domain.NewScope()
	ctx := context.Background()

	cases := []struct {
		verb string
		args []float64
		want float64
	}{
		{"add", []float64{1, 2, 3}, 6},
		{"sub", []float64{10, 4}, 6},
		{"mul", []float64{3, 4}, 12},
		{"div", []float64{9, 3}, 3},
		{"mod", []float64{7, 3}, 1},
		{"max", []float64{2, 9, 4}, 9},
		{"min", []float64{2, 9, 4}, 2},
	}
	for _, c := range cases {
		args := make([]domain.Value, len(c.args))
		for i, n := range c.args {
			args[i] = domain.Number(n)
		}
		v, err := r.Execute(ctx, call(scope, c.verb, args...))
		if err != nil {
			t.Fatalf("%s: %v", c.verb, err)
		}
		if v.Num() != c.want {
			t.Errorf("%s(%v) = %v, want %v", c.verb, c.args, v, c.want)
		}
	}

	if _, err := r.Execute(ctx, call(scope, "div", domain.Number(1), domain.Number(0))); err == nil {
		t.Error("expected division-by-zero error")
	}
}

func TestBuiltins_Strings(t *testing.T) {
	r := testRegistry()
	scope := domain.NewScope()
	ctx := context.Background()

	v, _ := r.Execute(ctx, call(scope, "concat", domain.Text("a"), domain.Number(1), domain.Bool(true)))
	if v.Render() != "a1ON" {
		t.Errorf("concat = %q", v.Render())
	}

	v, _ = r.Execute(ctx, call(scope, "uppercase", domain.Text("hey")))
	if v.Render() != "HEY" {
		t.Errorf("uppercase = %q", v.Render())
	}

	v, _ = r.Execute(ctx, call(scope, "replace", domain.Text("a-b-c"), domain.Text("-"), domain.Text("+")))
	if v.Render() != "a+b+c" {
		t.Errorf("replace = %q", v.Render())
	}

	v, _ = r.Execute(ctx, call(scope, "length", domain.Text("four")))
	if v.Num() != 4 {
		t.Errorf("length = %v", v)
	}
}

func TestBuiltins_SleepHonorsCancellation(t *testing.T) {
	r := testRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, call(domain.NewScope(), "sleep", domain.Number(5000)))
	if err == nil {
		t.Fatal("expected context error from cancelled sleep")
	}
}

func TestBuiltins_Random(t *testing.T) {
	r := testRegistry()
	for i := 0; i < 20; i++ {
		v, err := r.Execute(context.Background(), call(domain.NewScope(), "random",
			domain.Number(5), domain.Number(10)))
		if err != nil {
			t.Fatal(err)
		}
		if v.Num() < 5 || v.Num() >= 10 {
			t.Fatalf("random out of range: %v", v)
		}
	}
}
