package registry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/dotpipe/dotpipe/pkg/domain"
)

// Default builds a registry pre-loaded with the builtin verb set. Verbs that
// mutate state take a variable name as their first argument and operate on
// the call's scope; pure verbs work on the argument values alone.
func Default(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := New()

	r.Register("log", func(_ context.Context, call *Call) (domain.Value, error) {
		parts := make([]string, len(call.Args))
		for i, a := range call.Args {
			parts[i] = a.String()
		}
		logger.Info("pipeline log", "message", strings.Join(parts, " "))
		return call.Arg(0), nil
	})

	r.Register("inc", stepVerb(1))
	r.Register("dec", stepVerb(-1))

	r.Register("toggle", func(_ context.Context, call *Call) (domain.Value, error) {
		name := call.Arg(0).Render()
		if name == "" {
			return domain.Absent(), fmt.Errorf("toggle: missing variable name")
		}
		next := domain.Bool(!call.Scope.Get(name).Flag())
		call.Scope.SetValue(name, next)
		return next, nil
	})

	r.Register("clamp", func(_ context.Context, call *Call) (domain.Value, error) {
		name := call.Arg(0).Render()
		if name == "" {
			return domain.Absent(), fmt.Errorf("clamp: missing variable name")
		}
		lo, hi := 0.0, 100.0
		if a := call.Arg(1); !a.IsAbsent() {
			lo = a.Num()
		}
		if a := call.Arg(2); !a.IsAbsent() {
			hi = a.Num()
		}
		n := call.Scope.Get(name).Num()
		clamped := domain.Number(math.Min(math.Max(n, lo), hi))
		call.Scope.SetValue(name, clamped)
		return clamped, nil
	})

	r.Register("sleep", func(ctx context.Context, call *Call) (domain.Value, error) {
		ms := call.Arg(0).Num()
		if ms <= 0 {
			return domain.Absent(), nil
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			return domain.Absent(), nil
		case <-ctx.Done():
			return domain.Absent(), ctx.Err()
		}
	})

	r.Register("add", foldVerb(func(a, b float64) float64 { return a + b }))
	r.Register("sub", foldVerb(func(a, b float64) float64 { return a - b }))
	r.Register("mul", foldVerb(func(a, b float64) float64 { return a * b }))
	r.Register("max", foldVerb(math.Max))
	r.Register("min", foldVerb(math.Min))

	r.Register("div", func(_ context.Context, call *Call) (domain.Value, error) {
		if len(call.Args) < 2 {
			return domain.Absent(), fmt.Errorf("div: need two arguments")
		}
		d := call.Arg(1).Num()
		if d == 0 {
			return domain.Absent(), fmt.Errorf("div: division by zero")
		}
		return domain.Number(call.Arg(0).Num() / d), nil
	})

	r.Register("mod", func(_ context.Context, call *Call) (domain.Value, error) {
		if len(call.Args) < 2 {
			return domain.Absent(), fmt.Errorf("mod: need two arguments")
		}
		d := call.Arg(1).Num()
		if d == 0 {
			return domain.Absent(), fmt.Errorf("mod: division by zero")
		}
		return domain.Number(math.Mod(call.Arg(0).Num(), d)), nil
	})

	r.Register("random", func(_ context.Context, call *Call) (domain.Value, error) {
		lo, hi := 0.0, 1.0
		if a := call.Arg(0); !a.IsAbsent() {
			lo = a.Num()
		}
		if a := call.Arg(1); !a.IsAbsent() {
			hi = a.Num()
		}
		if hi < lo {
			lo, hi = hi, lo
		}
		return domain.Number(lo + rand.Float64()*(hi-lo)), nil
	})

	r.Register("concat", func(_ context.Context, call *Call) (domain.Value, error) {
		var sb strings.Builder
		for _, a := range call.Args {
			sb.WriteString(a.Render())
		}
		return domain.Text(sb.String()), nil
	})

	r.Register("uppercase", textVerb(strings.ToUpper))
	r.Register("lowercase", textVerb(strings.ToLower))
	r.Register("trim", textVerb(strings.TrimSpace))

	r.Register("replace", func(_ context.Context, call *Call) (domain.Value, error) {
		s := call.Arg(0).Render()
		old := call.Arg(1).Render()
		if old == "" {
			return domain.Text(s), nil
		}
		return domain.Text(strings.ReplaceAll(s, old, call.Arg(2).Render())), nil
	})

	r.Register("length", func(_ context.Context, call *Call) (domain.Value, error) {
		return domain.Number(float64(len(call.Arg(0).Render()))), nil
	})

	return r
}

// stepVerb implements inc and dec: first argument names the scope variable,
// optional second argument is the step (default 1).
func stepVerb(sign float64) Func {
	return func(_ context.Context, call *Call) (domain.Value, error) {
		name := call.Arg(0).Render()
		if name == "" {
			return domain.Absent(), fmt.Errorf("missing variable name")
		}
		step := 1.0
		if a := call.Arg(1); !a.IsAbsent() {
			step = a.Num()
		}
		next := domain.Number(call.Scope.Get(name).Num() + sign*step)
		call.Scope.SetValue(name, next)
		return next, nil
	}
}

// foldVerb reduces the numeric readings of all arguments left to right.
func foldVerb(op func(a, b float64) float64) Func {
	return func(_ context.Context, call *Call) (domain.Value, error) {
		if len(call.Args) == 0 {
			return domain.Absent(), fmt.Errorf("need at least one argument")
		}
		acc := call.Arg(0).Num()
		for _, a := range call.Args[1:] {
			acc = op(acc, a.Num())
		}
		return domain.Number(acc), nil
	}
}

// textVerb lifts a string transform over the first argument's rendering.
func textVerb(fn func(string) string) Func {
	return func(_ context.Context, call *Call) (domain.Value, error) {
		return domain.Text(fn(call.Arg(0).Render())), nil
	}
}
