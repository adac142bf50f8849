package symbols

import (
	"runtime"
	"testing"
)

func TestResolveAndCache(t *testing.T) {
	r := New()

	pcs := make([]uintptr, 1)
	n := runtime.Callers(1, pcs)
	if n == 0 {
		t.Fatal("runtime.Callers returned no frames")
	}

	f := r.Resolve(pcs[0])
	if f.Function == "" {
		t.Fatal("Resolve did not find a function name for a live PC")
	}

	if got := r.Resolve(pcs[0]); got != f {
		t.Fatalf("cached Resolve = %+v, want %+v", got, f)
	}

	if len(r.cache) != 1 {
		t.Fatalf("cache size = %d, want 1", len(r.cache))
	}
}

func TestCallerInfo(t *testing.T) {
	r := New()

	pcs := make([]uintptr, 1)
	runtime.Callers(1, pcs)

	ci := r.CallerInfo(pcs[0])
	if ci.Func == "" || ci.File == "" || ci.Line == 0 {
		t.Fatalf("CallerInfo incomplete: %+v", ci)
	}
}

func TestAnnotate(t *testing.T) {
	r := New()

	pcs := make([]uintptr, 2)
	n := runtime.Callers(1, pcs)

	frames := r.Annotate(pcs[:n])
	if len(frames) != n {
		t.Fatalf("Annotate returned %d frames, want %d", len(frames), n)
	}
}
