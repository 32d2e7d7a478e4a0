package binding_test

import (
	"encoding/json"
	"testing"

	"github.com/paintjr/paintjr/binding"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var data any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		t.Fatalf("bad test data: %v", err)
	}
	return data
}

func TestInterpolate(t *testing.T) {
	data := decode(t, `{"user": {"name": "mei"}, "files": ["a.png", "b.png"]}`)

	cases := []struct {
		in, want string
	}{
		{"hello ${user.name}", "hello mei"},
		{"${files[1]}", "b.png"},
		{"no placeholders", "no placeholders"},
		{"${missing.path}", "${missing.path}"},
		{"${user.name}/${files[0]}", "mei/a.png"},
	}
	for _, c := range cases {
		if got := binding.Interpolate(c.in, data); got != c.want {
			t.Fatalf("Interpolate(%q): got=%q want=%q", c.in, got, c.want)
		}
	}

	if got := binding.Interpolate("${user.name}", nil); got != "${user.name}" {
		t.Fatalf("nil data must keep placeholder, got %q", got)
	}
}

// Expand 对“纯占位符”应返回绑定值本身并保留类型（数值仍是 float64）。
func TestExpandKeepsScalarType(t *testing.T) {
	data := decode(t, `{"brush": {"width": 4.5, "color": "#aabbcc"}}`)

	val, ok := binding.Expand("${brush.width}", data)
	if !ok {
		t.Fatalf("expand failed")
	}
	if w, isFloat := val.(float64); !isFloat || w != 4.5 {
		t.Fatalf("expected float64 4.5, got %T %v", val, val)
	}

	val, ok = binding.Expand("x${brush.width}", data)
	if !ok {
		t.Fatalf("expand failed")
	}
	if s, isStr := val.(string); !isStr || s != "x4.5" {
		t.Fatalf("mixed text must interpolate to string, got %T %v", val, val)
	}

	if _, ok := binding.Expand("${brush.size}", data); ok {
		t.Fatalf("unknown path must not resolve")
	}
}

func TestLookup(t *testing.T) {
	data := decode(t, `{"strokes": [{"width": 1}, {"width": 2}]}`)

	val, ok := binding.Lookup(data, "strokes[1].width")
	if !ok || val.(float64) != 2 {
		t.Fatalf("Lookup strokes[1].width: got=%v ok=%v", val, ok)
	}
	if _, ok := binding.Lookup(data, "strokes[5].width"); ok {
		t.Fatalf("out-of-range index must not resolve")
	}
	if _, ok := binding.Lookup(data, "strokes[x]"); ok {
		t.Fatalf("non-numeric index must not resolve")
	}
	if _, ok := binding.Lookup(data, ""); ok {
		t.Fatalf("empty path must not resolve")
	}
}
