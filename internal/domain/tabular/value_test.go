package tabular

import (
	"encoding/json"
	"testing"
)

func TestValueText(t *testing.T) {
	cases := []struct {
		in   Value
		want string
	}{
		{Number(5), "5"},
		{Number(5.5), "5.5"},
		{String("hello"), "hello"},
		{Null(), "null"},
	}
	for _, c := range cases {
		if got := c.in.Text(); got != c.want {
			t.Errorf("Text() = %q, want %q", got, c.want)
		}
	}
}

func TestValueFloat(t *testing.T) {
	if f, ok := String(" 3.25 ").Float(); !ok || f != 3.25 {
		t.Errorf("Float() = %v, %v", f, ok)
	}
	if _, ok := String("3.25kg").Float(); ok {
		t.Error("suffixed value should not parse")
	}
	if _, ok := Null().Float(); ok {
		t.Error("null should not parse")
	}
}

func TestValueJSONRoundTrip(t *testing.T) {
	var row Row
	in := []byte(`{"a": 1.5, "b": "x", "c": null, "d": true}`)
	if err := json.Unmarshal(in, &row); err != nil {
		t.Fatalf("unmarshal row: %v", err)
	}
	if row["a"].Kind() != KindNumber || row["b"].Kind() != KindString {
		t.Fatalf("unexpected kinds: %v %v", row["a"].Kind(), row["b"].Kind())
	}
	if !row["c"].IsNull() {
		t.Error("c should be null")
	}
	if row["d"].Text() != "true" {
		t.Errorf("booleans coerce to strings, got %q", row["d"].Text())
	}

	out, err := json.Marshal(Row{"n": Number(2), "s": String("y"), "z": Null()})
	if err != nil {
		t.Fatalf("marshal row: %v", err)
	}
	if string(out) != `{"n":2,"s":"y","z":null}` {
		t.Errorf("unexpected json: %s", out)
	}
}
