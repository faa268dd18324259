package csvio

import (
	"errors"
	"testing"

	"github.com/bryanwahyu/datalens/internal/domain/tabular"
)

func TestParse(t *testing.T) {
	data := []byte("name,age,city\nandi,30,Jakarta\nbudi,,Bandung\n")
	tbl, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Header) != 3 || tbl.Header[0] != "name" {
		t.Fatalf("unexpected header: %v", tbl.Header)
	}
	if len(tbl.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(tbl.Rows))
	}
	if got := tbl.Rows[0]["age"].Text(); got != "30" {
		t.Errorf("age = %q", got)
	}
	// empty cell stays an empty string, not an absent key
	if v, ok := tbl.Rows[1]["age"]; !ok || v.Text() != "" {
		t.Errorf("empty cell should be kept: %v %v", v, ok)
	}
}

func TestParseSniffsSemicolonAndTab(t *testing.T) {
	tbl, err := Parse([]byte("a;b\n1;2\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Header) != 2 || tbl.Header[1] != "b" {
		t.Fatalf("semicolon not sniffed: %v", tbl.Header)
	}

	tbl, err = Parse([]byte("a\tb\n1\t2\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Header) != 2 {
		t.Fatalf("tab not sniffed: %v", tbl.Header)
	}
}

func TestParseShortRow(t *testing.T) {
	tbl, err := Parse([]byte("a,b,c\n1,2\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := tbl.Rows[0]["c"]; ok {
		t.Error("missing trailing cell should stay absent")
	}
	out := tabular.CountMissingValues(tbl.Rows, []string{"c"})
	if out["c"].Count != 1 {
		t.Errorf("absent cell not counted as missing: %+v", out["c"])
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}
