package jsondiff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatPath(t *testing.T) {
	cases := []struct {
		addrs  []Addr
		expect string
	}{
		{nil, ""},
		{[]Addr{StringAddr("a")}, "a"},
		{[]Addr{IndexAddr(3)}, "[3]"},
		{[]Addr{StringAddr("a"), StringAddr("b"), IndexAddr(2), StringAddr("c")}, "a.b[2].c"},
		{[]Addr{StringAddr("$ref"), StringAddr("_id"), StringAddr("kebab-case")}, "$ref._id.kebab-case"},
		{[]Addr{StringAddr("x.y")}, `["x.y"]`},
		{[]Addr{StringAddr("a"), StringAddr("0")}, `a["0"]`},
		{[]Addr{StringAddr("")}, `[""]`},
		{[]Addr{StringAddr(`say "hi"`), StringAddr("<b>")}, `["say \"hi\""]["<b>"]`},
		{[]Addr{StringAddr("-leading")}, `["-leading"]`},
	}

	for _, c := range cases {
		got := FormatPath(c.addrs)
		if got != c.expect {
			t.Errorf("%v: want %q, got %q", c.addrs, c.expect, got)
			continue
		}
		back, err := ParsePath(got)
		if err != nil {
			t.Errorf("parsing %q: %s", got, err)
			continue
		}
		if diff := cmp.Diff(c.addrs, back); diff != "" && !(len(c.addrs) == 0 && len(back) == 0) {
			t.Errorf("%q round trip mismatch (-want +got):\n%s", got, diff)
		}
	}
}

func TestParsePathErrors(t *testing.T) {
	bad := []string{
		"a..b",
		".a",
		"a[",
		"a[x]",
		"a[-1]",
		`a["x]`,
		`a["x"`,
		"a]",
	}
	for _, p := range bad {
		if addrs, err := ParsePath(p); err == nil {
			t.Errorf("%q: expected error, got %v", p, addrs)
		}
	}
}

func TestPointer(t *testing.T) {
	cases := []struct {
		path, expect string
	}{
		{"", ""},
		{"a", "/a"},
		{"[0].a", "/0/a"},
		{`a["x/y"]`, "/a/x~1y"},
		{`["~0"]`, "/~00"},
		{`[""]`, "/"},
	}
	for _, c := range cases {
		got, err := Pointer(c.path)
		if err != nil {
			t.Errorf("%q: %s", c.path, err)
			continue
		}
		if got != c.expect {
			t.Errorf("%q: want %q, got %q", c.path, c.expect, got)
		}
	}
}

func TestAddrEq(t *testing.T) {
	if !StringAddr("a").Eq(StringAddr("a")) {
		t.Error("expected equal string addresses")
	}
	if StringAddr("0").Eq(IndexAddr(0)) {
		t.Error("string and index addresses must differ")
	}
	if IndexAddr(1).Value() != 1 {
		t.Error("expected index value to be an int")
	}
}
