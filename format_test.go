package jsondiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormatPretty(t *testing.T) {
	res := newResult([]*Change{
		{Path: "a", Type: ChangeAdded, NewValue: obj("b", float64(5))},
		{Path: "b[0]", Type: ChangeRemoved, OldValue: "<gone>"},
		{Path: "c", Type: ChangeModified, OldValue: nil, NewValue: []interface{}{true}},
		{Path: "name", Type: ChangeModified, OldValue: "cat", NewValue: "car"},
		{Path: "word", Type: ChangeModified, OldValue: "yes", NewValue: "no"},
		{Path: "d", Type: ChangeUnchanged, OldValue: float64(1), NewValue: float64(1)},
		{Path: "", Type: ChangeModified, OldValue: float64(1), NewValue: "1"},
	})

	got, err := FormatPrettyString(res, false)
	if err != nil {
		t.Fatal(err)
	}
	expect := strings.Join([]string{
		`+ a: {"b":5}`,
		`- b[0]: "<gone>"`,
		`~ c: null => [true]`,
		`~ name: "ca[-t-]{+r+}"`,
		`~ word: "[-yes-]{+no+}"`,
		`  d: 1`,
		`~ (root): 1 => "1"`,
	}, "\n") + "\n"
	if diff := cmp.Diff(expect, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatPrettyColor(t *testing.T) {
	res := newResult([]*Change{
		{Path: "name", Type: ChangeModified, OldValue: "cat", NewValue: "car"},
	})
	got, err := FormatPrettyString(res, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ANSI escapes in colored output, got %q", got)
	}
	if strings.Contains(got, "{+") {
		t.Errorf("colored output should not carry plain diff markers, got %q", got)
	}
}

func TestFormatPrettyEmpty(t *testing.T) {
	got, err := FormatPrettyString(newResult(nil), false)
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Errorf("expected no output for an empty result, got %q", got)
	}
}

func TestFormatStatsPretty(t *testing.T) {
	cases := []struct {
		description string
		input       *Stats
		expect      string
	}{
		{"all plural",
			&Stats{Left: 2, Right: 6, Added: 6, Modified: 2, Removed: 2},
			"+4 elements. 6 added. 2 removed. 2 modified.\n",
		},
		{"all singular",
			&Stats{Left: 2, Right: 1, Added: 1, Modified: 1, Removed: 1},
			"-1 element. 1 added. 1 removed. 1 modified.\n",
		},
		{"no change in size",
			&Stats{Left: 3, Right: 3, Modified: 1},
			"0 elements. 0 added. 0 removed. 1 modified.\n",
		},
		{"cycles and truncation",
			&Stats{Left: 3, Right: 3, Modified: 1, Cycles: 2, Truncated: 1},
			"0 elements. 0 added. 0 removed. 1 modified. 2 circular. 1 truncated.\n",
		},
	}

	for i, c := range cases {
		got := FormatPrettyStats(c.input)
		if got != c.expect {
			t.Errorf("%d %s\nwant:\n%s\ngot:\n%s", i, c.description, c.expect, got)
		}
	}
}

func TestFormatStatsNull(t *testing.T) {
	got := FormatPrettyStats(nil)
	expect := ``
	if got != expect {
		t.Errorf("want:\n%s\ngot:\n%s", expect, got)
	}
}
