package jsondiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cases := []struct {
		description string
		input       string
		expect      interface{}
	}{
		{"null", `null`, nil},
		{"number", ` 1.5e2 `, float64(150)},
		{"string", `"aé\n"`, "aé\n"},
		{"empty containers", `[{},[]]`, arr(obj(), arr())},
		{"member order kept", `{"z":1,"a":{"y":true,"b":null}}`, obj("z", float64(1), "a", obj("y", true, "b", nil))},
		{"duplicate keys keep first position and last value", `{"a":1,"b":2,"a":3}`, obj("a", float64(3), "b", float64(2))},
		{"objects in arrays", `[{"a":[1,{"b":"c"}]}]`, arr(obj("a", arr(float64(1), obj("b", "c"))))},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			got, err := Parse([]byte(c.input))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.expect, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		description string
		input       string
	}{
		{"empty", ``},
		{"unterminated object", `{"a":1`},
		{"unterminated array", `[1,2`},
		{"bad literal", `{"a":tru}`},
		{"missing value", `{"a":}`},
		{"trailing value", `1 2`},
		{"trailing container", `{} []`},
		{"single quotes", `{'a':1}`},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			if v, err := Parse([]byte(c.input)); err == nil {
				t.Errorf("expected error, got %v", v)
			}
		})
	}
}

func TestParseDeepNesting(t *testing.T) {
	depth := 2000
	doc := strings.Repeat(`{"a":[`, depth) + strings.Repeat("]}", depth)
	if _, err := Parse([]byte(doc)); err != nil {
		t.Fatal(err)
	}
}

func TestObjectMarshalJSON(t *testing.T) {
	v, err := Parse([]byte(`{"z":1,"a":[{"c":2,"b":3}],"":null}`))
	if err != nil {
		t.Fatal(err)
	}
	got, err := v.(*Object).MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	expect := `{"z":1,"a":[{"c":2,"b":3}],"":null}`
	if string(got) != expect {
		t.Errorf("want: %s\ngot:  %s", expect, got)
	}
}
