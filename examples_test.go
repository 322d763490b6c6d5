package jsondiff

import (
	"context"
	"fmt"
)

func ExampleFormatPretty() {
	// we'll use the background as our execution context
	ctx := context.Background()

	// start with two slightly different json documents
	aJSON := []byte(`{
		"a": 100,
		"foo": [1,2,3],
		"bar": false,
		"baz": {
			"a": {
				"b": 4,
				"c": false,
				"d": "apples-and-oranges"
			},
			"e": null,
			"g": "apples-and-oranges"
		}
	}`)

	bJSON := []byte(`{
		"a": 99,
		"foo": [1,2,3],
		"bar": false,
		"baz": {
			"a": {
				"b": 5,
				"c": false,
				"d": "apples-and-oranges"
			},
			"e": "thirty-thousand-something-dogecoin",
			"f": false
		}
	}`)

	// create a differ, using the default configuration
	dd := New()

	// Compare parses both documents and produces a Result listing every
	// structural change, in document order
	res, err := dd.Compare(ctx, aJSON, bJSON)
	if err != nil {
		panic(err)
	}

	// Format the changes for terminal output
	change, err := FormatPrettyString(res, false)
	if err != nil {
		panic(err)
	}

	fmt.Print(change)
	// Output: ~ a: 100 => 99
	// ~ baz.a.b: 4 => 5
	// ~ baz.e: null => "thirty-thousand-something-dogecoin"
	// - baz.g: "apples-and-oranges"
	// + baz.f: false
}

func ExamplePointer() {
	for _, path := range []string{"", "a.b[2]", `a["x/y"]["~"]`} {
		ptr, err := Pointer(path)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%q\n", ptr)
	}
	// Output: ""
	// "/a/b/2"
	// "/a/x~1y/~0"
}
