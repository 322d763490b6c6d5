// Package jsondiff is a structural differ for JSON documents. It compares a
// base document with a comparison document and describes every place they
// diverge as a Change: an addition, a removal or a modification, each
// qualified by a path.
//
// Diffing is positional. Object members are matched by key and array
// elements by index; jsondiff does not try to detect moved or reordered
// elements. Every divergent location is reported exactly once, at the
// shallowest point where the documents differ: a subtree that only exists on
// one side is reported whole, and a value that changes kind (an object
// becoming an array, say) is a single modification. Changes come back in
// depth-first order of the union of both documents, base keys first, so the
// same inputs always produce the same output.
//
// Instead of operating on JSON text directly, jsondiff operates on document
// trees. Parse produces them with object member order preserved:
//
//	*Object
//	[]interface{}
//
// and four scalar types:
//
//	string, float64, bool, nil
//
// Values produced by encoding/json.Unmarshal (map[string]interface{}) are
// also accepted, as are Go integer types.
//
// Paths use dot notation for object keys and brackets for array indices,
// with the root written as the empty string:
//
//	a.b[2].c
//
// keys that would be ambiguous in that notation are quoted: a["x.y"]. Pointer
// converts a path to an RFC 6901 JSON pointer, and Patch turns a Result into
// an RFC 6902 JSON Patch.
//
// The schedule subpackage decides when an interactive consumer should run a
// comparison as the user types, and the live subpackage serves that loop
// over a websocket.
package jsondiff
