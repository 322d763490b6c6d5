package jsondiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	jsonpatch "github.com/evanphx/json-patch"
)

// PatchOp is a single RFC 6902 JSON Patch operation
type PatchOp struct {
	Op    string
	Path  string
	Value interface{}
}

// MarshalJSON emits a value member for add and replace, even when the value
// is null
func (op PatchOp) MarshalJSON() ([]byte, error) {
	if op.Op == "remove" {
		return json.Marshal(struct {
			Op   string `json:"op"`
			Path string `json:"path"`
		}{op.Op, op.Path})
	}
	return json.Marshal(struct {
		Op    string      `json:"op"`
		Path  string      `json:"path"`
		Value interface{} `json:"value"`
	}{op.Op, op.Path, op.Value})
}

// Patch converts a diff result into a JSON Patch that turns the base
// document into the comparison document. Removals from the tail of an array
// are emitted highest index first so each index is valid when applied
func Patch(r *Result) ([]PatchOp, error) {
	var (
		ops      []PatchOp
		runStart = -1
		runArray string
	)

	for _, c := range r.Changes {
		if c.Type == ChangeUnchanged {
			continue
		}
		ptr, err := Pointer(c.Path)
		if err != nil {
			return nil, err
		}

		switch c.Type {
		case ChangeAdded:
			ops = append(ops, PatchOp{Op: "add", Path: ptr, Value: c.NewValue})
			runStart = -1
		case ChangeModified:
			ops = append(ops, PatchOp{Op: "replace", Path: ptr, Value: c.NewValue})
			runStart = -1
		case ChangeRemoved:
			op := PatchOp{Op: "remove", Path: ptr}
			parent, isIndex := arrayParent(c.Path, ptr)
			if isIndex && runStart >= 0 && parent == runArray {
				// prepend to the current run
				ops = append(ops, PatchOp{})
				copy(ops[runStart+1:], ops[runStart:])
				ops[runStart] = op
				continue
			}
			if isIndex {
				runStart, runArray = len(ops), parent
			} else {
				runStart = -1
			}
			ops = append(ops, op)
		default:
			return nil, fmt.Errorf("unknown change type %q", c.Type)
		}
	}
	return ops, nil
}

// arrayParent reports the pointer of the array containing path when its last
// step is an index
func arrayParent(path, ptr string) (string, bool) {
	if !strings.HasSuffix(path, "]") {
		return "", false
	}
	addrs, err := ParsePath(path)
	if err != nil || len(addrs) == 0 {
		return "", false
	}
	if _, ok := addrs[len(addrs)-1].(IndexAddr); !ok {
		return "", false
	}
	return ptr[:strings.LastIndexByte(ptr, '/')], true
}

// ApplyPatch applies a diff result to a raw base document
func ApplyPatch(doc []byte, r *Result) ([]byte, error) {
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 {
		return nil, ErrEmptyInput
	}
	for _, c := range r.Changes {
		if c.Path == "" && c.Type == ChangeModified {
			// the whole document was replaced
			return json.Marshal(c.NewValue)
		}
	}

	ops, err := Patch(r)
	if err != nil {
		return nil, err
	}
	if len(ops) == 0 {
		return doc, nil
	}
	data, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	p, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return nil, err
	}
	return p.Apply(doc)
}
