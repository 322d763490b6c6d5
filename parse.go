package jsondiff

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

var (
	errUnexpectedEnd = errors.New("unexpected end of JSON input")
	errTrailingData  = errors.New("invalid character after top-level value")
)

// frame is an open container on the parse stack
type frame struct {
	obj     *Object
	arr     []interface{}
	key     string
	haveKey bool
}

func (f *frame) value() interface{} {
	if f.obj != nil {
		return f.obj
	}
	return f.arr
}

// Parse decodes a single JSON document. Objects come back as *Object so
// member order survives, arrays as []interface{}, numbers as float64.
// Containers are tracked on an explicit stack rather than the goroutine
// stack
func Parse(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	var (
		stack []*frame
		root  interface{}
		done  bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if done {
			return nil, errTrailingData
		}

		var val interface{}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, &frame{obj: NewObject(0)})
				continue
			case '[':
				stack = append(stack, &frame{arr: []interface{}{}})
				continue
			default:
				// '}' or ']': the decoder guarantees these balance
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				val = top.value()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].obj != nil && !stack[n-1].haveKey {
				stack[n-1].key = t
				stack[n-1].haveKey = true
				continue
			}
			val = t
		default:
			val = t
		}

		if len(stack) == 0 {
			root = val
			done = true
			continue
		}
		top := stack[len(stack)-1]
		if top.obj != nil {
			top.obj.Set(top.key, val)
			top.haveKey = false
		} else {
			top.arr = append(top.arr, val)
		}
	}

	if !done || len(stack) > 0 {
		return nil, errUnexpectedEnd
	}
	return root, nil
}
