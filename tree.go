package jsondiff

import (
	"bytes"
	"encoding/json"
	"reflect"
	"sort"
)

// nodeType defines all of the atoms in our universe, or the types of data we
// will encounter while generating a diff
type nodeType uint8

const (
	ntUnknown nodeType = iota
	ntObject
	ntArray
	ntString
	ntNumber
	ntBool
	ntNull
)

func (nt nodeType) String() string {
	switch nt {
	case ntObject:
		return "object"
	case ntArray:
		return "array"
	case ntString:
		return "string"
	case ntNumber:
		return "number"
	case ntBool:
		return "boolean"
	case ntNull:
		return "null"
	default:
		return "unknown"
	}
}

func (nt nodeType) container() bool {
	return nt == ntObject || nt == ntArray
}

// Object is a JSON object that keeps its members in document order. Parse
// produces *Object for every object in the input
type Object struct {
	Keys   []string
	Values map[string]interface{}
}

// NewObject allocates an empty object with room for n members
func NewObject(n int) *Object {
	return &Object{
		Keys:   make([]string, 0, n),
		Values: make(map[string]interface{}, n),
	}
}

// Len returns the number of distinct keys in the object
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Keys)
}

// Get returns the value stored at key
func (o *Object) Get(key string) (interface{}, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Values[key]
	return v, ok
}

// Set assigns key. A repeated key keeps the position of its first
// occurrence and takes the latest value
func (o *Object) Set(key string, v interface{}) {
	if _, ok := o.Values[key]; !ok {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = v
}

// MarshalJSON implements json.Marshaler, writing members in order
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	buf := &bytes.Buffer{}
	buf.WriteByte('{')
	for i, key := range o.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.Values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// typeOf classifies a value. Besides the types produced by Parse it accepts
// what encoding/json.Unmarshal produces and any Go numeric kind
func typeOf(v interface{}) nodeType {
	switch v.(type) {
	case nil:
		return ntNull
	case *Object, map[string]interface{}:
		return ntObject
	case []interface{}:
		return ntArray
	case string:
		return ntString
	case bool:
		return ntBool
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number:
		return ntNumber
	}
	return ntUnknown
}

// toFloat converts any value typed ntNumber into a float64
func toFloat(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case json.Number:
		f, _ := x.Float64()
		return f
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	}
	return 0
}

// keys lists the member names of an object value. map keys come back sorted
// so traversal stays deterministic
func keys(v interface{}) []string {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return nil
		}
		return x.Keys
	case map[string]interface{}:
		names := make([]string, 0, len(x))
		for name := range x {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	}
	return nil
}

// member fetches a single member from an object value
func member(v interface{}, key string) (interface{}, bool) {
	switch x := v.(type) {
	case *Object:
		return x.Get(key)
	case map[string]interface{}:
		ch, ok := x[key]
		return ch, ok
	}
	return nil, false
}

func objectLen(v interface{}) int {
	switch x := v.(type) {
	case *Object:
		return x.Len()
	case map[string]interface{}:
		return len(x)
	}
	return 0
}

// identity returns a comparable key for a container value, used to spot
// reference cycles. ok is false for values that cannot form a cycle
func identity(v interface{}) (id uintptr, ok bool) {
	switch x := v.(type) {
	case *Object:
		if x == nil {
			return 0, false
		}
		return reflect.ValueOf(x).Pointer(), true
	case map[string]interface{}:
		if x == nil {
			return 0, false
		}
		return reflect.ValueOf(x).Pointer(), true
	case []interface{}:
		if len(x) == 0 {
			return 0, false
		}
		return reflect.ValueOf(x).Pointer(), true
	}
	return 0, false
}

// children lists the direct members of a container in traversal order
func children(v interface{}) []interface{} {
	if x, ok := v.([]interface{}); ok {
		return x
	}
	ks := keys(v)
	kids := make([]interface{}, len(ks))
	for i, key := range ks {
		kids[i], _ = member(v, key)
	}
	return kids
}

// traverse visits v and its descendants depth-first, pre-order, with depth
// counted from v. Pending containers live on an explicit stack. A container
// that is one of its own ancestors is visited but not entered. Returning
// false from fn ends the walk
func traverse(v interface{}, fn func(v interface{}, depth int) bool) {
	type level struct {
		kids []interface{}
		id   uintptr
		held bool
	}
	var (
		stack     []*level
		ancestors = map[uintptr]bool{}
	)

	enter := func(v interface{}) bool {
		if !fn(v, len(stack)) {
			return false
		}
		if !typeOf(v).container() {
			return true
		}
		l := &level{}
		if id, ok := identity(v); ok {
			if ancestors[id] {
				return true
			}
			ancestors[id] = true
			l.id, l.held = id, true
		}
		l.kids = children(v)
		stack = append(stack, l)
		return true
	}

	if !enter(v) {
		return
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if len(top.kids) == 0 {
			if top.held {
				delete(ancestors, top.id)
			}
			stack = stack[:len(stack)-1]
			continue
		}
		next := top.kids[0]
		top.kids = top.kids[1:]
		if !enter(next) {
			return
		}
	}
}

// countNodes reports the number of values in a tree, the tree itself included
func countNodes(v interface{}) int {
	n := 0
	traverse(v, func(interface{}, int) bool {
		n++
		return true
	})
	return n
}

// deeperThan reports whether any value in v sits more than limit levels
// below it
func deeperThan(v interface{}, limit int) bool {
	deep := false
	traverse(v, func(_ interface{}, depth int) bool {
		if depth > limit {
			deep = true
			return false
		}
		return true
	})
	return deep
}
