package jsondiff

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Addr is a single step in a path: an object key or an array index
type Addr interface {
	Value() interface{}
	String() string
	Eq(b Addr) bool
}

// StringAddr is an object key
type StringAddr string

// Value returns the key
func (a StringAddr) Value() interface{} { return string(a) }

// String returns the key unaltered
func (a StringAddr) String() string { return string(a) }

// Eq tests for equality with another address
func (a StringAddr) Eq(b Addr) bool {
	s, ok := b.(StringAddr)
	return ok && s == a
}

// IndexAddr is an array position
type IndexAddr int

// Value returns the index as an int
func (a IndexAddr) Value() interface{} { return int(a) }

// String formats the index in base ten
func (a IndexAddr) String() string { return strconv.Itoa(int(a)) }

// Eq tests for equality with another address
func (a IndexAddr) Eq(b Addr) bool {
	i, ok := b.(IndexAddr)
	return ok && i == a
}

// plainKey reports whether key can be written with dot notation
func plainKey(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// quoteKey writes key as a JSON string without HTML escaping
func quoteKey(key string) string {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(key); err != nil {
		return strconv.Quote(key)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// joinKey appends an object key to a path. Keys that would be ambiguous in
// dot notation are written bracketed and quoted: a["x.y"]
func joinKey(path, key string) string {
	if !plainKey(key) {
		return path + "[" + quoteKey(key) + "]"
	}
	if path == "" {
		return key
	}
	return path + "." + key
}

// joinIndex appends an array index to a path
func joinIndex(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

// FormatPath renders a sequence of addresses in path notation. The root is
// the empty string
func FormatPath(addrs []Addr) string {
	p := ""
	for _, addr := range addrs {
		switch a := addr.(type) {
		case IndexAddr:
			p = joinIndex(p, int(a))
		default:
			p = joinKey(p, a.String())
		}
	}
	return p
}

// ParsePath splits a path produced by Diff back into addresses
func ParsePath(path string) ([]Addr, error) {
	var (
		addrs []Addr
		i     = 0
	)

	readIdent := func() (string, error) {
		start := i
		for i < len(path) && path[i] != '.' && path[i] != '[' && path[i] != ']' {
			i++
		}
		if start == i {
			return "", fmt.Errorf("invalid path %q: empty key at offset %d", path, start)
		}
		return path[start:i], nil
	}

	if path != "" && path[0] != '[' {
		key, err := readIdent()
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, StringAddr(key))
	}

	for i < len(path) {
		switch path[i] {
		case '.':
			i++
			key, err := readIdent()
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, StringAddr(key))
		case '[':
			i++
			addr, err := readBracket(path, &i)
			if err != nil {
				return nil, err
			}
			addrs = append(addrs, addr)
		default:
			return nil, fmt.Errorf("invalid path %q: unexpected %q at offset %d", path, path[i], i)
		}
	}
	return addrs, nil
}

// readBracket consumes the body of a bracket segment and its closing ']'.
// *i points just past the opening '['
func readBracket(path string, i *int) (Addr, error) {
	start := *i
	if start < len(path) && path[start] == '"' {
		j := start + 1
		for j < len(path) {
			if path[j] == '\\' {
				j += 2
				continue
			}
			if path[j] == '"' {
				break
			}
			j++
		}
		if j >= len(path) {
			return nil, fmt.Errorf("invalid path %q: unterminated key at offset %d", path, start)
		}
		var key string
		if err := json.Unmarshal([]byte(path[start:j+1]), &key); err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", path, err)
		}
		if j+1 >= len(path) || path[j+1] != ']' {
			return nil, fmt.Errorf("invalid path %q: expected ']' at offset %d", path, j+1)
		}
		*i = j + 2
		return StringAddr(key), nil
	}

	end := strings.IndexByte(path[start:], ']')
	if end < 0 {
		return nil, fmt.Errorf("invalid path %q: unterminated index at offset %d", path, start)
	}
	idx, err := strconv.Atoi(path[start : start+end])
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("invalid path %q: bad index %q", path, path[start:start+end])
	}
	*i = start + end + 1
	return IndexAddr(idx), nil
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Pointer converts a path into an RFC 6901 JSON pointer
func Pointer(path string) (string, error) {
	addrs, err := ParsePath(path)
	if err != nil {
		return "", err
	}
	buf := &strings.Builder{}
	for _, addr := range addrs {
		buf.WriteByte('/')
		buf.WriteString(pointerEscaper.Replace(addr.String()))
	}
	return buf.String(), nil
}
