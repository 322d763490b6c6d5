package jsondiff

import "reflect"

// Equal reports whether two JSON values are structurally identical. Object
// member order is ignored, array order is not. Numbers compare by value
// regardless of their Go type. Equal never panics and keeps its work on the
// heap, so nesting depth is bounded only by memory. Containers that are
// revisited while already under comparison (a reference cycle) compare as
// equal, the same rule reflect.DeepEqual uses
func Equal(a, b interface{}) bool {
	var (
		visited map[visit]bool
		stack   = []pair{{a, b}}
	)
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		ta, tb := typeOf(p.a), typeOf(p.b)
		if ta != tb {
			return false
		}
		if !ta.container() {
			if !scalarEqual(ta, p.a, p.b) {
				return false
			}
			continue
		}

		ida, oka := identity(p.a)
		idb, okb := identity(p.b)
		if oka && okb {
			if visited == nil {
				visited = map[visit]bool{}
			}
			v := visit{ida, idb}
			if visited[v] {
				continue
			}
			visited[v] = true
		}

		switch ta {
		case ntArray:
			aa, ba := p.a.([]interface{}), p.b.([]interface{})
			if len(aa) != len(ba) {
				return false
			}
			for i := len(aa) - 1; i >= 0; i-- {
				stack = append(stack, pair{aa[i], ba[i]})
			}
		case ntObject:
			if objectLen(p.a) != objectLen(p.b) {
				return false
			}
			ks := keys(p.a)
			for i := len(ks) - 1; i >= 0; i-- {
				bv, ok := member(p.b, ks[i])
				if !ok {
					return false
				}
				av, _ := member(p.a, ks[i])
				stack = append(stack, pair{av, bv})
			}
		}
	}
	return true
}

// visit is a pair of containers under comparison
type visit struct {
	a, b uintptr
}

// pair is a pending comparison
type pair struct {
	a, b interface{}
}

func scalarEqual(t nodeType, a, b interface{}) bool {
	switch t {
	case ntNull:
		return true
	case ntBool:
		return a.(bool) == b.(bool)
	case ntString:
		return a.(string) == b.(string)
	case ntNumber:
		return toFloat(a) == toFloat(b)
	}
	return reflect.DeepEqual(a, b)
}
