package middleware

import "strings"

// RouteTable records which (method, path pattern) pairs require a session.
// Patterns are slash-separated; a segment starting with ':' matches any
// single segment, and a path only matches a pattern with the same number of
// segments. Lookups walk a per-method segment trie, preferring literal
// segments over placeholders and backtracking when a literal branch dead-ends.
type RouteTable struct {
	roots map[string]*routeNode
}

type routeNode struct {
	literal  map[string]*routeNode
	param    *routeNode
	terminal bool
}

func newRouteNode() *routeNode {
	return &routeNode{literal: make(map[string]*routeNode)}
}

func NewRouteTable() *RouteTable {
	return &RouteTable{roots: make(map[string]*routeNode)}
}

// Add registers pattern for each of methods.
func (t *RouteTable) Add(pattern string, methods ...string) *RouteTable {
	segments := strings.Split(pattern, "/")
	for _, m := range methods {
		m = strings.ToUpper(m)
		node, ok := t.roots[m]
		if !ok {
			node = newRouteNode()
			t.roots[m] = node
		}
		for _, seg := range segments {
			if strings.HasPrefix(seg, ":") {
				if node.param == nil {
					node.param = newRouteNode()
				}
				node = node.param
				continue
			}
			next, ok := node.literal[seg]
			if !ok {
				next = newRouteNode()
				node.literal[seg] = next
			}
			node = next
		}
		node.terminal = true
	}
	return t
}

// Match reports whether method and path hit a registered pattern.
func (t *RouteTable) Match(method, path string) bool {
	root, ok := t.roots[strings.ToUpper(method)]
	if !ok {
		return false
	}
	return root.match(strings.Split(path, "/"))
}

func (n *routeNode) match(segments []string) bool {
	if len(segments) == 0 {
		return n.terminal
	}
	if next, ok := n.literal[segments[0]]; ok && next.match(segments[1:]) {
		return true
	}
	if n.param != nil && segments[0] != "" {
		return n.param.match(segments[1:])
	}
	return false
}
