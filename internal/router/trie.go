// used by the router to match on paths

package router

import (
	"strings"

	"github.com/shravanasati/courier/internal/server"
)

type trieNode struct {
	// static children
	children map[string]*trieNode

	// parameter segment, eg. :code
	paramChild *trieNode
	paramName  string

	// wildcard segment, eg. *rest
	wildcardChild *trieNode
	wildcardName  string

	handler server.Handler
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[string]*trieNode)}
}

// addRoute stores handler under path, creating nodes as needed.
func (n *trieNode) addRoute(path string, handler server.Handler) {
	current := n
	for segment := range strings.SplitSeq(strings.Trim(path, "/"), "/") {
		switch {
		case segment == "":
			continue

		case strings.HasPrefix(segment, ":"):
			if current.paramChild == nil {
				current.paramChild = newTrieNode()
			}
			current.paramName = segment[1:]
			current = current.paramChild

		case strings.HasPrefix(segment, "*"):
			if current.wildcardChild == nil {
				current.wildcardChild = newTrieNode()
			}
			current.wildcardName = segment[1:]
			current = current.wildcardChild

		default:
			child, ok := current.children[segment]
			if !ok {
				child = newTrieNode()
				current.children[segment] = child
			}
			current = child
		}
	}
	current.handler = handler
}

// match finds the handler for path and the parameters it binds. Static
// segments win over parameters, and parameters over wildcards.
func (n *trieNode) match(path string) (server.Handler, map[string]string) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	current := n
	params := make(map[string]string)

	for i, segment := range segments {
		if segment == "" {
			continue
		}
		if child, ok := current.children[segment]; ok {
			current = child
			continue
		}
		if current.paramChild != nil {
			params[current.paramName] = segment
			current = current.paramChild
			continue
		}
		if current.wildcardChild != nil {
			// the rest of the path
			params[current.wildcardName] = strings.Join(segments[i:], "/")
			return current.wildcardChild.handler, params
		}
		return nil, nil
	}
	return current.handler, params
}
