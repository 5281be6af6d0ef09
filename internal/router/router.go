// Package router dispatches parsed requests to handlers by method and path.
package router

import (
	"github.com/shravanasati/courier/internal/response"
	"github.com/shravanasati/courier/internal/server"
)

const anyMethod = "*"

var defaultNotFoundHandler server.Handler = func(*server.Request) *response.Message {
	return response.NewText(response.StatusNotFound, response.GetStatusReason(response.StatusNotFound))
}

type Middleware func(server.Handler) server.Handler

type Router struct {
	trees           map[string]*trieNode
	notFoundHandler server.Handler
	middlewares     []Middleware
}

func NewRouter() *Router {
	return &Router{
		trees:           map[string]*trieNode{},
		notFoundHandler: defaultNotFoundHandler,
	}
}

// Method registers handler for requests with the given method and path.
func (r *Router) Method(method, path string, handler server.Handler) {
	tree, ok := r.trees[method]
	if !ok {
		tree = newTrieNode()
		r.trees[method] = tree
	}
	tree.addRoute(path, handler)
}

func (r *Router) Get(path string, handler server.Handler) {
	r.Method("GET", path, handler)
}

func (r *Router) Head(path string, handler server.Handler) {
	r.Method("HEAD", path, handler)
}

// Handle registers handler for every method.
func (r *Router) Handle(path string, handler server.Handler) {
	r.Method(anyMethod, path, handler)
}

func (r *Router) NotFound(handler server.Handler) {
	r.notFoundHandler = handler
}

func (r *Router) Use(m ...Middleware) {
	r.middlewares = append(r.middlewares, m...)
}

func (r *Router) chain(h server.Handler) server.Handler {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		h = r.middlewares[i](h)
	}
	return h
}

func (r *Router) lookup(method, path string) (server.Handler, map[string]string) {
	tree, ok := r.trees[method]
	if !ok {
		return nil, nil
	}
	return tree.match(path)
}

func (router *Router) Handler() server.Handler {
	routingHandler := func(r *server.Request) *response.Message {
		method, path := r.Line.Method, r.Path()

		// try exact method first
		if handler, params := router.lookup(method, path); handler != nil {
			r.Params = params
			return handler(r)
		}

		// auto handle head using get, if the specialised head handler doesnt exist
		if method == "HEAD" {
			if handler, params := router.lookup("GET", path); handler != nil {
				r.Params = params
				return handler(r).WithBody(nil)
			}
		}

		if handler, params := router.lookup(anyMethod, path); handler != nil {
			r.Params = params
			return handler(r)
		}

		for m := range router.trees {
			if m == method || m == anyMethod {
				continue
			}
			if handler, _ := router.lookup(m, path); handler != nil {
				return response.NewText(response.StatusMethodNotAllowed,
					response.GetStatusReason(response.StatusMethodNotAllowed))
			}
		}

		return router.notFoundHandler(r)
	}

	return router.chain(routingHandler)
}
