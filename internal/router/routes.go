package router

import (
	"strconv"
	"strings"

	"github.com/shravanasati/courier/internal/response"
	"github.com/shravanasati/courier/internal/server"
)

// maxFixtureBytes caps the generated bodies.
const maxFixtureBytes = 1 << 20

// NewFixtureRouter serves the endpoints the command line tools are tried
// against:
//
//	/, /echo/*         echo the request head, or complete a WebSocket upgrade
//	/status/:code      reply with that status code
//	/bytes/:n          reply with n bytes
//	/short/:n          announce n bytes, send two, then close
func NewFixtureRouter() *Router {
	r := NewRouter()
	r.Get("/", server.Echo)
	r.Get("/echo/*rest", server.Echo)
	r.Get("/status/:code", statusHandler)
	r.Get("/bytes/:n", bytesHandler)
	r.Get("/short/:n", shortHandler)
	r.Use(serverHeader)
	return r
}

func serverHeader(next server.Handler) server.Handler {
	return func(r *server.Request) *response.Message {
		return next(r).WithHeader("X-Server", "courier")
	}
}

func badParam(name string) *response.Message {
	return response.NewText(response.StatusBadRequest, "bad "+name+" parameter\n")
}

func statusHandler(r *server.Request) *response.Message {
	code, err := response.ParseStatusCode(r.Params["code"], false)
	if err != nil || code < 200 {
		return badParam("code")
	}
	reason := code.String()
	return response.NewText(code, reason+"\n")
}

func sizeParam(r *server.Request) (int, bool) {
	n, err := strconv.Atoi(r.Params["n"])
	if err != nil || n < 0 || n > maxFixtureBytes {
		return 0, false
	}
	return n, true
}

func bytesHandler(r *server.Request) *response.Message {
	n, ok := sizeParam(r)
	if !ok {
		return badParam("n")
	}
	return response.NewText(response.StatusOK, strings.Repeat("x", n))
}

func shortHandler(r *server.Request) *response.Message {
	n, ok := sizeParam(r)
	if !ok || n < 2 {
		return badParam("n")
	}
	return response.NewText(response.StatusOK, "hi").
		WithHeader("content-length", strconv.Itoa(n))
}
