package router

import (
	"net/http"

	"goji.io"
	"goji.io/middleware"
	"goji.io/pat"
)

type gojiRouter struct {
	mux *goji.Mux
}

func (g *gojiRouter) Handle(method string, pattern string, handler http.Handler) {
	g.mux.Handle(pat.NewWithMethods(pattern, method), handler)
}

func (g *gojiRouter) Use(mw MiddlewareFunc) {
	g.mux.Use(func(h http.Handler) http.Handler { return mw(h) })
}

func (g *gojiRouter) pathParam(r *http.Request, name string) string {
	return pat.Param(r, name)
}

func (g *gojiRouter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.mux.ServeHTTP(w, r)
}

// goji routes before running middlewares so unmatched
// requests can be answered with a json error here
func gojiNotFound(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if middleware.Handler(r.Context()) == nil {
			newHTTPErrorFromError(ResourceNotFoundError("Route not found")).Send(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func createGojiRouter() Router {
	mux := goji.NewMux()
	mux.Use(gojiNotFound)
	return &gojiRouter{mux: mux}
}
