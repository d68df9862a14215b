// Package router dispatches requests over a fixed, ordered route table.
//
// Routes are walked in declaration order and the first one whose pattern
// and method both match wins. Pattern segments are literals or {name}
// placeholders; a placeholder matches any non-empty segment and binds it:
//
//	r := router.New(
//	    router.NewRoute("users.show", "/users/{screen_name}", userHandler, http.MethodGet),
//	    router.NewRoute("home", "/", homeHandler),
//	)
//	route, params, ok := r.Match("GET", "/users/foo") // params["screen_name"] == "foo"
//
// Inside a handler the bound values are read with Param.
package router

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/lookup/pkg/response"
)

// ErrNoRoute is reported when no route matches a request or a route name.
var ErrNoRoute = errors.New("router: no matching route")

// Params holds placeholder values bound by a match.
type Params map[string]string

type segment struct {
	literal string
	param   string
}

func (s segment) isParam() bool { return s.param != "" }

// Route is one entry of the table.
type Route struct {
	Name    string
	Pattern string
	Methods []string
	Handler http.Handler

	segments []segment
}

// NewRoute builds a route. No methods means any method. A route that
// accepts GET also accepts HEAD. NewRoute panics on a malformed pattern.
func NewRoute(name, pattern string, handler http.Handler, methods ...string) *Route {
	if handler == nil {
		panic(fmt.Sprintf("router: nil handler for %q", pattern))
	}

	segs, err := parsePattern(pattern)
	if err != nil {
		panic(err)
	}

	upper := make([]string, 0, len(methods))
	for _, m := range methods {
		upper = append(upper, strings.ToUpper(m))
	}

	return &Route{
		Name:     name,
		Pattern:  normalizePath(pattern),
		Methods:  upper,
		Handler:  handler,
		segments: segs,
	}
}

func parsePattern(pattern string) ([]segment, error) {
	parts := splitPath(pattern)
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]bool, len(parts))

	for _, part := range parts {
		if !strings.HasPrefix(part, "{") && !strings.HasSuffix(part, "}") {
			if strings.ContainsAny(part, "{}") {
				return nil, fmt.Errorf("router: malformed segment %q in %q", part, pattern)
			}
			segs = append(segs, segment{literal: part})
			continue
		}

		name := strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}")
		if len(part) < 3 || !strings.HasPrefix(part, "{") || !strings.HasSuffix(part, "}") || strings.ContainsAny(name, "{}") {
			return nil, fmt.Errorf("router: malformed placeholder %q in %q", part, pattern)
		}
		if seen[name] {
			return nil, fmt.Errorf("router: duplicate placeholder %q in %q", name, pattern)
		}
		seen[name] = true
		segs = append(segs, segment{param: name})
	}

	return segs, nil
}

// Allows reports whether the route accepts method.
func (rt *Route) Allows(method string) bool {
	if len(rt.Methods) == 0 {
		return true
	}
	method = strings.ToUpper(method)
	for _, m := range rt.Methods {
		if m == method || (m == http.MethodGet && method == http.MethodHead) {
			return true
		}
	}
	return false
}

// MatchPath matches path structurally, ignoring the method.
func (rt *Route) MatchPath(path string) (Params, bool) {
	parts := splitPath(path)
	if len(parts) != len(rt.segments) {
		return nil, false
	}

	var params Params
	for i, seg := range rt.segments {
		part := parts[i]
		if !seg.isParam() {
			if part != seg.literal {
				return nil, false
			}
			continue
		}
		if part == "" {
			return nil, false
		}
		if params == nil {
			params = make(Params, len(rt.segments))
		}
		params[seg.param] = part
	}

	return params, true
}

// Router is an immutable, ordered route table.
type Router struct {
	routes []*Route
}

// New builds a router over routes, in the given order.
func New(routes ...*Route) *Router {
	return &Router{routes: append([]*Route(nil), routes...)}
}

// Match returns the first route matching both path and method, with its
// bound parameters. ok is false when nothing matches.
func (r *Router) Match(method, path string) (route *Route, params Params, ok bool) {
	for _, rt := range r.routes {
		p, matched := rt.MatchPath(path)
		if !matched || !rt.Allows(method) {
			continue
		}
		return rt, p, true
	}
	return nil, nil, false
}

// ServeHTTP dispatches to the matching route's handler, or answers 404.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	route, params, ok := r.Match(req.Method, req.URL.Path)
	if !ok {
		response.Error(w, http.StatusNotFound, "Not Found")
		return
	}

	ctx := context.WithValue(req.Context(), paramsKey{}, params)

	// Mirror the match into chi's route context when served behind a chi
	// mux, so chi.URLParam and route-pattern metrics see it.
	if rctx := chi.RouteContext(ctx); rctx != nil {
		for _, seg := range route.segments {
			if seg.isParam() {
				rctx.URLParams.Add(seg.param, params[seg.param])
			}
		}
		rctx.RoutePatterns = append(rctx.RoutePatterns, route.Pattern)
	}

	route.Handler.ServeHTTP(w, req.WithContext(ctx))
}

type paramsKey struct{}

// ParamsFrom returns the parameters bound for the request carried by ctx.
func ParamsFrom(ctx context.Context) Params {
	p, _ := ctx.Value(paramsKey{}).(Params)
	return p
}

// Param returns the value bound to placeholder name, or "".
func Param(r *http.Request, name string) string {
	if v, ok := ParamsFrom(r.Context())[name]; ok {
		return v
	}
	return chi.URLParam(r, name)
}

// RouteInfo describes one route for listings.
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Routes lists the table in match order.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.routes))
	for _, rt := range r.routes {
		method := "ANY"
		if len(rt.Methods) > 0 {
			method = strings.Join(rt.Methods, "|")
		}
		out = append(out, RouteInfo{Method: method, Path: rt.Pattern, Name: rt.Name})
	}
	return out
}

// URL builds the path of the named route with params substituted.
func (r *Router) URL(name string, params map[string]string) (string, error) {
	var route *Route
	for _, rt := range r.routes {
		if rt.Name != "" && rt.Name == name {
			route = rt
			break
		}
	}
	if route == nil {
		return "", fmt.Errorf("%w: route %q not found", ErrNoRoute, name)
	}

	parts := make([]string, 0, len(route.segments))
	for _, seg := range route.segments {
		if !seg.isParam() {
			parts = append(parts, seg.literal)
			continue
		}
		v := params[seg.param]
		if v == "" {
			return "", fmt.Errorf("router: missing parameter %q for route %q", seg.param, name)
		}
		parts = append(parts, v)
	}

	return "/" + strings.Join(parts, "/"), nil
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func normalizePath(path string) string {
	parts := splitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
