package handler

import "net/http"

// route maps a method and path pattern to a handler. An empty method
// matches every method not claimed by a more specific route on the same
// path, which is how unsupported methods get a JSON 405.
type route struct {
	method  string
	path    string
	handler http.HandlerFunc
}

func (rt route) pattern() string {
	if rt.method == "" {
		return rt.path
	}
	return rt.method + " " + rt.path
}

func (h *Handler) routes() []route {
	rs := []route{
		{http.MethodGet, "/{$}", h.root},
		{"", "/{$}", h.methodNotAllowed},
		{http.MethodGet, "/health", h.health},
		{"", "/health", h.methodNotAllowed},
	}

	// The collection answers with and without a trailing slash.
	base := "/" + h.opts.Endpoint
	for _, p := range []string{base, base + "/{$}"} {
		rs = append(rs,
			route{http.MethodGet, p, h.list},
			route{http.MethodPost, p, h.create},
			route{http.MethodPut, p, h.idRequired},
			route{http.MethodPatch, p, h.idRequired},
			route{http.MethodDelete, p, h.idRequired},
			route{"", p, h.methodNotAllowed},
		)
	}

	item := base + "/{id}"
	rs = append(rs,
		route{http.MethodGet, item, h.get},
		route{http.MethodPut, item, h.replace},
		route{http.MethodPatch, item, h.patch},
		route{http.MethodDelete, item, h.remove},
		route{"", item, h.methodNotAllowed},
	)

	return append(rs, route{"", "/", h.endpointNotFound})
}
