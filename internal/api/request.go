package api

import (
	"net/http"
	"net/url"
	"strings"
)

// QueryParam is a single query string pair. Order is preserved on the wire.
type QueryParam struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters.
type Query []QueryParam

// Add appends a parameter and returns the extended query.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// Encode renders the query in insertion order.
func (q Query) Encode() string {
	if len(q) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return strings.Join(parts, "&")
}

// RequestSpec describes one logical API call. It is built per call and not retained.
type RequestSpec struct {
	Method string
	Path   string
	Query  Query
	Body   []byte
}

// Response is a successful (2xx) HTTP exchange.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
	Attempts   int
}
