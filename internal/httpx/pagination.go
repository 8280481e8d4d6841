package httpx

import (
	"fmt"
	"net/http"
)

// Links carries the pagination hypermedia of a list response: self always,
// next only when more pages exist, prev only past the first page.
type Links struct {
	Self string `json:"self"`
	Next string `json:"next,omitempty"`
	Prev string `json:"prev,omitempty"`
}

func PageLinks(baseURL string, page, limit, total int) Links {
	totalPages := (total + limit - 1) / limit

	links := Links{
		Self: fmt.Sprintf("%s?page=%d&limit=%d", baseURL, page, limit),
	}
	if page < totalPages {
		links.Next = fmt.Sprintf("%s?page=%d&limit=%d", baseURL, page+1, limit)
	}
	if page > 1 {
		links.Prev = fmt.Sprintf("%s?page=%d&limit=%d", baseURL, page-1, limit)
	}
	return links
}

// WithQuery appends extra query parameters to every present link.
func (l Links) WithQuery(query string) Links {
	if query == "" {
		return l
	}
	l.Self += "&" + query
	if l.Next != "" {
		l.Next += "&" + query
	}
	if l.Prev != "" {
		l.Prev += "&" + query
	}
	return l
}

// BaseURL reconstructs the absolute URL of the request without its query.
func BaseURL(r *http.Request) string {
	return fmt.Sprintf("%s://%s%s", scheme(r), r.Host, r.URL.Path)
}

// APIRoot returns the absolute /api prefix for building resource links.
func APIRoot(r *http.Request) string {
	return fmt.Sprintf("%s://%s/api", scheme(r), r.Host)
}

func scheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	return "http"
}
