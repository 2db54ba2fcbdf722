package handlers

import "time"

// ShortenRequest is the request body for shortening a URL.
type ShortenRequest struct {
	Body struct {
		URL string `doc:"The URL to shorten" example:"https://example.com/very/long/path" json:"url"`
	}
}

// ShortenResponse is returned once a code is bound to the URL.
type ShortenResponse struct {
	Location string `doc:"The short URL" header:"Location"`
	Body     struct {
		Code        string `doc:"The short code"     example:"4kgjc2"                             json:"code"`
		ShortURL    string `doc:"The full short URL" example:"http://localhost:8888/4kgjc2"       json:"shortUrl"`
		OriginalURL string `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
	}
}

// RedirectRequest is the request for resolving a short code.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"4kgjc2" path:"code"`
}

// RedirectResponse is a permanent redirect to the original URL.
type RedirectResponse struct {
	Status   int
	Location string `header:"Location"`
}

// AccessesRequest is the request for the recorded accesses of a code.
type AccessesRequest struct {
	Code string `doc:"The short code" example:"4kgjc2" path:"code"`
}

// AccessBody is one recorded access.
type AccessBody struct {
	ID        string    `json:"id"`
	At        time.Time `json:"at"`
	Referrer  string    `json:"referrer,omitempty"`
	ClientIP  string    `json:"clientIp,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}

// AccessesResponse lists accesses oldest first.
type AccessesResponse struct {
	Body struct {
		Code     string       `json:"code"`
		Accesses []AccessBody `json:"accesses"`
	}
}
