package handlers

import "github.com/serroba/shortlink/internal/shortener"

// ResolveRequest is the request for looking up a short hash.
type ResolveRequest struct {
	Hash   string `doc:"The short hash"                                            example:"xyCKyUr81mtdXNHcX8Sciw" path:"hash"`
	Accept string `doc:"text/plain, application/json or anything else to redirect" header:"Accept"`
}

// ResolveResponse is a redirect, the plain URL or the public view, depending
// on the Accept header.
type ResolveResponse struct {
	Status      int
	Location    string `header:"Location"`
	ContentType string `header:"Content-Type"`
	Body        []byte
}

// CreateBody is the payload of a shorten request.
type CreateBody struct {
	_   struct{} `additionalProperties:"true" json:"-"`
	URL string   `doc:"The URL to shorten" example:"http://example.com/page" json:"url,omitempty" required:"false"`
}

// CreateRequest is the request for shortening a URL. The body is optional so
// a missing URL is reported with a 400 like an empty one.
type CreateRequest struct {
	Body *CreateBody
}

// CreateResponse carries the public view of the shortened URL.
type CreateResponse struct {
	Body shortener.PublicView
}

// RemoveRequest is the request for disabling a short URL.
type RemoveRequest struct {
	Hash        string `doc:"The short hash"                      path:"hash"`
	RemoveToken string `doc:"The token issued with the short URL" path:"removeToken"`
}

// RemoveResponse is a plain text acknowledgement.
type RemoveResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
