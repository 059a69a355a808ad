package wire

import (
	"net/http"
	"net/url"
)

// Response is the metadata of a completed HTTP exchange. It never carries
// the body; payloads are handed to decoders separately.
type Response struct {
	StatusCode    int
	Status        string
	Proto         string
	Header        http.Header
	URL           *url.URL
	ContentLength int64
}

// NewResponse captures the metadata of resp. The URL is the one of the
// request that produced resp, after redirects.
func NewResponse(resp *http.Response) *Response {
	if resp == nil {
		return nil
	}

	r := &Response{
		StatusCode:    resp.StatusCode,
		Status:        resp.Status,
		Proto:         resp.Proto,
		Header:        resp.Header.Clone(),
		ContentLength: resp.ContentLength,
	}
	if resp.Request != nil && resp.Request.URL != nil {
		u := *resp.Request.URL
		r.URL = &u
	}

	return r
}

// IsSuccess reports whether the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}
