package message

import "io"

// Response is an immutable HTTP response value.
type Response struct {
	status  int
	reason  string
	version string
	header  Header
	body    io.ReadCloser
}

func NewResponse(status int) *Response {
	return &Response{
		status:  status,
		version: "HTTP/1.1",
		header:  NewHeader(),
	}
}

func (r *Response) clone() *Response {
	next := *r
	next.header = r.header.clone()
	return &next
}

func (r *Response) Status() int {
	return r.status
}

// Reason returns the explicit reason phrase, which may be empty; the
// wire codec substitutes the canonical phrase on write.
func (r *Response) Reason() string {
	return r.reason
}

func (r *Response) Version() string {
	return r.version
}

func (r *Response) Header() Header {
	return r.header
}

func (r *Response) HeaderLine(name string) string {
	return r.header.Line(name)
}

func (r *Response) Body() io.ReadCloser {
	return r.body
}

func (r *Response) WithStatus(status int) *Response {
	next := r.clone()
	next.status = status
	return next
}

func (r *Response) WithReason(reason string) *Response {
	next := r.clone()
	next.reason = reason
	return next
}

func (r *Response) WithVersion(version string) *Response {
	next := r.clone()
	next.version = version
	return next
}

func (r *Response) WithHeader(name, value string) *Response {
	next := r.clone()
	next.header = next.header.With(name, value)
	return next
}

func (r *Response) WithAddedHeader(name, value string) *Response {
	next := r.clone()
	next.header = next.header.Add(name, value)
	return next
}

func (r *Response) WithoutHeader(name string) *Response {
	next := r.clone()
	next.header = next.header.Without(name)
	return next
}

func (r *Response) WithBody(body io.ReadCloser) *Response {
	next := r.clone()
	next.body = body
	return next
}
