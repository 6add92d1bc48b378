package http1

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"httpcore/message"
)

func textResponse(status int, body string) *message.Response {
	return message.NewResponse(status).
		WithHeader("Content-Type", "text/plain").
		WithBody(io.NopCloser(strings.NewReader(body)))
}

func TestWriteResponse_WireFormat(t *testing.T) {
	conn := newFakeConn("")
	resp := textResponse(200, "hello").WithHeader("Content-Length", "5")

	require.NoError(t, NewCodec().WriteResponse(conn, resp, nil, 0))

	assert.Equal(t,
		"HTTP/1.1 200 OK\r\n"+
			"Content-Type: text/plain\r\n"+
			"Content-Length: 5\r\n"+
			"\r\n"+
			"hello",
		conn.out.String())
}

func TestWriteResponse_ExplicitReasonWins(t *testing.T) {
	conn := newFakeConn("")
	resp := message.NewResponse(200).WithReason("Totally Fine")

	require.NoError(t, NewCodec().WriteResponse(conn, resp, nil, 0))

	assert.True(t, strings.HasPrefix(conn.out.String(), "HTTP/1.1 200 Totally Fine\r\n"))
}

func TestWriteResponse_UnknownStatusFallsBack(t *testing.T) {
	conn := newFakeConn("")
	resp := message.NewResponse(299)

	require.NoError(t, NewCodec().WriteResponse(conn, resp, nil, 0))

	assert.True(t, strings.HasPrefix(conn.out.String(), "HTTP/1.1 299 Error\r\n"))
}

func TestWriteResponse_PreservesHeaderOrderAndCasing(t *testing.T) {
	conn := newFakeConn("")
	resp := message.NewResponse(204).
		WithHeader("X-First", "1").
		WithAddedHeader("X-Repeated", "a").
		WithAddedHeader("X-Repeated", "b").
		WithHeader("x-lower", "v")

	require.NoError(t, NewCodec().WriteResponse(conn, resp, nil, 0))

	assert.Equal(t,
		"HTTP/1.1 204 No Content\r\n"+
			"X-First: 1\r\n"+
			"X-Repeated: a\r\n"+
			"X-Repeated: b\r\n"+
			"x-lower: v\r\n"+
			"\r\n",
		conn.out.String())
}

func TestWriteResponse_HeadOmitsBody(t *testing.T) {
	conn := newFakeConn("")
	req := message.NewRequest("HEAD", nil)
	resp := textResponse(200, "hidden").WithHeader("Content-Length", "6")

	require.NoError(t, NewCodec().WriteResponse(conn, resp, req, 0))

	out := conn.out.String()
	assert.Contains(t, out, "Content-Length: 6\r\n")
	assert.True(t, strings.HasSuffix(out, "\r\n\r\n"))
	assert.NotContains(t, out, "hidden")
}

func TestWriteResponse_BodylessStatusesOmitBody(t *testing.T) {
	for _, status := range []int{100, 204, 304} {
		conn := newFakeConn("")
		resp := message.NewResponse(status).WithBody(io.NopCloser(strings.NewReader("nope")))

		require.NoError(t, NewCodec().WriteResponse(conn, resp, nil, 0))
		assert.NotContains(t, conn.out.String(), "nope", "status %d", status)
	}
}

func TestWriteResponse_SanitizesHeaderValues(t *testing.T) {
	conn := newFakeConn("")
	resp := message.NewResponse(204).WithHeader("X-Injected", "a\r\nSet-Cookie: evil\x00")

	require.NoError(t, NewCodec().WriteResponse(conn, resp, nil, 0))

	assert.Contains(t, conn.out.String(), "X-Injected: aSet-Cookie: evil\r\n")
}
