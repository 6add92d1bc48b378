package main

import (
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"strings"

	"httpcore/internal/bootstrap"
	"httpcore/internal/config"
	"httpcore/message"
	"httpcore/server"
)

// echoHandler is a minimal application: it answers every request with
// a plain-text summary and renders error pages for mapped failures.
type echoHandler struct{}

func (echoHandler) OnRequest(req *message.Request, conn net.Conn) (*message.Response, error) {
	body := fmt.Sprintf("%s %s\n", req.Method(), req.Target())
	return message.NewResponse(200).
		WithHeader("Content-Type", "text/plain").
		WithHeader("Content-Length", strconv.Itoa(len(body))).
		WithBody(io.NopCloser(strings.NewReader(body))), nil
}

func (echoHandler) OnError(status int, conn net.Conn) (*message.Response, error) {
	return server.DefaultErrorResponse(status), nil
}

func main() {
	cfg, err := config.MustLoad()
	if err != nil {
		log.Fatalf("Failed to load config: %s", err)
	}

	app, err := bootstrap.New(cfg, echoHandler{})
	if err != nil {
		log.Fatalf("Failed to bootstrap: %s", err)
	}
	defer func() {
		_ = app.Logger.Sync()
	}()

	if err := app.Run(); err != nil {
		log.Fatalf("Server terminated: %s", err)
	}
}
