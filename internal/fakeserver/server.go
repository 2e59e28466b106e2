// Package fakeserver is an in-process stand-in for the conferencing API,
// used by tests. It checks request checksums and replays canned XML replies.
package fakeserver

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/bigbluebutton/pkg/bbb"
	"github.com/johnquangdev/bigbluebutton/pkg/validator"
)

// Reply is one canned answer
type Reply struct {
	Status int
	Body   string
}

// Call is one request the server received
type Call struct {
	Method   string
	RawQuery string
	Params   url.Values
}

type apiRequest struct {
	Method string `param:"method" validate:"required,oneof=create join isMeetingRunning end getMeetingInfo getMeetings"`
}

// Server serves /api/:method on a local httptest listener.
type Server struct {
	secret string
	ts     *httptest.Server

	mu      sync.Mutex
	replies map[string][]Reply
	calls   []Call
}

// New starts a server that accepts requests signed with secret.
func New(secret string) *Server {
	s := &Server{
		secret:  secret,
		replies: make(map[string][]Reply),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.GET("/api/:method", s.handle)

	s.ts = httptest.NewServer(e)
	return s
}

// URL is the host to hand to bbb.NewClient
func (s *Server) URL() string {
	return s.ts.URL
}

// Close shuts the listener down
func (s *Server) Close() {
	s.ts.Close()
}

// Reply queues a reply for method. Queued replies are served in order; the
// last one keeps being served once the queue is down to it.
func (s *Server) Reply(method string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[method] = append(s.replies[method], Reply{Status: status, Body: body})
}

// ReplyXML queues a 200 reply for method
func (s *Server) ReplyXML(method, body string) {
	s.Reply(method, http.StatusOK, body)
}

// Calls returns a copy of the requests received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsTo returns the requests received for one API method
func (s *Server) CallsTo(method string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handle(c echo.Context) error {
	var req apiRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return xmlReply(c, http.StatusOK, Failed("unsupportedRequest", "This request is not supported."))
	}

	rawQuery := c.Request().URL.RawQuery
	query, checksum, ok := bbb.StripChecksum(rawQuery)
	if !ok || !bbb.VerifyChecksum(req.Method, query, s.secret, checksum) {
		return xmlReply(c, http.StatusOK, Failed("checksumError", "You did not pass the checksum security check"))
	}

	params, _ := url.ParseQuery(query)
	reply, found := s.record(Call{Method: req.Method, RawQuery: rawQuery, Params: params})
	if !found {
		return xmlReply(c, http.StatusOK, Failed("notFound", fmt.Sprintf("No reply configured for %s", req.Method)))
	}
	return xmlReply(c, reply.Status, reply.Body)
}

func (s *Server) record(call Call) (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)

	queue := s.replies[call.Method]
	if len(queue) == 0 {
		return Reply{}, false
	}
	reply := queue[0]
	if len(queue) > 1 {
		s.replies[call.Method] = queue[1:]
	}
	return reply, true
}

func xmlReply(c echo.Context, status int, body string) error {
	return c.Blob(status, echo.MIMETextXMLCharsetUTF8, []byte(body))
}

// Success wraps inner elements in a SUCCESS response document
func Success(inner string) string {
	return "<response><returncode>SUCCESS</returncode>" + inner + "</response>"
}

// Failed builds a FAILED response document
func Failed(messageKey, message string) string {
	return fmt.Sprintf("<response><returncode>FAILED</returncode><messageKey>%s</messageKey><message>%s</message></response>",
		messageKey, message)
}
