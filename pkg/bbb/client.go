package bbb

import (
	"context"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/bigbluebutton/errors"
	"github.com/johnquangdev/bigbluebutton/pkg/callcontext"
	"github.com/johnquangdev/bigbluebutton/pkg/validator"
)

// HTTPClient is the transport used for API calls. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client calls the conferencing server's administrative API.
// It holds no mutable state and is safe for concurrent use.
type Client struct {
	host       string
	secret     string
	httpClient HTTPClient
	logger     *zap.Logger
	validator  *validator.CustomValidator
	algorithm  ChecksumAlgorithm
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient. Timeouts are whatever the transport enforces.
func WithHTTPClient(hc HTTPClient) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithChecksumAlgorithm selects the request checksum digest. Default is SHA-1.
func WithChecksumAlgorithm(a ChecksumAlgorithm) Option {
	return func(c *Client) {
		if a != "" {
			c.algorithm = a
		}
	}
}

// NewClient creates a client for the server at host (e.g. https://bbb.example.com/bigbluebutton)
// signing requests with secret.
func NewClient(host, secret string, opts ...Option) *Client {
	c := &Client{
		host:       strings.TrimSuffix(host, "/"),
		secret:     secret,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
		validator:  validator.New(),
		algorithm:  ChecksumSHA1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the server base URL
func (c *Client) Host() string {
	return c.host
}

// CreateMeeting creates a meeting, or returns the existing one if the
// meetingID and settings match a running meeting.
func (c *Client) CreateMeeting(ctx context.Context, req *CreateMeetingRequest) (*CreateMeetingResponse, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, MethodCreate, req.Params())
	if err != nil {
		return nil, err
	}
	return toCreateMeetingResponse(resp), nil
}

// JoinMeeting registers a participant and returns the session tokens and
// the client URL instead of redirecting.
func (c *Client) JoinMeeting(ctx context.Context, req *JoinMeetingRequest) (*JoinMeetingResponse, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}
	params := req.Params()
	params.Set("redirect", "FALSE")
	params.Set("joinViaHtml5", "true")

	resp, err := c.call(ctx, MethodJoin, params)
	if err != nil {
		return nil, err
	}
	return toJoinMeetingResponse(resp), nil
}

// JoinURL returns a signed join URL for a browser to follow. No request is made.
func (c *Client) JoinURL(req *JoinMeetingRequest) (string, error) {
	if err := c.validate(req); err != nil {
		return "", err
	}
	return c.requestURL(MethodJoin, req.Params()), nil
}

// IsMeetingRunning reports whether the meeting exists and has participants.
func (c *Client) IsMeetingRunning(ctx context.Context, meetingID string) (bool, error) {
	req := &meetingIDRequest{MeetingID: meetingID}
	if err := c.validate(req); err != nil {
		return false, err
	}
	resp, err := c.call(ctx, MethodIsMeetingRunning, req.Params())
	if err != nil {
		return false, err
	}
	return resp.boolean("running"), nil
}

// EndMeeting ends the meeting and kicks all participants out.
func (c *Client) EndMeeting(ctx context.Context, req *EndMeetingRequest) (bool, error) {
	if err := c.validate(req); err != nil {
		return false, err
	}
	if _, err := c.call(ctx, MethodEnd, req.Params()); err != nil {
		return false, err
	}
	return true, nil
}

// GetMeetingInfo returns the state of one meeting including its attendees.
func (c *Client) GetMeetingInfo(ctx context.Context, meetingID string) (*MeetingInfo, error) {
	req := &meetingIDRequest{MeetingID: meetingID}
	if err := c.validate(req); err != nil {
		return nil, err
	}
	resp, err := c.call(ctx, MethodGetMeetingInfo, req.Params())
	if err != nil {
		return nil, err
	}
	return toMeetingInfo(resp), nil
}

// GetMeetings lists every meeting on the server. No meetings yields an empty slice.
func (c *Client) GetMeetings(ctx context.Context) ([]*MeetingInfo, error) {
	resp, err := c.call(ctx, MethodGetMeetings, nil)
	if err != nil {
		return nil, err
	}
	return toMeetings(resp), nil
}

func (c *Client) validate(req interface{}) error {
	if req == nil {
		return errors.ErrInvalidArgument("request is required", nil)
	}
	if err := c.validator.Validate(req); err != nil {
		return errors.ErrInvalidArgument(validator.Describe(err), err)
	}
	return nil
}

func (c *Client) requestURL(method string, params Params) string {
	return c.algorithm.BuildRequest(c.host+"/api/"+method, method, Serialize(params), c.secret)
}

// call performs one signed GET and returns the <response> element of a
// successful reply.
func (c *Client) call(ctx context.Context, method string, params Params) (node, error) {
	ctx = callcontext.Begin(ctx, method)
	requestURL := c.requestURL(method, params)

	c.logger.Debug("Calling conferencing API",
		append(callcontext.Fields(ctx), zap.String("url", redactChecksum(requestURL)))...,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, c.fail(ctx, errors.ErrRequestFailed(method, err))
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(ctx, errors.ErrRequestFailed(method, err))
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.fail(ctx, errors.ErrTransport(method, httpResp.StatusCode))
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, c.fail(ctx, errors.ErrRequestFailed(method, err))
	}

	resp, err := parseResponse(body)
	if err != nil {
		return nil, c.fail(ctx, errors.ErrDecodeFailed(method, err))
	}
	if err := checkReturnCode(method, resp); err != nil {
		return nil, c.fail(ctx, err)
	}

	c.logger.Debug("Conferencing API call succeeded",
		append(callcontext.Fields(ctx), zap.Int("status", httpResp.StatusCode))...,
	)
	return resp, nil
}

func (c *Client) fail(ctx context.Context, err error) error {
	fields := callcontext.Fields(ctx)
	if appErr, ok := errors.AsAppError(err); ok {
		fields = append(fields,
			zap.String("code", appErr.Code.String()),
			zap.Int("status", appErr.HTTPCode),
			zap.String("message", appErr.Message),
		)
	}
	c.logger.Warn("Conferencing API call failed", append(fields, zap.Error(err))...)
	return err
}

// redactChecksum drops the checksum so signed URLs never reach the logs.
func redactChecksum(requestURL string) string {
	base, rawQuery, found := strings.Cut(requestURL, "?")
	if !found {
		return requestURL
	}
	query, _, ok := StripChecksum(rawQuery)
	if !ok {
		return requestURL
	}
	return base + "?" + query
}
