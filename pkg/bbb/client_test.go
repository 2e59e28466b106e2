package bbb_test

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/bigbluebutton/errors"
	"github.com/johnquangdev/bigbluebutton/internal/fakeserver"
	"github.com/johnquangdev/bigbluebutton/pkg/bbb"
)

const testSecret = "8cd8ef52e8e101574e400365b55e11a6"

func newTestClient(t *testing.T, opts ...bbb.Option) (*bbb.Client, *fakeserver.Server) {
	t.Helper()
	srv := fakeserver.New(testSecret)
	t.Cleanup(srv.Close)
	return bbb.NewClient(srv.URL(), testSecret, opts...), srv
}

func TestCreateMeeting_Success(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodCreate, `<response><returncode>SUCCESS</returncode><meetingID>x</meetingID>`+
		`<internalMeetingID>ix-1000</internalMeetingID><attendeePW>a</attendeePW><moderatorPW>m</moderatorPW>`+
		`<createTime>1000</createTime><hasUserJoined>false</hasUserJoined><duration>0</duration>`+
		`<hasBeenForciblyEnded>false</hasBeenForciblyEnded><messageKey></messageKey><message></message></response>`)

	resp, err := client.CreateMeeting(context.Background(), &bbb.CreateMeetingRequest{
		MeetingID: "x",
		Name:      "Demo",
		Record:    bbb.Bool(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Created.Equal(time.UnixMilli(1000)) {
		t.Fatalf("created = %v, want epoch millisecond 1000", resp.Created)
	}
	if resp.VoiceBridge != "" {
		t.Fatalf("voiceBridge must be absent, got %q", resp.VoiceBridge)
	}
	if resp.AttendeePW != "a" || resp.ModeratorPW != "m" {
		t.Fatalf("unexpected passwords %q %q", resp.AttendeePW, resp.ModeratorPW)
	}

	calls := srv.CallsTo(bbb.MethodCreate)
	if len(calls) != 1 {
		t.Fatalf("expected one create call, got %d", len(calls))
	}
	want := url.Values{"name": {"Demo"}, "meetingID": {"x"}, "record": {"false"}}
	if diff := cmp.Diff(want, calls[0].Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateMeeting_APIError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodCreate, `<response><returncode>FAILED</returncode><message>idNotUnique</message></response>`)

	_, err := client.CreateMeeting(context.Background(), &bbb.CreateMeetingRequest{MeetingID: "x"})

	msg, ok := errors.IsAPIFailed(err)
	if !ok {
		t.Fatalf("expected API error, got %v", err)
	}
	if msg != "idNotUnique" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestCreateMeeting_TransportError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.Reply(bbb.MethodCreate, http.StatusInternalServerError, "<<< not xml")

	_, err := client.CreateMeeting(context.Background(), &bbb.CreateMeetingRequest{MeetingID: "x"})

	status, ok := errors.IsTransport(err)
	if !ok {
		t.Fatalf("expected transport error, got %v", err)
	}
	if status != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", status)
	}
}

func TestCreateMeeting_InvalidRequest(t *testing.T) {
	client, srv := newTestClient(t)

	tests := []struct {
		name string
		req  *bbb.CreateMeetingRequest
	}{
		{"nil", nil},
		{"missing id", &bbb.CreateMeetingRequest{Name: "no id"}},
		{"bad guest policy", &bbb.CreateMeetingRequest{MeetingID: "x", GuestPolicy: "SOMETIMES"}},
		{"negative duration", &bbb.CreateMeetingRequest{MeetingID: "x", Duration: bbb.Int(-1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.CreateMeeting(context.Background(), tc.req)
			if !errors.HasCode(err, errors.ErrorCode_INVALID_ARGUMENT) {
				t.Fatalf("expected invalid argument, got %v", err)
			}
		})
	}
	if n := len(srv.Calls()); n != 0 {
		t.Fatalf("invalid requests must not reach the server, got %d calls", n)
	}
}

func TestCreateMeeting_DecodeError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodCreate, "<response><returncode>SUCCESS")

	_, err := client.CreateMeeting(context.Background(), &bbb.CreateMeetingRequest{MeetingID: "x"})
	if !errors.HasCode(err, errors.ErrorCode_DECODE_FAILED) {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestJoinMeeting(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodJoin, `<response><returncode>SUCCESS</returncode><messageKey>successfullyJoined</messageKey>`+
		`<message>You have joined successfully.</message><meeting_id>ix-1</meeting_id><user_id>w_1</user_id>`+
		`<auth_token>tok</auth_token><session_token>sess</session_token><guestStatus>ALLOW</guestStatus>`+
		`<url>https://bbb.example.com/html5client/join?sessionToken=sess</url></response>`)

	resp, err := client.JoinMeeting(context.Background(), &bbb.JoinMeetingRequest{
		FullName:  "Ann Lee",
		MeetingID: "x",
		Password:  "a",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := &bbb.JoinMeetingResponse{
		MeetingID:    "ix-1",
		UserID:       "w_1",
		AuthToken:    "tok",
		SessionToken: "sess",
		URL:          "https://bbb.example.com/html5client/join?sessionToken=sess",
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("join response mismatch (-want +got):\n%s", diff)
	}

	call := srv.CallsTo(bbb.MethodJoin)[0]
	if !strings.HasPrefix(call.RawQuery, "fullName=Ann%20Lee&meetingID=x&password=a&redirect=FALSE&joinViaHtml5=true&checksum=") {
		t.Fatalf("unexpected raw query %q", call.RawQuery)
	}
}

func TestJoinMeeting_MissingPassword(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.JoinMeeting(context.Background(), &bbb.JoinMeetingRequest{FullName: "Ann", MeetingID: "x"})
	if !errors.HasCode(err, errors.ErrorCode_INVALID_ARGUMENT) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestJoinURL(t *testing.T) {
	client := bbb.NewClient("https://bbb.example.com/bigbluebutton/", "s")

	got, err := client.JoinURL(&bbb.JoinMeetingRequest{FullName: "Ann", MeetingID: "x", Password: "a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	query := "fullName=Ann&meetingID=x&password=a"
	want := "https://bbb.example.com/bigbluebutton/api/join?" + query + "&checksum=" + bbb.Checksum("join", query, "s")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("join url mismatch (-want +got):\n%s", diff)
	}
}

func TestIsMeetingRunning(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodIsMeetingRunning, fakeserver.Success("<running>true</running>"))

	running, err := client.IsMeetingRunning(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !running {
		t.Fatalf("expected running")
	}
}

func TestIsMeetingRunning_Failure(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodIsMeetingRunning, fakeserver.Failed("notFound", "We could not find a meeting with that meeting ID"))

	running, err := client.IsMeetingRunning(context.Background(), "x")
	if running {
		t.Fatalf("must not report running on failure")
	}
	msg, ok := errors.IsAPIFailed(err)
	if !ok || msg != "We could not find a meeting with that meeting ID" {
		t.Fatalf("unexpected error %v", err)
	}
	appErr, _ := errors.AsAppError(err)
	if appErr.Detail("message_key") != "notFound" {
		t.Fatalf("unexpected message key %q", appErr.Detail("message_key"))
	}
}

func TestEndMeeting(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodEnd, fakeserver.Success("<messageKey>sentEndMeetingRequest</messageKey>"))

	ended, err := client.EndMeeting(context.Background(), &bbb.EndMeetingRequest{MeetingID: "x", Password: "m"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ended {
		t.Fatalf("expected true")
	}
	if diff := cmp.Diff(url.Values{"meetingID": {"x"}, "password": {"m"}}, srv.CallsTo(bbb.MethodEnd)[0].Params); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMeetingInfo(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodGetMeetingInfo, fakeserver.Success(`<meetingName>Demo</meetingName><meetingID>x</meetingID>`+
		`<createTime>1531240585189</createTime><running>true</running><participantCount>1</participantCount>`+
		`<attendees><attendee><userID>w_1</userID><fullName>Ann</fullName><role>MODERATOR</role>`+
		`<isPresenter>true</isPresenter><isListeningOnly>false</isListeningOnly><hasJoinedVoice>false</hasJoinedVoice>`+
		`<hasVideo>true</hasVideo><clientType>HTML5</clientType></attendee></attendees>`))

	info, err := client.GetMeetingInfo(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []bbb.Attendee{{
		UserID:      "w_1",
		FullName:    "Ann",
		Role:        bbb.RoleModerator,
		IsPresenter: true,
		HasVideo:    true,
		ClientType:  "HTML5",
	}}
	if diff := cmp.Diff(want, info.Attendees); diff != "" {
		t.Errorf("attendees mismatch (-want +got):\n%s", diff)
	}
	if !info.Attendees[0].IsModerator() {
		t.Fatalf("expected moderator")
	}
	if !info.Running || info.ParticipantCount != 1 || info.MeetingName != "Demo" {
		t.Fatalf("unexpected meeting info %+v", info)
	}
}

func TestGetMeetingInfo_FailureIsAnError(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodGetMeetingInfo, fakeserver.Failed("notFound", "no meeting"))

	info, err := client.GetMeetingInfo(context.Background(), "x")
	if info != nil {
		t.Fatalf("expected nil info, got %+v", info)
	}
	if _, ok := errors.IsAPIFailed(err); !ok {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestGetMeetings(t *testing.T) {
	meeting := func(id string) string {
		return "<meeting><meetingID>" + id + "</meetingID><moderatorPW>mp</moderatorPW>" +
			"<attendees><attendee><userID>u-" + id + "</userID><role>VIEWER</role></attendee></attendees></meeting>"
	}

	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodGetMeetings, fakeserver.Success("<meetings>"+meeting("a")+"</meetings>"))
	srv.ReplyXML(bbb.MethodGetMeetings, fakeserver.Success("<meetings>"+meeting("a")+meeting("b")+"</meetings>"))
	srv.ReplyXML(bbb.MethodGetMeetings, fakeserver.Success("<meetings/><messageKey>noMeetings</messageKey>"))

	one, err := client.GetMeetings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	two, err := client.GetMeetings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	none, err := client.GetMeetings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(one) != 1 || len(two) != 2 {
		t.Fatalf("got %d and %d meetings", len(one), len(two))
	}
	if diff := cmp.Diff(two[0], one[0]); diff != "" {
		t.Errorf("singleton mapping differs (-array +single):\n%s", diff)
	}
	if two[1].MeetingID != "b" || two[1].Attendees[0].UserID != "u-b" {
		t.Fatalf("unexpected second meeting %+v", two[1])
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty slice, got %#v", none)
	}

	for _, call := range srv.CallsTo(bbb.MethodGetMeetings) {
		if !strings.HasPrefix(call.RawQuery, "&checksum=") {
			t.Fatalf("empty query must keep the leading '&', got %q", call.RawQuery)
		}
	}
}

func TestSHA256Checksum(t *testing.T) {
	client, srv := newTestClient(t, bbb.WithChecksumAlgorithm(bbb.ChecksumSHA256))
	srv.ReplyXML(bbb.MethodIsMeetingRunning, fakeserver.Success("<running>false</running>"))

	running, err := client.IsMeetingRunning(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if running {
		t.Fatalf("expected not running")
	}
	_, checksum, _ := bbb.StripChecksum(srv.Calls()[0].RawQuery)
	if len(checksum) != 64 {
		t.Fatalf("expected sha256 checksum, got %q", checksum)
	}
}

func TestWrongSecretIsRejected(t *testing.T) {
	srv := fakeserver.New(testSecret)
	defer srv.Close()
	client := bbb.NewClient(srv.URL(), "not-the-secret")

	_, err := client.IsMeetingRunning(context.Background(), "x")
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Detail("message_key") != "checksumError" {
		t.Fatalf("expected checksumError, got %v", err)
	}
}

func TestRequestFailed(t *testing.T) {
	srv := fakeserver.New(testSecret)
	host := srv.URL()
	srv.Close()
	client := bbb.NewClient(host, testSecret)

	_, err := client.GetMeetings(context.Background())
	if !errors.HasCode(err, errors.ErrorCode_REQUEST_FAILED) {
		t.Fatalf("expected request failure, got %v", err)
	}
}

func TestContextCancelled(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodGetMeetings, fakeserver.Success("<meetings/>"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.GetMeetings(ctx); !errors.HasCode(err, errors.ErrorCode_REQUEST_FAILED) {
		t.Fatalf("expected request failure, got %v", err)
	}
}

func TestConcurrentCalls(t *testing.T) {
	client, srv := newTestClient(t)
	srv.ReplyXML(bbb.MethodIsMeetingRunning, fakeserver.Success("<running>true</running>"))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.IsMeetingRunning(context.Background(), "x"); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if n := len(srv.Calls()); n != 16 {
		t.Fatalf("expected 16 calls, got %d", n)
	}
}

func TestLogsNeverContainChecksum(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client, srv := newTestClient(t, bbb.WithLogger(zap.New(core)))
	srv.ReplyXML(bbb.MethodEnd, fakeserver.Failed("notFound", "no meeting"))

	_, _ = client.EndMeeting(context.Background(), &bbb.EndMeetingRequest{MeetingID: "x", Password: "m"})

	if logs.Len() == 0 {
		t.Fatalf("expected log entries")
	}
	for _, entry := range logs.All() {
		for key, value := range entry.ContextMap() {
			if s, ok := value.(string); ok && strings.Contains(s, "checksum=") {
				t.Fatalf("field %s leaks checksum: %s", key, s)
			}
		}
	}
	if warn := logs.FilterLevelExact(zapcore.WarnLevel); warn.Len() != 1 {
		t.Fatalf("expected one warning, got %d", warn.Len())
	}
}
