package bbb

import (
	"strings"
	"time"

	"github.com/clbanning/mxj/v2"
	"github.com/spf13/cast"

	"github.com/johnquangdev/bigbluebutton/errors"
)

const returnCodeSuccess = "SUCCESS"

// node is one element of the parsed response tree. Leaves are strings,
// repeated siblings are []interface{}, nested elements are maps.
type node map[string]interface{}

// parseResponse parses an XML body and returns its <response> element.
// A document with another root yields an empty node, which fails the
// returncode check.
func parseResponse(body []byte) (node, error) {
	m, err := mxj.NewMapXml(body)
	if err != nil {
		return nil, err
	}
	if root := asNode(m["response"]); root != nil {
		return root, nil
	}
	return node{}, nil
}

func asNode(v interface{}) node {
	switch t := v.(type) {
	case map[string]interface{}:
		return node(t)
	case mxj.Map:
		return node(t)
	case node:
		return t
	}
	return nil
}

// leaf returns the scalar content of key. Elements that carry attributes
// keep their text under "#text".
func (n node) leaf(key string) interface{} {
	v, ok := n[key]
	if !ok {
		return nil
	}
	if child := asNode(v); child != nil {
		return child["#text"]
	}
	return v
}

func (n node) has(key string) bool {
	return n.leaf(key) != nil
}

func (n node) str(key string) string {
	return strings.TrimSpace(cast.ToString(n.leaf(key)))
}

func (n node) integer(key string) int {
	return cast.ToInt(n.str(key))
}

func (n node) integer64(key string) int64 {
	return cast.ToInt64(n.str(key))
}

func (n node) boolean(key string) bool {
	return cast.ToBool(n.str(key))
}

// millis interprets key as epoch milliseconds. Absent yields the zero time.
func (n node) millis(key string) time.Time {
	if !n.has(key) {
		return time.Time{}
	}
	return time.UnixMilli(n.integer64(key))
}

// child returns the nested element under key, or nil.
func (n node) child(key string) node {
	if n == nil {
		return nil
	}
	return asNode(n[key])
}

// ensureSequence normalizes the parser's singleton-vs-array ambiguity:
// absent is empty, an array is itself, anything else is a one-element sequence.
func ensureSequence(v interface{}) []interface{} {
	switch t := v.(type) {
	case nil:
		return []interface{}{}
	case []interface{}:
		return t
	case []map[string]interface{}:
		seq := make([]interface{}, len(t))
		for i := range t {
			seq[i] = t[i]
		}
		return seq
	default:
		return []interface{}{t}
	}
}

// mapSequence applies fn to every element found under container/item.
// Items that are not elements are skipped.
func mapSequence[T any](n node, container, item string, fn func(node) T) []T {
	var raw interface{}
	if c := n.child(container); c != nil {
		raw = c[item]
	}
	seq := ensureSequence(raw)
	out := make([]T, 0, len(seq))
	for _, v := range seq {
		if el := asNode(v); el != nil {
			out = append(out, fn(el))
		}
	}
	return out
}

// isSuccess is the single success check shared by every operation.
func isSuccess(n node) bool {
	return n.str("returncode") == returnCodeSuccess
}

// checkReturnCode converts a non-success response into an API error.
func checkReturnCode(method string, n node) error {
	if isSuccess(n) {
		return nil
	}
	return errors.ErrAPIFailed(method, n.str("messageKey"), n.str("message"))
}

func toCreateMeetingResponse(n node) *CreateMeetingResponse {
	return &CreateMeetingResponse{
		MeetingID:            n.str("meetingID"),
		InternalMeetingID:    n.str("internalMeetingID"),
		ParentMeetingID:      n.str("parentMeetingID"),
		AttendeePW:           n.str("attendeePW"),
		ModeratorPW:          n.str("moderatorPW"),
		CreateTime:           n.integer64("createTime"),
		Created:              n.millis("createTime"),
		VoiceBridge:          n.str("voiceBridge"),
		DialNumber:           n.str("dialNumber"),
		HasUserJoined:        n.boolean("hasUserJoined"),
		Duration:             n.integer("duration"),
		HasBeenForciblyEnded: n.boolean("hasBeenForciblyEnded"),
	}
}

func toJoinMeetingResponse(n node) *JoinMeetingResponse {
	return &JoinMeetingResponse{
		MeetingID:    n.str("meeting_id"),
		UserID:       n.str("user_id"),
		AuthToken:    n.str("auth_token"),
		SessionToken: n.str("session_token"),
		URL:          n.str("url"),
	}
}

func toAttendee(n node) Attendee {
	return Attendee{
		UserID:          n.str("userID"),
		FullName:        n.str("fullName"),
		Role:            Role(strings.ToUpper(n.str("role"))),
		IsPresenter:     n.boolean("isPresenter"),
		IsListeningOnly: n.boolean("isListeningOnly"),
		HasJoinedVoice:  n.boolean("hasJoinedVoice"),
		HasVideo:        n.boolean("hasVideo"),
		ClientType:      n.str("clientType"),
	}
}

func toBreakout(n node) *Breakout {
	if n == nil {
		return nil
	}
	return &Breakout{
		ParentMeetingID: n.str("parentMeetingID"),
		Sequence:        n.integer("sequence"),
		FreeJoin:        n.boolean("freeJoin"),
	}
}

func toMetadata(n node) map[string]string {
	if len(n) == 0 {
		return nil
	}
	meta := make(map[string]string, len(n))
	for key := range n {
		if strings.HasPrefix(key, "-") || strings.HasPrefix(key, "#") {
			continue
		}
		meta[key] = n.str(key)
	}
	return meta
}

func toBreakoutRooms(n node) []string {
	rooms := n.child("breakoutRooms")
	if rooms == nil {
		return nil
	}
	var ids []string
	for _, v := range ensureSequence(rooms["breakout"]) {
		if id := strings.TrimSpace(cast.ToString(v)); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func toMeetingInfo(n node) *MeetingInfo {
	return &MeetingInfo{
		MeetingName:           n.str("meetingName"),
		MeetingID:             n.str("meetingID"),
		InternalMeetingID:     n.str("internalMeetingID"),
		CreateTime:            n.integer64("createTime"),
		Created:               n.millis("createTime"),
		VoiceBridge:           n.str("voiceBridge"),
		DialNumber:            n.str("dialNumber"),
		AttendeePW:            n.str("attendeePW"),
		ModeratorPW:           n.str("moderatorPW"),
		Running:               n.boolean("running"),
		Duration:              n.integer("duration"),
		HasUserJoined:         n.boolean("hasUserJoined"),
		Recording:             n.boolean("recording"),
		HasBeenForciblyEnded:  n.boolean("hasBeenForciblyEnded"),
		StartTime:             n.integer64("startTime"),
		EndTime:               n.integer64("endTime"),
		ParticipantCount:      n.integer("participantCount"),
		ListenerCount:         n.integer("listenerCount"),
		VoiceParticipantCount: n.integer("voiceParticipantCount"),
		VideoCount:            n.integer("videoCount"),
		MaxUsers:              n.integer("maxUsers"),
		ModeratorCount:        n.integer("moderatorCount"),
		Attendees:             mapSequence(n, "attendees", "attendee", toAttendee),
		Metadata:              toMetadata(n.child("metadata")),
		IsBreakout:            n.boolean("isBreakout"),
		BreakoutRooms:         toBreakoutRooms(n),
		Breakout:              toBreakout(n.child("breakout")),
	}
}

func toMeetings(n node) []*MeetingInfo {
	return mapSequence(n, "meetings", "meeting", toMeetingInfo)
}
