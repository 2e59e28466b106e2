package bbb

import "time"

// API method names, as they appear in the request path and in the checksum.
const (
	MethodCreate           = "create"
	MethodJoin             = "join"
	MethodIsMeetingRunning = "isMeetingRunning"
	MethodEnd              = "end"
	MethodGetMeetingInfo   = "getMeetingInfo"
	MethodGetMeetings      = "getMeetings"
)

// Role of an attendee
type Role string

const (
	RoleViewer    Role = "VIEWER"
	RoleModerator Role = "MODERATOR"
)

// GuestPolicy controls how guests are admitted
type GuestPolicy string

const (
	GuestPolicyAlwaysAccept GuestPolicy = "ALWAYS_ACCEPT"
	GuestPolicyAlwaysDeny   GuestPolicy = "ALWAYS_DENY"
	GuestPolicyAskModerator GuestPolicy = "ASK_MODERATOR"
)

// CreateMeetingRequest holds the parameters of the create call.
// Only MeetingID is required; nil pointers and empty strings are not sent.
type CreateMeetingRequest struct {
	Name                               string            `json:"name,omitempty"`
	MeetingID                          string            `json:"meetingID" validate:"required"`
	AttendeePW                         string            `json:"attendeePW,omitempty"`
	ModeratorPW                        string            `json:"moderatorPW,omitempty"`
	Welcome                            string            `json:"welcome,omitempty"`
	DialNumber                         string            `json:"dialNumber,omitempty"`
	VoiceBridge                        string            `json:"voiceBridge,omitempty"`
	MaxParticipants                    *int              `json:"maxParticipants,omitempty" validate:"omitempty,gte=0"`
	LogoutURL                          string            `json:"logoutURL,omitempty" validate:"omitempty,url"`
	Record                             *bool             `json:"record,omitempty"`
	Duration                           *int              `json:"duration,omitempty" validate:"omitempty,gte=0"`
	IsBreakout                         *bool             `json:"isBreakout,omitempty"`
	ParentMeetingID                    string            `json:"parentMeetingID,omitempty"`
	Sequence                           *int              `json:"sequence,omitempty" validate:"omitempty,gte=0"`
	FreeJoin                           *bool             `json:"freeJoin,omitempty"`
	ModeratorOnlyMessage               string            `json:"moderatorOnlyMessage,omitempty"`
	AutoStartRecording                 *bool             `json:"autoStartRecording,omitempty"`
	AllowStartStopRecording            *bool             `json:"allowStartStopRecording,omitempty"`
	WebcamsOnlyForModerator            *bool             `json:"webcamsOnlyForModerator,omitempty"`
	Logo                               string            `json:"logo,omitempty"`
	BannerText                         string            `json:"bannerText,omitempty"`
	BannerColor                        string            `json:"bannerColor,omitempty"`
	Copyright                          string            `json:"copyright,omitempty"`
	MuteOnStart                        *bool             `json:"muteOnStart,omitempty"`
	AllowModsToUnmuteUsers             *bool             `json:"allowModsToUnmuteUsers,omitempty"`
	LockSettingsDisableCam             *bool             `json:"lockSettingsDisableCam,omitempty"`
	LockSettingsDisableMic             *bool             `json:"lockSettingsDisableMic,omitempty"`
	LockSettingsDisablePrivateChat     *bool             `json:"lockSettingsDisablePrivateChat,omitempty"`
	LockSettingsDisablePublicChat      *bool             `json:"lockSettingsDisablePublicChat,omitempty"`
	LockSettingsDisableNote            *bool             `json:"lockSettingsDisableNote,omitempty"`
	LockSettingsLockedLayout           *bool             `json:"lockSettingsLockedLayout,omitempty"`
	LockSettingsLockOnJoin             *bool             `json:"lockSettingsLockOnJoin,omitempty"`
	LockSettingsLockOnJoinConfigurable *bool             `json:"lockSettingsLockOnJoinConfigurable,omitempty"`
	GuestPolicy                        GuestPolicy       `json:"guestPolicy,omitempty" validate:"omitempty,oneof=ALWAYS_ACCEPT ALWAYS_DENY ASK_MODERATOR"`
	Meta                               map[string]string `json:"meta,omitempty"`
}

// Params returns the query parameters in wire order.
func (r *CreateMeetingRequest) Params() Params {
	var p Params
	p.SetString("name", r.Name)
	p.Set("meetingID", r.MeetingID)
	p.SetString("attendeePW", r.AttendeePW)
	p.SetString("moderatorPW", r.ModeratorPW)
	p.SetString("welcome", r.Welcome)
	p.SetString("dialNumber", r.DialNumber)
	p.SetString("voiceBridge", r.VoiceBridge)
	p.SetInt("maxParticipants", r.MaxParticipants)
	p.SetString("logoutURL", r.LogoutURL)
	p.SetBool("record", r.Record)
	p.SetInt("duration", r.Duration)
	p.SetBool("isBreakout", r.IsBreakout)
	p.SetString("parentMeetingID", r.ParentMeetingID)
	p.SetInt("sequence", r.Sequence)
	p.SetBool("freeJoin", r.FreeJoin)
	p.SetString("moderatorOnlyMessage", r.ModeratorOnlyMessage)
	p.SetBool("autoStartRecording", r.AutoStartRecording)
	p.SetBool("allowStartStopRecording", r.AllowStartStopRecording)
	p.SetBool("webcamsOnlyForModerator", r.WebcamsOnlyForModerator)
	p.SetString("logo", r.Logo)
	p.SetString("bannerText", r.BannerText)
	p.SetString("bannerColor", r.BannerColor)
	p.SetString("copyright", r.Copyright)
	p.SetBool("muteOnStart", r.MuteOnStart)
	p.SetBool("allowModsToUnmuteUsers", r.AllowModsToUnmuteUsers)
	p.SetBool("lockSettingsDisableCam", r.LockSettingsDisableCam)
	p.SetBool("lockSettingsDisableMic", r.LockSettingsDisableMic)
	p.SetBool("lockSettingsDisablePrivateChat", r.LockSettingsDisablePrivateChat)
	p.SetBool("lockSettingsDisablePublicChat", r.LockSettingsDisablePublicChat)
	p.SetBool("lockSettingsDisableNote", r.LockSettingsDisableNote)
	p.SetBool("lockSettingsLockedLayout", r.LockSettingsLockedLayout)
	p.SetBool("lockSettingsLockOnJoin", r.LockSettingsLockOnJoin)
	p.SetBool("lockSettingsLockOnJoinConfigurable", r.LockSettingsLockOnJoinConfigurable)
	p.SetString("guestPolicy", string(r.GuestPolicy))
	p.SetMeta(r.Meta)
	return p
}

// CreateMeetingResponse is the result of create.
// AttendeePW and ModeratorPW are always filled in by the server.
type CreateMeetingResponse struct {
	MeetingID            string    `json:"meetingID"`
	InternalMeetingID    string    `json:"internalMeetingID"`
	ParentMeetingID      string    `json:"parentMeetingID,omitempty"`
	AttendeePW           string    `json:"attendeePW"`
	ModeratorPW          string    `json:"moderatorPW"`
	CreateTime           int64     `json:"createTime"`
	Created              time.Time `json:"created"`
	VoiceBridge          string    `json:"voiceBridge,omitempty"`
	DialNumber           string    `json:"dialNumber,omitempty"`
	HasUserJoined        bool      `json:"hasUserJoined"`
	Duration             int       `json:"duration"`
	HasBeenForciblyEnded bool      `json:"hasBeenForciblyEnded"`
}

// JoinMeetingRequest holds the parameters of the join call.
// The server infers the role from which password matches.
type JoinMeetingRequest struct {
	FullName      string `json:"fullName" validate:"required"`
	MeetingID     string `json:"meetingID" validate:"required"`
	Password      string `json:"password" validate:"required"`
	CreateTime    *int64 `json:"createTime,omitempty"`
	UserID        string `json:"userID,omitempty"`
	WebVoiceConf  string `json:"webVoiceConf,omitempty"`
	ConfigToken   string `json:"configToken,omitempty"`
	DefaultLayout string `json:"defaultLayout,omitempty"`
	AvatarURL     string `json:"avatarURL,omitempty" validate:"omitempty,url"`
	ClientURL     string `json:"clientURL,omitempty" validate:"omitempty,url"`
	Guest         *bool  `json:"guest,omitempty"`
}

// Params returns the query parameters in wire order.
func (r *JoinMeetingRequest) Params() Params {
	var p Params
	p.Set("fullName", r.FullName)
	p.Set("meetingID", r.MeetingID)
	p.Set("password", r.Password)
	p.SetInt64("createTime", r.CreateTime)
	p.SetString("userID", r.UserID)
	p.SetString("webVoiceConf", r.WebVoiceConf)
	p.SetString("configToken", r.ConfigToken)
	p.SetString("defaultLayout", r.DefaultLayout)
	p.SetString("avatarURL", r.AvatarURL)
	p.SetString("clientURL", r.ClientURL)
	p.SetBool("guest", r.Guest)
	return p
}

// JoinMeetingResponse is the result of a join made with redirect disabled.
type JoinMeetingResponse struct {
	MeetingID    string `json:"meetingID"`
	UserID       string `json:"userID"`
	AuthToken    string `json:"authToken"`
	SessionToken string `json:"sessionToken"`
	URL          string `json:"url"`
}

// EndMeetingRequest holds the parameters of the end call.
type EndMeetingRequest struct {
	MeetingID string `json:"meetingID" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// Params returns the query parameters in wire order.
func (r *EndMeetingRequest) Params() Params {
	var p Params
	p.Set("meetingID", r.MeetingID)
	p.Set("password", r.Password)
	return p
}

// meetingIDRequest is the parameter set of isMeetingRunning and getMeetingInfo.
type meetingIDRequest struct {
	MeetingID string `validate:"required"`
}

func (r *meetingIDRequest) Params() Params {
	var p Params
	p.Set("meetingID", r.MeetingID)
	return p
}

// Attendee is a participant currently in a meeting
type Attendee struct {
	UserID          string `json:"userID"`
	FullName        string `json:"fullName"`
	Role            Role   `json:"role"`
	IsPresenter     bool   `json:"isPresenter"`
	IsListeningOnly bool   `json:"isListeningOnly"`
	HasJoinedVoice  bool   `json:"hasJoinedVoice"`
	HasVideo        bool   `json:"hasVideo"`
	ClientType      string `json:"clientType"`
}

// IsModerator reports whether the attendee joined with the moderator password
func (a Attendee) IsModerator() bool {
	return a.Role == RoleModerator
}

// Breakout links a breakout room to its parent meeting
type Breakout struct {
	ParentMeetingID string `json:"parentMeetingID"`
	Sequence        int    `json:"sequence"`
	FreeJoin        bool   `json:"freeJoin"`
}

// MeetingInfo is the state of one meeting as reported by getMeetingInfo and getMeetings.
type MeetingInfo struct {
	MeetingName           string            `json:"meetingName"`
	MeetingID             string            `json:"meetingID"`
	InternalMeetingID     string            `json:"internalMeetingID"`
	CreateTime            int64             `json:"createTime"`
	Created               time.Time         `json:"created"`
	VoiceBridge           string            `json:"voiceBridge,omitempty"`
	DialNumber            string            `json:"dialNumber,omitempty"`
	AttendeePW            string            `json:"attendeePW"`
	ModeratorPW           string            `json:"moderatorPW"`
	Running               bool              `json:"running"`
	Duration              int               `json:"duration"`
	HasUserJoined         bool              `json:"hasUserJoined"`
	Recording             bool              `json:"recording"`
	HasBeenForciblyEnded  bool              `json:"hasBeenForciblyEnded"`
	StartTime             int64             `json:"startTime,omitempty"`
	EndTime               int64             `json:"endTime,omitempty"`
	ParticipantCount      int               `json:"participantCount"`
	ListenerCount         int               `json:"listenerCount"`
	VoiceParticipantCount int               `json:"voiceParticipantCount"`
	VideoCount            int               `json:"videoCount"`
	MaxUsers              int               `json:"maxUsers"`
	ModeratorCount        int               `json:"moderatorCount"`
	Attendees             []Attendee        `json:"attendees"`
	Metadata              map[string]string `json:"metadata,omitempty"`
	IsBreakout            bool              `json:"isBreakout"`
	BreakoutRooms         []string          `json:"breakoutRooms,omitempty"`
	Breakout              *Breakout         `json:"breakout,omitempty"`
}
