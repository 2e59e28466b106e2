package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/johnquangdev/bigbluebutton/pkg/bbb"
)

type createFlags struct {
	ID          string
	Name        string
	AttendeePW  string
	ModeratorPW string
	Welcome     string
	Record      bool
	Duration    int
	GuestPolicy string
	Meta        map[string]string
}

func newCreateCommand(s *session) *cobra.Command {
	flags := &createFlags{}
	c := &cobra.Command{
		Use:   "create",
		Short: "Create a meeting",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			req := &bbb.CreateMeetingRequest{
				MeetingID:   flags.ID,
				Name:        flags.Name,
				AttendeePW:  flags.AttendeePW,
				ModeratorPW: flags.ModeratorPW,
				Welcome:     flags.Welcome,
				GuestPolicy: bbb.GuestPolicy(flags.GuestPolicy),
				Meta:        flags.Meta,
			}
			if req.MeetingID == "" {
				req.MeetingID = uuid.NewString()
			}
			if c.Flags().Changed("record") {
				req.Record = bbb.Bool(flags.Record)
			}
			if c.Flags().Changed("duration") {
				req.Duration = bbb.Int(flags.Duration)
			}
			resp, err := s.client.CreateMeeting(s.context(c), req)
			if err != nil {
				return err
			}
			return s.print(resp)
		},
	}
	f := c.Flags()
	f.StringVar(&flags.ID, "id", "", "Meeting ID (a random UUID when empty)")
	f.StringVar(&flags.Name, "name", "", "Meeting name")
	f.StringVar(&flags.AttendeePW, "attendee-pw", "", "Attendee password")
	f.StringVar(&flags.ModeratorPW, "moderator-pw", "", "Moderator password")
	f.StringVar(&flags.Welcome, "welcome", "", "Welcome message")
	f.BoolVar(&flags.Record, "record", false, "Allow the meeting to be recorded")
	f.IntVar(&flags.Duration, "duration", 0, "Maximum length in minutes")
	f.StringVar(&flags.GuestPolicy, "guest-policy", "", "ALWAYS_ACCEPT, ALWAYS_DENY or ASK_MODERATOR")
	f.StringToStringVar(&flags.Meta, "meta", nil, "Metadata as key=value pairs")
	return c
}

type joinFlags struct {
	ID       string
	Name     string
	Password string
	UserID   string
	Guest    bool
	URLOnly  bool
}

func newJoinCommand(s *session) *cobra.Command {
	flags := &joinFlags{}
	c := &cobra.Command{
		Use:   "join",
		Short: "Join a meeting and print the session tokens",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			req := &bbb.JoinMeetingRequest{
				FullName:  flags.Name,
				MeetingID: flags.ID,
				Password:  flags.Password,
				UserID:    flags.UserID,
			}
			if c.Flags().Changed("guest") {
				req.Guest = bbb.Bool(flags.Guest)
			}
			if flags.URLOnly {
				joinURL, err := s.client.JoinURL(req)
				if err != nil {
					return err
				}
				return s.print(map[string]string{"url": joinURL})
			}
			resp, err := s.client.JoinMeeting(s.context(c), req)
			if err != nil {
				return err
			}
			return s.print(resp)
		},
	}
	f := c.Flags()
	f.StringVar(&flags.ID, "id", "", "Meeting ID")
	f.StringVar(&flags.Name, "name", "", "Display name")
	f.StringVar(&flags.Password, "password", "", "Attendee or moderator password")
	f.StringVar(&flags.UserID, "user-id", "", "External user ID")
	f.BoolVar(&flags.Guest, "guest", false, "Join as a guest")
	f.BoolVar(&flags.URLOnly, "url-only", false, "Print a signed browser join URL without calling the server")
	c.MarkFlagRequired("id")
	c.MarkFlagRequired("name")
	c.MarkFlagRequired("password")
	return c
}

func newEndCommand(s *session) *cobra.Command {
	req := &bbb.EndMeetingRequest{}
	c := &cobra.Command{
		Use:   "end",
		Short: "End a meeting",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ended, err := s.client.EndMeeting(s.context(c), req)
			if err != nil {
				return err
			}
			return s.print(map[string]bool{"ended": ended})
		},
	}
	c.Flags().StringVar(&req.MeetingID, "id", "", "Meeting ID")
	c.Flags().StringVar(&req.Password, "password", "", "Moderator password")
	c.MarkFlagRequired("id")
	c.MarkFlagRequired("password")
	return c
}

func newInfoCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "info MEETING_ID",
		Short: "Show a meeting and its attendees",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			info, err := s.client.GetMeetingInfo(s.context(c), args[0])
			if err != nil {
				return err
			}
			return s.print(info)
		},
	}
}

func newListCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every meeting on the server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			meetings, err := s.client.GetMeetings(s.context(c))
			if err != nil {
				return err
			}
			return s.print(meetings)
		},
	}
}
