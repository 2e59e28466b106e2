package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/johnquangdev/bigbluebutton/pkg/bbb"
)

// maxConcurrentChecks bounds in-flight isMeetingRunning calls
const maxConcurrentChecks = 8

func newRunningCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "running MEETING_ID...",
		Short: "Report whether meetings are running",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			running, err := checkRunning(s.context(c), s.client, args)
			if err != nil {
				return err
			}
			return s.print(running)
		},
	}
}

// checkRunning queries every meeting concurrently and fails on the first error.
func checkRunning(ctx context.Context, client *bbb.Client, meetingIDs []string) (map[string]bool, error) {
	var (
		mu      sync.Mutex
		running = make(map[string]bool, len(meetingIDs))
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentChecks)
	for _, id := range meetingIDs {
		g.Go(func() error {
			ok, err := client.IsMeetingRunning(ctx, id)
			if err != nil {
				return fmt.Errorf("meeting %s: %w", id, err)
			}
			mu.Lock()
			running[id] = ok
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return running, nil
}

func newEndAllCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "end-all",
		Short: "End every meeting on the server",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			ended, err := endAll(s.context(c), s.client, s.logger)
			if printErr := s.print(map[string][]string{"ended": ended}); printErr != nil {
				return printErr
			}
			return err
		},
	}
}

// endAll ends each listed meeting with its moderator password. Failures do
// not stop the sweep; they are returned together.
func endAll(ctx context.Context, client *bbb.Client, logger *zap.Logger) ([]string, error) {
	meetings, err := client.GetMeetings(ctx)
	if err != nil {
		return nil, err
	}

	var merr *multierror.Error
	ended := []string{}
	for _, m := range meetings {
		req := &bbb.EndMeetingRequest{MeetingID: m.MeetingID, Password: m.ModeratorPW}
		if _, err := client.EndMeeting(ctx, req); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("meeting %s: %w", m.MeetingID, err))
			continue
		}
		logger.Info("Ended meeting", zap.String("meeting_id", m.MeetingID))
		ended = append(ended, m.MeetingID)
	}
	return ended, merr.ErrorOrNil()
}
