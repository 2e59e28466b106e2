package cli

import (
	"context"
	stdErrors "errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/johnquangdev/bigbluebutton/errors"
	"github.com/johnquangdev/bigbluebutton/pkg/bbb"
)

var errNotRunning = stdErrors.New("meeting is not running yet")

type waitFlags struct {
	Timeout  time.Duration
	Interval time.Duration
}

func newWaitCommand(s *session) *cobra.Command {
	flags := &waitFlags{}
	c := &cobra.Command{
		Use:   "wait MEETING_ID",
		Short: "Block until a meeting is running",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			if err := waitRunning(s.context(c), s.client, s.logger, args[0], flags); err != nil {
				return err
			}
			return s.print(map[string]bool{args[0]: true})
		},
	}
	c.Flags().DurationVar(&flags.Timeout, "timeout", 2*time.Minute, "Give up after this long")
	c.Flags().DurationVar(&flags.Interval, "interval", time.Second, "First polling interval; later ones grow exponentially")
	return c
}

// waitRunning polls isMeetingRunning with exponential backoff. Transport and
// network failures are retried; API errors end the wait immediately.
func waitRunning(ctx context.Context, client *bbb.Client, logger *zap.Logger, meetingID string, flags *waitFlags) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = flags.Interval
	bo.MaxInterval = 10 * flags.Interval
	bo.MaxElapsedTime = flags.Timeout

	attempt := 0
	poll := func() error {
		attempt++
		running, err := client.IsMeetingRunning(ctx, meetingID)
		switch {
		case err == nil && running:
			return nil
		case err == nil:
			return errNotRunning
		case errors.HasCode(err, errors.ErrorCode_TRANSPORT), errors.HasCode(err, errors.ErrorCode_REQUEST_FAILED):
			return err
		default:
			return backoff.Permanent(err)
		}
	}
	notify := func(err error, next time.Duration) {
		logger.Debug("Meeting not running, polling again",
			zap.String("meeting_id", meetingID),
			zap.Int("attempt", attempt),
			zap.Duration("next", next),
			zap.Error(err),
		)
	}

	err := backoff.RetryNotify(poll, backoff.WithContext(bo, ctx), notify)
	if stdErrors.Is(err, errNotRunning) {
		return fmt.Errorf("meeting %s did not start within %s", meetingID, flags.Timeout)
	}
	return err
}
