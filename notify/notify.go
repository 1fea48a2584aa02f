// Package notify provides leave.Notifier implementations.
//
// Email delivery itself is an external collaborator; the engine only needs
// a sender it can hand decisions to. LogSender writes each notification to
// the structured log, which is also what deployments without an SMTP relay
// run with.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/warp/hr-engine/leave"
)

// LogSender logs notifications instead of delivering them.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

var _ leave.Notifier = (*LogSender)(nil)

func (s *LogSender) SendApproved(_ context.Context, email string, r *leave.Request) {
	s.logger.Info().
		Str("email", email).
		Str("request_id", r.ID).
		Str("leave_type", string(r.Type)).
		Str("start_date", r.StartDate.String()).
		Str("end_date", r.EndDate.String()).
		Msg("leave approved notification")
}

func (s *LogSender) SendRejected(_ context.Context, email string, r *leave.Request, reason string) {
	s.logger.Info().
		Str("email", email).
		Str("request_id", r.ID).
		Str("leave_type", string(r.Type)).
		Str("reason", reason).
		Msg("leave rejected notification")
}
