package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/migherize/go-api-boilerplate/internal/config"
	"github.com/migherize/go-api-boilerplate/internal/lib/email"
)

// emailClient is shared by job handlers. It stays nil when no email
// integration is configured; handlers then acknowledge tasks without
// sending anything instead of retrying forever.
var emailClient *email.Client

// InitHandlers initializes dependencies required by job handlers.
// Must be called before Start.
func (j *JobService) InitHandlers(cfg *config.Config, logger *zerolog.Logger) {
	if cfg.Integration != nil {
		emailClient = email.NewClient(cfg, logger)
	}
}

// handleTodoReminderTask processes a todo reminder task: decode the
// payload and send the reminder email. Returning an error makes Asynq
// mark the task failed and schedule a retry.
func (j *JobService) handleTodoReminderTask(ctx context.Context, t *asynq.Task) error {
	var p TodoReminderPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal todo reminder payload: %w", err)
	}

	logger := j.logger.With().
		Str("type", "todo_reminder").
		Str("todo_id", p.TodoID).
		Str("to", p.To).
		Logger()

	if emailClient == nil {
		logger.Warn().Msg("email integration not configured, dropping reminder")
		return nil
	}

	logger.Info().Msg("processing todo reminder task")

	if err := emailClient.SendTodoReminderEmail(p.To, p.Title, p.DueDate); err != nil {
		logger.Error().Err(err).Msg("failed to send todo reminder email")
		return err
	}

	logger.Info().Msg("successfully sent todo reminder email")
	return nil
}
