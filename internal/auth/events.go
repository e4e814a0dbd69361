package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alshifa/hospital-management/internal/core/events"
)

const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

func NewUserRegisteredEvent(userID, email, role string) events.Event {
	return events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventUserRegistered,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
			"role":    role,
		},
	}
}

func NewUserLoggedInEvent(userID, email string) events.Event {
	return events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      EventUserLoggedIn,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"user_id": userID,
			"email":   email,
		},
	}
}

// LastLoginRecorder returns the user.logged_in subscriber that stamps the
// account's last-login time. The write is best effort: a failure is logged
// and never surfaces to the login response.
func LastLoginRecorder(repo RepositoryAPI, logger *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		data, ok := event.Payload().(map[string]interface{})
		if !ok {
			return nil
		}
		userID, _ := data["user_id"].(string)
		if userID == "" {
			return nil
		}
		if err := repo.UpdateLastLogin(userID, event.OccurredAt()); err != nil {
			logger.Warn("failed to record last login", "user_id", userID, "error", err)
		}
		return nil
	}
}
