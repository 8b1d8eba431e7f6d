package notify

import (
	"context"
	"log/slog"
)

// LogNotifier records verification links in the log instead of sending mail.
type LogNotifier struct {
	BaseURL string
	Logger  *slog.Logger
}

func (n LogNotifier) SendVerification(ctx context.Context, email string, token string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "verification link issued",
		"event", "identity_verification_issued",
		"module", "identity-access/identity-service",
		"layer", "adapter",
		"email", email,
		"verify_url", n.BaseURL+"/auth/verify?token="+token,
	)
	return nil
}
