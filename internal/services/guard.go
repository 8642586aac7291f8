package services

import (
	"context"
	"log/slog"

	"github.com/baharkarakas/blog-backend/internal/apperr"
	"github.com/baharkarakas/blog-backend/internal/metrics"
	"github.com/baharkarakas/blog-backend/internal/models"
)

// authorizeContent allows only the author of a post or comment. Admins get no
// override here.
func authorizeContent(ctx context.Context, log *slog.Logger, p models.Principal, ownerID int64) error {
	if p.ID == ownerID {
		return nil
	}
	return deny(ctx, log, metrics.PolicyContent, p, ownerID)
}

// authorizeAccount allows the account holder or an admin.
func authorizeAccount(ctx context.Context, log *slog.Logger, p models.Principal, targetID int64) error {
	if p.ID == targetID || p.IsAdmin() {
		return nil
	}
	return deny(ctx, log, metrics.PolicyAccount, p, targetID)
}

func authorizeAdmin(ctx context.Context, log *slog.Logger, p models.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	return deny(ctx, log, metrics.PolicyRole, p, 0)
}

func deny(ctx context.Context, log *slog.Logger, policy string, p models.Principal, target int64) error {
	metrics.AuthzDenied.WithLabelValues(policy).Inc()
	log.DebugContext(ctx, "authorization denied",
		"policy", policy,
		"principal_id", p.ID,
		"target_id", target,
	)
	return apperr.Forbidden()
}
