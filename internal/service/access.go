package service

import (
	"time"

	domainauth "github.com/ecoworth/marketplace-web/internal/domain/auth"
	apperrors "github.com/ecoworth/marketplace-web/internal/errors"
)

// requireRole checks that sess is live and, when roles are given, holds one of them.
func requireRole(sess *domainauth.Session, now time.Time, roles ...domainauth.Role) error {
	if !sess.Valid(now) {
		return apperrors.Unauthenticated("Please log in to continue.")
	}
	if len(roles) > 0 && !sess.HasRole(roles...) {
		return apperrors.Unauthorized("Your account cannot perform this action.")
	}
	return nil
}
