package services

import (
	"fmt"
	"log/slog"

	"github.com/gymstack/gymstack-backend/internal/models"
)

// InviteResult reports the outcome of an invitation send. A failed send is
// logged by the caller and never blocks the directory mutation.
type InviteResult struct {
	Success bool
	Message string
}

// Mailer delivers invitation emails. Delivery itself is outside this core;
// implementations may hand off to any transport.
type Mailer interface {
	SendInvitation(email string, role models.Role, firstName, lastName, inviteURL string) InviteResult
}

// LogMailer records the invitation instead of delivering it. Used in
// development and tests, and as the default when no transport is configured.
type LogMailer struct{}

func (LogMailer) SendInvitation(email string, role models.Role, firstName, lastName, inviteURL string) InviteResult {
	slog.Info("invitation issued",
		"email", email,
		"role", string(role),
		"name", firstName+" "+lastName,
	)
	return InviteResult{Success: true, Message: fmt.Sprintf("invitation issued for %s", email)}
}
