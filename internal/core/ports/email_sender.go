package ports

import "context"

// EmailSender delivers transactional email. Delivery failures must never
// block identity creation; callers report them as warnings and retry
// asynchronously.
type EmailSender interface {
	SendVerification(ctx context.Context, recipient, token string) error
}

// PendingEmail is a verification email queued for (re-)delivery.
type PendingEmail struct {
	Recipient string
	Token     string
	Attempt   int
}
