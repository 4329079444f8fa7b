package notifier

import "context"

// Event kinds for security-relevant account changes.
const (
	KindPasswordChanged = "password_changed"
	KindMFAEnabled      = "mfa_enabled"
	KindMFADisabled     = "mfa_disabled"
	KindAccountDeleted  = "account_deleted"
)

// Event describes one security-relevant change to an account.
type Event struct {
	Kind   string
	UserID int64
	Email  string
}

// Notifier delivers security events out of band. Delivery is best effort:
// implementations log failures and never surface them to the workflow.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// Nop discards every event. Used when notifications are not configured.
type Nop struct{}

func (Nop) Notify(context.Context, Event) {}
