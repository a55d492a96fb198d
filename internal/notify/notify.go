// Package notify sends freedesktop desktop notifications.
package notify

// Urgency is the freedesktop notification urgency level.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const appName = "tune"

// Notification is one desktop notification.
type Notification struct {
	Title      string  // summary, required
	Body       string  // optional
	Icon       string  // image path or icon name
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // id of a notification to replace, 0 for a new one
	Urgency    Urgency
}

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify shows n and returns its id. A notifier without a server
	// returns 0 and no error.
	Notify(n Notification) (uint32, error)
	// Close withdraws a notification by id.
	Close(id uint32) error
}

// Nop is a Notifier that drops everything.
type Nop struct{}

func (Nop) Notify(Notification) (uint32, error) { return 0, nil }
func (Nop) Close(uint32) error                  { return nil }
