package notifier

import "context"

// Notifier delivers alert and summary messages.
type Notifier interface {
	Notify(ctx context.Context, text string) error
	Name() string
}
