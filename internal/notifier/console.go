package notifier

import (
	"context"
	"log"
	"strings"
)

// htmlStripper removes the markup the formatters emit for Telegram.
var htmlStripper = strings.NewReplacer("<b>", "", "</b>", "", "<i>", "", "</i>", "", "<code>", "", "</code>", "")

// ConsoleNotifier writes messages to the process log. Active when Telegram is
// not configured, and alongside it otherwise.
type ConsoleNotifier struct{}

func (c *ConsoleNotifier) Name() string { return "console" }

func (c *ConsoleNotifier) Notify(_ context.Context, text string) error {
	for _, line := range strings.Split(htmlStripper.Replace(text), "\n") {
		log.Printf("[ALERT] %s", line)
	}
	return nil
}
