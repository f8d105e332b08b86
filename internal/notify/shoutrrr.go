package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"time"

	shoutrrr "github.com/nicholas-fedor/shoutrrr"
	router "github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// ShoutrrrNotifier sends events through nicholas-fedor/shoutrrr service URLs.
// One sender covers all configured URLs.
type ShoutrrrNotifier struct {
	urls   []string
	sender *router.ServiceRouter
}

// NewShoutrrr builds a notifier from service URLs. URL validation happens
// eagerly so a misconfigured target fails at startup, not at first send.
func NewShoutrrr(urls []string, timeout time.Duration) (*ShoutrrrNotifier, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("at least one notification URL is required")
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("create notification sender: %w", err)
	}
	if timeout > 0 {
		sender.Timeout = timeout
	}
	sender.SetLogger(log.New(io.Discard, "", 0))
	return &ShoutrrrNotifier{urls: slices.Clone(urls), sender: sender}, nil
}

var _ Notifier = (*ShoutrrrNotifier)(nil)

// Send delivers the event to every configured URL. The first delivery error
// is returned; callers treat sends as fire-and-forget.
func (n *ShoutrrrNotifier) Send(ctx context.Context, e Event) error {
	_ = ctx // the router applies its own timeout

	params := stypes.Params{}
	params.SetTitle("Document archive")

	body := fmt.Sprintf("%s: %s (request %s, document %s)", e.ActorName, e.Message, e.RequestID, e.DocumentID)
	for _, err := range n.sender.Send(body, &params) {
		if err != nil {
			return err
		}
	}
	return nil
}
