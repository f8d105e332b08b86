package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Send(context.Background(), Event{Message: "ignored"}))
}

func TestNewShoutrrr(t *testing.T) {
	t.Run("no urls", func(t *testing.T) {
		n, err := NewShoutrrr(nil, time.Second)

		assert.Error(t, err)
		assert.Nil(t, n)
	})

	t.Run("invalid url fails at startup", func(t *testing.T) {
		n, err := NewShoutrrr([]string{"not-a-service-url"}, time.Second)

		assert.Error(t, err)
		assert.Nil(t, n)
	})

	t.Run("valid generic url", func(t *testing.T) {
		n, err := NewShoutrrr([]string{"generic://archive.example.com/hooks/abc"}, time.Second)

		assert.NoError(t, err)
		assert.NotNil(t, n)
	})
}
