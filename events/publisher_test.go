package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cppla/eduquest/models"
)

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p, err := NewPublisher("", "eduquest.events", zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	err = p.PublishEvent(context.Background(), &models.AnalyticsEvent{Action: models.ActionUserLogin})
	assert.NoError(t, err)
	assert.NoError(t, p.Close())
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "analytics.quiz_complete", RoutingKey(models.ActionQuizComplete))
}
