package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/firerisk-etl/internal/config"
	"github.com/couchcryptid/firerisk-etl/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	point := domain.TrajectoryPoint{
		Location:  "palmeiras",
		Date:      time.Date(2025, time.July, 8, 0, 0, 0, 0, time.UTC),
		Risk:      0.6,
		VR7:       domain.Some(0.514),
		Indicator: domain.Some(0.54),
		Tier:      domain.TierHigh,
	}

	msg, err := serializeToMessage(point, "run-42")
	require.NoError(t, err)

	assert.Equal(t, []byte("palmeiras|2025-07-08"), msg.Key)
	assert.JSONEq(t, `{
		"location": "palmeiras",
		"date": "2025-07-08T00:00:00Z",
		"fire_risk": 0.6,
		"vr7": 0.514,
		"ictr14": 0.54,
		"tier": "Alto"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 3)
	assert.Equal(t, "location", msg.Headers[0].Key)
	assert.Equal(t, []byte("palmeiras"), msg.Headers[0].Value)
	assert.Equal(t, "tier", msg.Headers[1].Key)
	assert.Equal(t, []byte("Alto"), msg.Headers[1].Value)
	assert.Equal(t, "run_id", msg.Headers[2].Key)
	assert.Equal(t, []byte("run-42"), msg.Headers[2].Value)
}

func TestSerializeToMessage_UndefinedIndicator(t *testing.T) {
	point := domain.TrajectoryPoint{
		Location: "palmeiras",
		Date:     time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		Risk:     1.3,
	}

	msg, err := serializeToMessage(point, "run-1")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Nil(t, decoded["vr7"])
	assert.Nil(t, decoded["ictr14"])
	assert.NotContains(t, decoded, "tier")
	assert.Empty(t, msg.Headers[1].Value)
}

func TestPublishPoints_EmptyIsNoop(t *testing.T) {
	w := NewWriter(&config.Config{KafkaBrokers: []string{"localhost:1"}, KafkaTopic: "fire-risk-points"}, slog.Default())
	defer w.Close()

	assert.Equal(t, SinkName, w.Name())
	require.NoError(t, w.PublishPoints(context.Background(), "run-1", nil))
}
