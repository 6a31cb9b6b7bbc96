package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
)

func TestComputeStats(t *testing.T) {
	store := NewMemoryStore(0, 0, nil)
	cfg := tenant.DemoFitnessConfig()
	ctx := context.Background()
	now := time.Now()

	booked := NewConversation(cfg.ID, "user-1", "", now)
	booked.Lead.Name = "Marco"
	booked.Lead.Attribute = "perdita peso"
	booked.Lead.Phone = "3331234567"
	booked.Lead.Qualified = true
	booked.Lead.Stage = lead.StageBooked
	require.NoError(t, store.Save(ctx, booked))

	qualifying := NewConversation(cfg.ID, "user-2", "", now)
	qualifying.Lead.Name = "Giulia"
	qualifying.Lead.Stage = lead.StageQualifying
	require.NoError(t, store.Save(ctx, qualifying))

	// Another tenant's conversation stays out of the tally.
	other := NewConversation("dental", "user-3", "", now)
	require.NoError(t, store.Save(ctx, other))

	stats, err := ComputeStats(ctx, store, cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.ID, stats.TenantID)
	assert.Equal(t, 2, stats.Conversations)
	assert.Equal(t, 1, stats.Qualified)
	assert.Equal(t, 1, stats.Booked)
	assert.Equal(t, 1, stats.ByStage[string(lead.StageBooked)])
	assert.Equal(t, 1, stats.ByStage[string(lead.StageQualifying)])
	// One lead at 100%, one at 33%.
	assert.Equal(t, 66, stats.AvgProgress)
}

func TestComputeStatsEmptyTenant(t *testing.T) {
	store := NewMemoryStore(0, 0, nil)
	stats, err := ComputeStats(context.Background(), store, tenant.DemoFitnessConfig())
	require.NoError(t, err)
	assert.Zero(t, stats.Conversations)
	assert.Zero(t, stats.AvgProgress)
}
