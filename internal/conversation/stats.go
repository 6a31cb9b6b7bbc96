package conversation

import (
	"context"

	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
)

// Stats is a tenant-level funnel snapshot derived from live conversations.
type Stats struct {
	TenantID      string         `json:"tenant_id"`
	Conversations int            `json:"conversations"`
	Qualified     int            `json:"qualified"`
	Booked        int            `json:"booked"`
	ByStage       map[string]int `json:"by_stage"`
	AvgProgress   int            `json:"avg_progress"`
}

// ComputeStats aggregates across a tenant's stored conversations.
func ComputeStats(ctx context.Context, store Store, cfg *tenant.Config) (Stats, error) {
	convs, err := store.All(ctx, cfg.ID)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		TenantID: cfg.ID,
		ByStage:  make(map[string]int),
	}
	progressSum := 0
	for _, conv := range convs {
		stats.Conversations++
		stats.ByStage[string(conv.Lead.Stage)]++
		if conv.Lead.Qualified {
			stats.Qualified++
		}
		if conv.Lead.Stage == lead.StageBooked {
			stats.Booked++
		}
		progressSum += conv.Lead.Progress(cfg.RequiredFields, cfg.AttributeField)
	}
	if stats.Conversations > 0 {
		stats.AvgProgress = progressSum / stats.Conversations
	}
	return stats, nil
}
