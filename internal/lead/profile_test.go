package lead

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNewProfileStartsInitial(t *testing.T) {
	p := NewProfile(testNow)
	require.NotEmpty(t, p.ID)
	assert.Equal(t, StageInitial, p.Stage)
	assert.False(t, p.Qualified)
}

func TestMergeFirstWriteWins(t *testing.T) {
	p := NewProfile(testNow)

	changed := p.Merge(Update{Name: "Marco", Phone: "3331234567"}, testNow)
	require.True(t, changed)
	assert.Equal(t, "Marco", p.Name)
	assert.Equal(t, "3331234567", p.Phone)

	// A second write never replaces an existing value.
	changed = p.Merge(Update{Name: "Luca", Email: "marco@example.com"}, testNow.Add(time.Minute))
	require.True(t, changed)
	assert.Equal(t, "Marco", p.Name)
	assert.Equal(t, "marco@example.com", p.Email)

	changed = p.Merge(Update{Name: "Giovanni"}, testNow.Add(2*time.Minute))
	assert.False(t, changed)
	assert.Equal(t, "Marco", p.Name)
}

func TestMergeEmptyUpdateIsNoop(t *testing.T) {
	p := NewProfile(testNow)
	p.Name = "Marco"
	before := p.UpdatedAt

	changed := p.Merge(Update{}, testNow.Add(time.Hour))
	assert.False(t, changed)
	assert.Equal(t, before, p.UpdatedAt)
	assert.True(t, Update{}.Empty())
}

func TestFieldResolvesAttributeAlias(t *testing.T) {
	p := NewProfile(testNow)
	p.Name = "Marco"
	p.Attribute = "perdita peso"

	assert.Equal(t, "Marco", p.Field("name", "goal"))
	assert.Equal(t, "perdita peso", p.Field("goal", "goal"))
	assert.Equal(t, "perdita peso", p.Field("Goal", "goal"))
	assert.Equal(t, "", p.Field("goal", ""))
	assert.Equal(t, "", p.Field("unknown", "goal"))
}

func TestRecomputeQualified(t *testing.T) {
	required := []string{"name", "goal", "phone"}

	tests := []struct {
		name      string
		mutate    func(*Profile)
		qualified bool
	}{
		{
			name:      "empty profile",
			mutate:    func(p *Profile) {},
			qualified: false,
		},
		{
			name: "partial profile",
			mutate: func(p *Profile) {
				p.Name = "Marco"
				p.Attribute = "tonificazione"
			},
			qualified: false,
		},
		{
			name: "complete profile",
			mutate: func(p *Profile) {
				p.Name = "Marco"
				p.Attribute = "tonificazione"
				p.Phone = "3331234567"
			},
			qualified: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile(testNow)
			tt.mutate(p)
			p.Recompute(required, "goal")
			assert.Equal(t, tt.qualified, p.Qualified)
		})
	}
}

func TestMissingFieldsKeepsDeclaredOrder(t *testing.T) {
	p := NewProfile(testNow)
	p.Attribute = "aumento massa"

	missing := p.MissingFields([]string{"name", "goal", "phone"}, "goal")
	assert.Equal(t, []string{"name", "phone"}, missing)
}

func TestProgress(t *testing.T) {
	p := NewProfile(testNow)
	required := []string{"name", "goal", "phone"}

	assert.Equal(t, 0, p.Progress(required, "goal"))
	p.Name = "Marco"
	assert.Equal(t, 33, p.Progress(required, "goal"))
	p.Attribute = "tonificazione"
	p.Phone = "3331234567"
	assert.Equal(t, 100, p.Progress(required, "goal"))
	assert.Equal(t, 100, p.Progress(nil, "goal"))
}
