package conversation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
)

func templateTestConfig() *tenant.Config {
	return &tenant.Config{
		ID:             "t1",
		BusinessName:   "Fitlab",
		AttributeField: "goal",
		Variables: map[string]string{
			"assistantName": "Giuseppe",
			"price":         "35€",
		},
	}
}

func TestRenderTemplate(t *testing.T) {
	cfg := templateTestConfig()
	p := lead.NewProfile(time.Now())
	p.Name = "Marco"
	p.Attribute = "tonificazione"

	tests := []struct {
		name   string
		tpl    string
		extras map[string]string
		want   string
	}{
		{
			name: "lead fields and variables",
			tpl:  "Ciao {name}, sono {assistantName} di {businessName}. Obiettivo: {goal}.",
			want: "Ciao Marco, sono Giuseppe di Fitlab. Obiettivo: tonificazione.",
		},
		{
			name:   "extras resolve after lead fields",
			tpl:    "Slot: {slotDisplay} ({slotCount} opzioni)",
			extras: map[string]string{"slotDisplay": "Monday 10/03 - 14:00", "slotCount": "3"},
			want:   "Slot: Monday 10/03 - 14:00 (3 opzioni)",
		},
		{
			name: "unknown placeholder renders empty",
			tpl:  "Ciao {nickname}!",
			want: "Ciao !",
		},
		{
			name: "no placeholders",
			tpl:  "Testo fisso.",
			want: "Testo fisso.",
		},
		{
			name: "unclosed brace is literal",
			tpl:  "Ciao {name",
			want: "Ciao {name",
		},
		{
			name: "empty template",
			tpl:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderTemplate(tt.tpl, cfg, p, tt.extras))
		})
	}
}

func TestRenderTemplateSinglePass(t *testing.T) {
	cfg := templateTestConfig()
	p := lead.NewProfile(time.Now())
	// A substituted value containing braces must not be expanded again.
	p.Name = "{price}"

	got := RenderTemplate("Ciao {name}", cfg, p, nil)
	assert.Equal(t, "Ciao {price}", got)
}

func TestRenderTemplateLeadFieldOutranksVariable(t *testing.T) {
	cfg := templateTestConfig()
	cfg.Variables["name"] = "variabile"
	p := lead.NewProfile(time.Now())
	p.Name = "Marco"

	assert.Equal(t, "Marco", RenderTemplate("{name}", cfg, p, nil))

	// Empty lead field falls through to the variable.
	p.Name = ""
	assert.Equal(t, "variabile", RenderTemplate("{name}", cfg, p, nil))
}

func TestRenderTemplateNilProfile(t *testing.T) {
	cfg := templateTestConfig()
	assert.Equal(t, "Fitlab: Giuseppe", RenderTemplate("{businessName}: {assistantName}", cfg, nil, nil))
}
