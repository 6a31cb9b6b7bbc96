package conversation

import (
	"strings"

	"github.com/stagehand-ai/stagehand/internal/lead"
	"github.com/stagehand-ai/stagehand/internal/tenant"
)

// RenderTemplate substitutes {placeholder} tokens in a single left-to-right
// scan, so substituted values are never re-scanned for placeholders.
//
// Resolution order per placeholder: lead profile field, then the extras
// map, then tenant variables, then the businessName shorthand. Unknown
// placeholders render as the empty string. A lone "{" with no closing
// brace is emitted literally.
func RenderTemplate(tpl string, cfg *tenant.Config, p *lead.Profile, extras map[string]string) string {
	var b strings.Builder
	b.Grow(len(tpl))
	for {
		open := strings.IndexByte(tpl, '{')
		if open < 0 {
			b.WriteString(tpl)
			return b.String()
		}
		end := strings.IndexByte(tpl[open:], '}')
		if end < 0 {
			b.WriteString(tpl)
			return b.String()
		}
		b.WriteString(tpl[:open])
		key := tpl[open+1 : open+end]
		b.WriteString(resolvePlaceholder(key, cfg, p, extras))
		tpl = tpl[open+end+1:]
	}
}

func resolvePlaceholder(key string, cfg *tenant.Config, p *lead.Profile, extras map[string]string) string {
	if p != nil {
		if v := p.Field(key, cfg.AttributeField); v != "" {
			return v
		}
	}
	if v, ok := extras[key]; ok {
		return v
	}
	if v, ok := cfg.Variables[key]; ok {
		return v
	}
	if key == "businessName" {
		return cfg.BusinessName
	}
	return ""
}
