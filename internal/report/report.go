// Package report renders retention plans as plain-text reports with Liquid
// templates.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/osteele/liquid"

	"github.com/ignite/crm-retention/internal/filter"
	"github.com/ignite/crm-retention/internal/pkg/logger"
	"github.com/ignite/crm-retention/internal/service/retention"
)

// DefaultTemplate lists the candidates of a plan, one per line.
const DefaultTemplate = `GDPR retention report
Run:        {{ run_id }}
Action:     {{ action }}
{% if filter != "" %}Filter:     {{ filter }}
{% endif %}Date:       {{ today }}
Evaluated:  {{ evaluated }}
Kept:       {{ kept }}
Protected:  {{ protected }}
Candidates: {{ candidates | size }}
{% for c in candidates %}
- {{ c.name | default: "(no name)" }} <{{ c.email | mask_email }}> [{{ c.decision }}]{% if c.country != "" %} ({{ c.country }}){% endif %}{% if c.account != "" %} account {{ c.account }}{% endif %}
{%- for r in c.reasons %}
    {{ r }}
{%- endfor %}
{%- endfor %}
`

// Renderer renders plans with one parsed template.
type Renderer struct {
	tpl *liquid.Template
}

// NewRenderer parses src, or DefaultTemplate when src is empty.
func NewRenderer(src string) (*Renderer, error) {
	if src == "" {
		src = DefaultTemplate
	}
	engine := liquid.NewEngine()
	registerFilters(engine)

	tpl, err := engine.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("parse report template: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// Render writes the report for plan to w.
func (r *Renderer) Render(w io.Writer, plan *retention.Plan) error {
	out, err := r.tpl.RenderString(bindings(plan))
	if err != nil {
		logger.Error("report render failed", "run_id", plan.RunID, "error", err)
		return fmt.Errorf("render report: %w", err)
	}
	_, werr := io.WriteString(w, out)
	return werr
}

func bindings(plan *retention.Plan) liquid.Bindings {
	cands := make([]map[string]interface{}, 0, len(plan.Candidates))
	for _, c := range plan.Candidates {
		cands = append(cands, map[string]interface{}{
			"id":       c.Contact.ID,
			"name":     c.Contact.FullName(),
			"email":    c.Contact.PreferredEmail,
			"account":  c.Contact.AccountID,
			"country":  c.CountryCode,
			"decision": string(c.Decision),
			"reasons":  c.Reasons,
		})
	}
	return liquid.Bindings{
		"run_id":     plan.RunID,
		"action":     string(plan.Action),
		"filter":     filter.Description(plan.Filter),
		"today":      plan.Today.Format("2006-01-02"),
		"evaluated":  plan.Evaluated,
		"kept":       plan.Kept,
		"protected":  plan.Protected,
		"candidates": cands,
	}
}

func registerFilters(engine *liquid.Engine) {
	// {{ name | default: "(no name)" }} also replaces empty strings
	engine.RegisterFilter("default", func(value interface{}, defaultVal string) interface{} {
		if value == nil || fmt.Sprintf("%v", value) == "" {
			return defaultVal
		}
		return value
	})

	// {{ email | mask_email }} keeps two characters of the local part
	engine.RegisterFilter("mask_email", maskEmail)
}

func maskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok {
		return email
	}
	runes := []rune(local)
	if len(runes) <= 2 {
		return local + "***@" + domain
	}
	return string(runes[:2]) + "***@" + domain
}
