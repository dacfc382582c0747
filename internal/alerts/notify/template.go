package notify

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
	"time"

	alerts "ecocore-cloud/internal/alerts/domain"
)

const DefaultTemplate = `[EcoCore Alert]
Room: {{.Room}}
Type: {{.Type}}
Message: {{.Message}}
Probability: {{.Probability}}%
{{ if .Wastage }}Wastage: {{.Wastage}}
{{ end }}Estimated Cost: {{.Cost}}
Action: {{.Action}}
Time: {{.Time}}`

// TemplateData provides fields for rendering notification content.
type TemplateData struct {
	Room        string
	Type        string
	Message     string
	Probability string
	Wastage     string
	Cost        string
	Action      string
	Status      string
	Time        string
}

// Template renders notification content.
type Template struct {
	tpl *template.Template
}

// NewTemplate parses a notification template, falling back to DefaultTemplate.
func NewTemplate(tpl string) (*Template, error) {
	if tpl == "" {
		tpl = DefaultTemplate
	}
	parsed, err := template.New("alert-notification").Parse(tpl)
	if err != nil {
		return nil, err
	}
	return &Template{tpl: parsed}, nil
}

// Render applies the template to data.
func (t *Template) Render(data TemplateData) (string, error) {
	if t == nil || t.tpl == nil {
		return "", errors.New("alert template: nil")
	}
	var buf bytes.Buffer
	if err := t.tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func buildTemplateData(alert alerts.Alert) TemplateData {
	return TemplateData{
		Room:        alert.RoomID,
		Type:        alert.Type,
		Message:     alert.Message,
		Probability: fmt.Sprintf("%.1f", alert.ProbabilityScore),
		Wastage:     alert.ProbableWastage,
		Cost:        fmt.Sprintf("%.2f", alert.EstimatedSavings),
		Action:      alert.Action,
		Status:      alert.Status,
		Time:        alert.Time.UTC().Format(time.RFC3339),
	}
}
