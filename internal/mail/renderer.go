package mail

import (
	"encoding/json"
	"fmt"
	"text/template"

	gomail "github.com/wneessen/go-mail"
)

var (
	lateServiceTmpl = template.Must(template.New(TypeLateService).Parse(
		`Collection for {{.HotelName}} is running late.

Day:  {{.Day}} {{.Date}}
Slot: {{.Slot}}

The slot ended more than 15 minutes ago and the
collection is still pending.

Alert {{.AlertID}} raised at {{.RaisedAt}}.
`))

	apologyTmpl = template.Must(template.New(TypeApology).Parse(
		`Dear {{.HotelName}} Team,

We apologize for the delay in collecting the waste
scheduled for {{.Day}} {{.Date}}:
{{range .Slots}}
  - {{.}}{{end}}

We are aware the collection is still pending and
will come tomorrow to complete it.

Thank you for your understanding.
Your Waste Management Team
`))
)

// Renderer turns queue messages into ready-to-send emails.
type Renderer struct {
	from string
}

func NewRenderer(from string) *Renderer {
	return &Renderer{from: from}
}

// Render builds the email for msg. Unknown types and bad data are errors.
func (r *Renderer) Render(msg Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(r.from); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", r.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}

	switch msg.Type {
	case TypeLateService:
		var data LateServiceData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, fmt.Errorf("invalid %s data: %w", msg.Type, err)
		}
		m.Subject(fmt.Sprintf("Late collection: %s (%s)", data.HotelName, data.Day))
		if err := m.SetBodyTextTemplate(lateServiceTmpl, data); err != nil {
			return nil, fmt.Errorf("failed to render %s body: %w", msg.Type, err)
		}
	case TypeApology:
		var data ApologyData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil, fmt.Errorf("invalid %s data: %w", msg.Type, err)
		}
		m.Subject(fmt.Sprintf("Apology for delay in waste collection at %s", data.HotelName))
		if err := m.SetBodyTextTemplate(apologyTmpl, data); err != nil {
			return nil, fmt.Errorf("failed to render %s body: %w", msg.Type, err)
		}
	default:
		return nil, fmt.Errorf("unsupported mail type %q", msg.Type)
	}
	return m, nil
}
