package mailing

import (
	"FoodShare/domain"
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type (
	// EmailLookup resolves user ids to addresses.
	EmailLookup func(ctx context.Context, userIDs []string) ([]string, error)

	SendFunc func(cfg MailConfig, toEmail string, subject string, body string) error

	// PinNotifier emails bookmarkers when an event they saved is removed.
	PinNotifier struct {
		cfg    MailConfig
		lookup EmailLookup
		send   SendFunc
	}
)

var deletedTemplate = template.Must(template.New("deleted").Parse(`<p>Hi,</p>
<p>The food event <strong>{{.Title}}</strong> hosted by {{.Host}} on {{.Date}} ({{.StartTime}} to {{.EndTime}}) that you bookmarked was removed by its organizer.</p>
{{if .AppURL}}<p><a href="{{.AppURL}}/map?campus={{.CampusID}}">See what else is on the map</a></p>{{end}}`))

func NewPinNotifier(cfg MailConfig, lookup EmailLookup) *PinNotifier {
	return &PinNotifier{cfg: cfg, lookup: lookup, send: Send}
}

func renderDeleted(cfg MailConfig, pin domain.Pin) (string, error) {
	var buf bytes.Buffer
	err := deletedTemplate.Execute(&buf, struct {
		domain.Pin
		AppURL string
	}{pin, cfg.AppURL})
	return buf.String(), err
}

// PinDeleted sends the mails in the background and returns at once.
func (n *PinNotifier) PinDeleted(ctx context.Context, pin domain.Pin, bookmarkers []string) {
	if n == nil || !n.cfg.Enabled() {
		return
	}
	go n.deliver(context.WithoutCancel(ctx), pin, bookmarkers)
}

func (n *PinNotifier) deliver(ctx context.Context, pin domain.Pin, bookmarkers []string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	emails, err := n.lookup(ctx, bookmarkers)
	if err != nil {
		log.Errorf("mailing: look up bookmarkers of pin %s: %v", pin.ID, err)
		return
	}
	body, err := renderDeleted(n.cfg, pin)
	if err != nil {
		log.Errorf("mailing: render notice for pin %s: %v", pin.ID, err)
		return
	}
	for _, email := range emails {
		if err := n.send(n.cfg, email, "Event removed: "+pin.Title, body); err != nil {
			log.Errorf("mailing: send to %s: %v", email, err)
		}
	}
}
