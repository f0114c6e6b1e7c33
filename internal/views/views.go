// Package views renders the small HTML fragments served or mailed by the
// backend: the unsubscribe footer appended to every campaign email and the
// confirmation page shown after unsubscribing.
package views

import (
	"fmt"

	"github.com/osteele/liquid"
)

const footerTemplate = `<p style="font-size: 12px; color: #666; margin-top: 20px; text-align: center;">` +
	`If you no longer wish to receive these emails, you can ` +
	`<a href="{{ unsubscribe_url }}" style="color: #666;">unsubscribe here</a>.</p>`

const unsubscribePageTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Unsubscribed</title>
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 600px; margin: 0 auto; padding: 20px; text-align: center; }
    h1 { color: #333; }
    .card { background: #f9f9f9; border-radius: 8px; padding: 20px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); margin-top: 20px; }
  </style>
</head>
<body>
  <h1>You've been unsubscribed</h1>
  <div class="card">
    <p>{{ email | escape }} has been unsubscribed from our emails. You will no longer receive messages from us.</p>
    <p>If this was a mistake, please contact us to resubscribe.</p>
  </div>
</body>
</html>
`

// Renderer holds the parsed templates. It is safe for concurrent use.
type Renderer struct {
	footer      *liquid.Template
	unsubscribe *liquid.Template
}

// New parses the built-in templates.
func New() (*Renderer, error) {
	engine := liquid.NewEngine()

	footer, err := engine.ParseString(footerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse footer template: %w", err)
	}
	unsubscribe, err := engine.ParseString(unsubscribePageTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse unsubscribe template: %w", err)
	}
	return &Renderer{footer: footer, unsubscribe: unsubscribe}, nil
}

// Footer renders the unsubscribe footer for one recipient.
func (r *Renderer) Footer(unsubscribeURL string) (string, error) {
	out, err := r.footer.RenderString(liquid.Bindings{"unsubscribe_url": unsubscribeURL})
	if err != nil {
		return "", err
	}
	return out, nil
}

// UnsubscribePage renders the confirmation page for email.
func (r *Renderer) UnsubscribePage(email string) (string, error) {
	out, err := r.unsubscribe.RenderString(liquid.Bindings{"email": email})
	if err != nil {
		return "", err
	}
	return out, nil
}
