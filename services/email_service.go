package services

import (
	"bytes"
	"fmt"
	"html/template"
	"poolcare_server/catalog"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.Config) *EmailService {
	return &EmailService{
		logger: logger,
		cfg:    cfg,
		client: resend.NewClient(cfg.Email.ApiKey),
	}
}

const layout = `<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #1b2b34; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #0077b6; color: white; padding: 20px; text-align: center; }
		.content { padding: 20px; background-color: #f4f9fb; }
		.footer { text-align: center; padding: 20px; color: #666; font-size: 12px; }
		table { width: 100%; border-collapse: collapse; }
		td { padding: 6px 0; border-bottom: 1px solid #dde7ec; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>{{.Title}}</h1></div>
		<div class="content">{{template "body" .}}</div>
		<div class="footer">{{.AppName}}</div>
	</div>
</body>
</html>`

var emailTemplates = map[string]*template.Template{
	"contact": mustTemplate(`{{define "body"}}
		<p><strong>{{.Data.Name}}</strong> &lt;{{.Data.Email}}&gt; {{with .Data.Phone}}({{.}}){{end}}</p>
		<p><strong>{{.Data.Subject}}</strong></p>
		<p style="white-space: pre-wrap;">{{.Data.Message}}</p>
	{{end}}`),
	"quote_received": mustTemplate(`{{define "body"}}
		<p>Hi {{.Data.Name}},</p>
		<p>Thanks for your quote request. We will get back to you with pricing shortly.</p>
	{{end}}`),
	"quote_priced": mustTemplate(`{{define "body"}}
		<p>Hi {{.Data.Quote.Name}},</p>
		<p>Your quote is ready.</p>
		<table>
			{{range .Data.Quote.Lines}}<tr><td>{{.Quantity}} × {{.Description}}</td><td align="right">{{money .LineTotal}}</td></tr>{{end}}
			<tr><td>Subtotal</td><td align="right">{{money .Data.Quote.Subtotal}}</td></tr>
			{{if gt .Data.Quote.DiscountAmount 0.0}}<tr><td>Discount</td><td align="right">-{{money .Data.Quote.DiscountAmount}}</td></tr>{{end}}
			<tr><td><strong>Total</strong></td><td align="right"><strong>{{money .Data.Quote.Total}}</strong></td></tr>
		</table>
		<p>You can accept or decline it from <a href="{{.Data.Link}}">your dashboard</a>.</p>
	{{end}}`),
	"invoice_sent": mustTemplate(`{{define "body"}}
		<p>Invoice <strong>{{.Data.Invoice.InvoiceNumber}}</strong> for {{money .Data.Invoice.Total}} is ready.</p>
		{{with .Data.Invoice.DueAt}}<p>Due {{.Format "January 2, 2006"}}.</p>{{end}}
		<p>Pay online from <a href="{{.Data.Link}}">your dashboard</a>.</p>
	{{end}}`),
}

func mustTemplate(body string) *template.Template {
	funcs := template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", catalog.RoundCents(v)) },
	}
	return template.Must(template.Must(template.New("layout").Funcs(funcs).Parse(layout)).Parse(body))
}

func (es *EmailService) render(name, title string, data any) (string, error) {
	var buf bytes.Buffer
	err := emailTemplates[name].Execute(&buf, map[string]any{
		"Title":   title,
		"AppName": es.cfg.Server.AppName,
		"Data":    data,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s email: %w", name, err)
	}
	return buf.String(), nil
}

func (es *EmailService) SendEmail(to []string, subject string, body string, replyTo string) error {
	if !es.cfg.Email.Enabled {
		es.logger.Debug("Email disabled, not sending", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.Email.From,
		To:      to,
		Html:    body,
		Subject: subject,
		ReplyTo: replyTo,
	}

	if _, err := es.client.Emails.Send(params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}
	return nil
}

// SendContactNotification forwards a website contact message to the admin inbox.
func (es *EmailService) SendContactNotification(msg *tables.ContactMessage) error {
	body, err := es.render("contact", "New contact message", msg)
	if err != nil {
		return err
	}
	return es.SendEmail([]string{es.cfg.Email.AdminInbox}, "Contact: "+msg.Subject, body, msg.Email)
}

// SendQuoteReceived confirms a quote request to the requester and copies the
// admin inbox.
func (es *EmailService) SendQuoteReceived(quote *tables.Quote) error {
	body, err := es.render("quote_received", "We received your request", quote)
	if err != nil {
		return err
	}
	if err := es.SendEmail([]string{quote.Email}, "Your quote request", body, ""); err != nil {
		return err
	}
	return es.SendEmail([]string{es.cfg.Email.AdminInbox}, "New quote request from "+quote.Name, body, quote.Email)
}

func (es *EmailService) SendQuotePriced(quote *tables.Quote) error {
	body, err := es.render("quote_priced", "Your quote is ready", map[string]any{
		"Quote": quote,
		"Link":  es.cfg.Server.FrontendURL + es.cfg.Routes.CustomerHome,
	})
	if err != nil {
		return err
	}
	return es.SendEmail([]string{quote.Email}, "Your quote is ready", body, "")
}

func (es *EmailService) SendInvoice(invoice *tables.Invoice, to string) error {
	body, err := es.render("invoice_sent", "New invoice", map[string]any{
		"Invoice": invoice,
		"Link":    es.cfg.Server.FrontendURL + es.cfg.Routes.CustomerHome,
	})
	if err != nil {
		return err
	}
	return es.SendEmail([]string{to}, "Invoice "+invoice.InvoiceNumber, body, "")
}
