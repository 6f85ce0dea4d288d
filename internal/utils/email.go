package utils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"honnylove_storefront/internal/models"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// MailSettings décrit le serveur SMTP. Host vide = envoi désactivé.
type MailSettings struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	ShopEmail string
}

// Mailer envoie les confirmations de commande.
type Mailer struct {
	settings MailSettings
	logger   *zap.Logger

	// send est remplacé dans les tests
	send func(ctx context.Context, msgs ...*mail.Msg) error
}

func NewMailer(settings MailSettings, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Mailer{settings: settings, logger: logger}
	m.send = m.dialAndSend
	return m
}

// Enabled indique si un serveur SMTP est configuré.
func (m *Mailer) Enabled() bool {
	return m != nil && m.settings.Host != ""
}

func (m *Mailer) dialAndSend(ctx context.Context, msgs ...*mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(m.settings.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.settings.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.settings.Username),
			mail.WithPassword(m.settings.Password),
		)
	}

	client, err := mail.NewClient(m.settings.Host, opts...)
	if err != nil {
		return err
	}
	return client.DialAndSendWithContext(ctx, msgs...)
}

// SendOrderConfirmation envoie le récapitulatif au client (s'il a donné un
// e-mail) avec la boutique en copie cachée.
func (m *Mailer) SendOrderConfirmation(ctx context.Context, order models.Order) error {
	if !m.Enabled() {
		return nil
	}

	msg, err := m.BuildOrderConfirmation(order)
	if err != nil {
		return err
	}

	m.logger.Info("📤 Envoi de la confirmation de commande", zap.String("reference", order.Reference))
	if err := m.send(ctx, msg); err != nil {
		return fmt.Errorf("envoi e-mail: %w", err)
	}
	return nil
}

// BuildOrderConfirmation construit le message sans l'envoyer.
func (m *Mailer) BuildOrderConfirmation(order models.Order) (*mail.Msg, error) {
	to := order.Customer.Email
	if to == "" {
		to = m.settings.ShopEmail
	}
	if to == "" {
		return nil, errors.New("aucun destinataire pour la confirmation")
	}

	body, err := RenderOrderConfirmation(order)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.settings.From); err != nil {
		return nil, err
	}
	if err := msg.To(to); err != nil {
		return nil, err
	}
	if m.settings.ShopEmail != "" && m.settings.ShopEmail != to {
		if err := msg.Bcc(m.settings.ShopEmail); err != nil {
			return nil, err
		}
	}
	msg.Subject("Заказ " + order.Reference + " оформлен")
	msg.SetBodyString(mail.TypeTextHTML, body)
	return msg, nil
}

var orderTemplate = template.Must(template.New("order").Funcs(template.FuncMap{
	"rub": func(p models.Price) string {
		return fmt.Sprintf("%.2f ₽", p.Float())
	},
	"payment": func(method string) string {
		if method == "card" {
			return "Картой при получении"
		}
		return "Наличными при получении"
	},
}).Parse(`<!DOCTYPE html>
<html lang="ru">
<head><meta charset="UTF-8"><title>Заказ {{.Reference}}</title></head>
<body style="font-family: Arial, sans-serif; background-color: #fdf6f8; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Спасибо за заказ, {{.Customer.Name}}!</h2>
		<p>Номер заказа: <strong>{{.Reference}}</strong></p>
		<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #f0f0f0;">
					<th style="padding: 10px; text-align: left;">Товар</th>
					<th style="padding: 10px; text-align: left;">Кол-во</th>
					<th style="padding: 10px; text-align: left;">Сумма</th>
				</tr>
			</thead>
			<tbody>
			{{- range .Items}}
				<tr>
					<td style="padding: 10px;">{{.Product.Name}}</td>
					<td style="padding: 10px;">{{.Quantity}}</td>
					<td style="padding: 10px;">{{rub .Subtotal}}</td>
				</tr>
			{{- end}}
			</tbody>
		</table>
		<p>Товары: {{rub .Summary.Subtotal}}<br>
		Доставка: {{rub .Summary.Shipping}}<br>
		<strong>Итого: {{rub .Summary.Total}}</strong></p>
		<p>Адрес доставки: {{.Customer.City}}, {{.Customer.Address}}{{if .Customer.ZipCode}}, {{.Customer.ZipCode}}{{end}}<br>
		Телефон: {{.Customer.Phone}}<br>
		Оплата: {{payment .PaymentMethod}}</p>
		{{- if .Customer.Comment}}
		<p>Комментарий: {{.Customer.Comment}}</p>
		{{- end}}
		<p style="margin-top: 30px; color: #555;">С любовью,<br><strong>HonnyLove</strong></p>
	</div>
</body>
</html>`))

// RenderOrderConfirmation génère le HTML du récapitulatif de commande.
func RenderOrderConfirmation(order models.Order) (string, error) {
	var buf bytes.Buffer
	if err := orderTemplate.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("rendu du récapitulatif: %w", err)
	}
	return buf.String(), nil
}
