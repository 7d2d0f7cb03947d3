package services

import (
	"log"

	"github.com/wneessen/go-mail"

	"velora_back_end/internal/config"
)

// SendEmail envoie un message texte brut via le relais SMTP configuré.
// Pas de retry : l'appelant décide quoi faire d'un échec.
func SendEmail(to, subject, body string) error {
	msg := mail.NewMsg()

	if err := msg.From(config.App.SMTPFrom); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	client, err := mail.NewClient(config.App.SMTPHost,
		mail.WithPort(config.App.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(config.App.SMTPUsername),
		mail.WithPassword(config.App.SMTPPassword),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}
