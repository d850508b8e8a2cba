package mailer

import (
	"errors"
	"log"
	"os"

	"github.com/matcornic/hermes/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendResetPassword mails a password-reset link built from APP_URL and the
// one-time token.
func SendResetPassword(toEmail, token string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		return errors.New("SENDGRID_API_KEY not set")
	}

	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8888"
	}
	resetLink := appURL + "/password/reset?token=" + token

	h := hermes.Hermes{
		Product: hermes.Product{
			Name: "Postline",
			Link: appURL,
		},
	}
	email := hermes.Email{
		Body: hermes.Body{
			Intros: []string{
				"You have received this email because a password reset request for your account was received.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below to reset your password:",
					Button: hermes.Button{
						Color: "#DC4D2F",
						Text:  "Reset your password",
						Link:  resetLink,
					},
				},
			},
			Outros: []string{
				"If you did not request a password reset, no further action is required on your part.",
			},
		},
	}

	emailBody, err := h.GenerateHTML(email)
	if err != nil {
		return err
	}

	from := mail.NewEmail("Postline", os.Getenv("MAIL_FROM"))
	to := mail.NewEmail(toEmail, toEmail)
	message := mail.NewSingleEmail(from, "Reset your password", to, resetLink, emailBody)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	log.Printf("reset mail sent to %s: status %d", toEmail, response.StatusCode)
	return nil
}
