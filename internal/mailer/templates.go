package mailer

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

//go:embed templates
var templatesFS embed.FS

var (
	textTemplates = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/*.txt"))
	htmlTemplates = htmltemplate.Must(htmltemplate.ParseFS(templatesFS, "templates/*.html"))
)

type resetData struct {
	Name      string
	URL       string
	Token     string
	ExpiresAt string
}

// PasswordResetMessage renders the reset e-mail. When url is empty the raw
// token is included instead.
func PasswordResetMessage(to, name, url, token string, expiresAt time.Time) (Message, error) {
	data := resetData{
		Name:      name,
		URL:       url,
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format("02/01/2006 15:04 MST"),
	}

	var text, html bytes.Buffer
	if err := textTemplates.ExecuteTemplate(&text, "password_reset.txt", data); err != nil {
		return Message{}, fmt.Errorf("rendering text body: %w", err)
	}
	if err := htmlTemplates.ExecuteTemplate(&html, "password_reset.html", data); err != nil {
		return Message{}, fmt.Errorf("rendering html body: %w", err)
	}

	return Message{
		To:       to,
		Subject:  "Restablece tu contraseña de Planazo",
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}
