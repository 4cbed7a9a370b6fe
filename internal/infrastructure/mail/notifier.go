// Package mail envía el comprobante de marcación por correo.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/pkg/config"
)

var (
	_ attendance.Notifier = (*SMTPNotifier)(nil)
	_ attendance.Notifier = (*LogNotifier)(nil)
)

// ErrNoRecipient el trabajador no tiene email registrado.
var ErrNoRecipient = errors.New("mail: trabajador sin email")

var receiptTmpl = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html><body style="font-family: Arial, sans-serif; color: #333;">
  <h2 style="color: #00467f;">Comprobante de marcación</h2>
  <p>Hola {{.WorkerName}}, registramos tu marcación en {{.EmployerName}}.</p>
  <table cellpadding="4">
    <tr><td><strong>Tipo</strong></td><td>{{.KindLabel}}</td></tr>
    <tr><td><strong>Fecha</strong></td><td>{{.Date}}</td></tr>
    <tr><td><strong>Hora</strong></td><td>{{.Time}}</td></tr>
    {{if .Location}}<tr><td><strong>Ubicación</strong></td><td>{{.Location}}</td></tr>{{end}}
  </table>
  <p><strong>Código de verificación:</strong><br><code>
{{.Hash}}
  </code></p>
  {{if .VerifyURL}}<p><a href="{{.VerifyURL}}">Verificar esta marcación</a></p>{{end}}
</body></html>`))

// sender entrega un mensaje ya armado; ctx acota la conversación SMTP completa.
type sender interface {
	Send(ctx context.Context, m *gomail.Message) error
}

// SMTPNotifier envía el comprobante vía SMTP con gomail.
type SMTPNotifier struct {
	from   string
	dialer sender
}

// NewSMTPNotifier construye el notificador desde la configuración SMTP.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		from:   cfg.From,
		dialer: &smtpSender{host: cfg.Host, port: cfg.Port, user: cfg.User, pass: cfg.Pass},
	}
}

// SendReceipt arma el mensaje y lo envía. Si ctx expira la conexión se cierra y el envío
// termina con ctx.Err(); no queda trabajo en segundo plano.
func (n *SMTPNotifier) SendReceipt(ctx context.Context, r attendance.Receipt, to *entity.Actor) error {
	if to == nil || to.Email == "" {
		return ErrNoRecipient
	}
	msg, err := n.buildMessage(r, to.Email)
	if err != nil {
		return err
	}
	if err := n.dialer.Send(ctx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("mail: enviar a %s: %w", to.Email, ctxErr)
		}
		return fmt.Errorf("mail: enviar a %s: %w", to.Email, err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(r attendance.Receipt, to string) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := receiptTmpl.Execute(&body, r); err != nil {
		return nil, fmt.Errorf("mail: plantilla: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Marcación registrada: %s %s %s", r.KindLabel, r.Date, r.Time))
	m.SetBody("text/html", body.String())
	return m, nil
}

// LogNotifier solo registra el comprobante en el log. Se usa cuando no hay SMTP configurado.
type LogNotifier struct {
	log zerolog.Logger
}

// NewLogNotifier construye el notificador de log.
func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendReceipt(_ context.Context, r attendance.Receipt, to *entity.Actor) error {
	ev := n.log.Info().Str("marcacion_id", r.EventID).Str("tipo", string(r.Kind))
	if to != nil {
		ev = ev.Str("usuario_id", to.ID)
	}
	ev.Msg("comprobante de marcación (SMTP deshabilitado)")
	return nil
}
