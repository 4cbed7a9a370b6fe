package mail

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// maxSendDuration tope cuando ctx no trae deadline.
const maxSendDuration = 30 * time.Second

// smtpSender reemplaza a gomail.Dialer, que no acepta contexto: la conexión se cierra cuando
// ctx termina.
type smtpSender struct {
	host string
	port int
	user string
	pass string
}

func (s *smtpSender) Send(ctx context.Context, m *gomail.Message) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxSendDuration)
		defer cancel()
	}

	var d net.Dialer
	raw, err := d.DialContext(ctx, "tcp", net.JoinHostPort(s.host, strconv.Itoa(s.port)))
	if err != nil {
		return err
	}
	// al expirar o cancelarse ctx se cierra el socket y cualquier lectura pendiente falla
	stop := context.AfterFunc(ctx, func() { raw.Close() })
	defer stop()

	conn := raw

	// 465 es TLS implícito; en los demás puertos se negocia STARTTLS si el servidor lo ofrece
	implicitTLS := s.port == 465
	if implicitTLS {
		conn = tls.Client(conn, &tls.Config{ServerName: s.host})
	}
	c, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if !implicitTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return err
			}
		}
	}
	if s.user != "" {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(smtp.PlainAuth("", s.user, s.pass, s.host)); err != nil {
				return err
			}
		}
	}

	return gomail.Send(gomail.SendFunc(func(from string, to []string, msg io.WriterTo) error {
		if err := c.Mail(from); err != nil {
			return err
		}
		for _, addr := range to {
			if err := c.Rcpt(addr); err != nil {
				return err
			}
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := msg.WriteTo(w); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		return c.Quit()
	}), m)
}
