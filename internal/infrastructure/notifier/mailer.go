package notifier

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"rent_radar/internal/digest"
)

var errNoReceivers = errors.New("no mail receivers configured")

type MailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Receivers []string
}

type Mailer struct {
	cfg MailConfig
}

func NewMailer(cfg MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Notify mails the digest. The first receiver goes to To, the rest to Cc.
func (m *Mailer) Notify(ctx context.Context, d digest.Digest) error {
	msg, err := m.message(d)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	logger(ctx).Info("digest mailed", "subject", d.Subject, "receivers", len(m.cfg.Receivers))

	return nil
}

func (m *Mailer) message(d digest.Digest) (*mail.Msg, error) {
	if len(m.cfg.Receivers) == 0 {
		return nil, errNoReceivers
	}

	msg := mail.NewMsg()

	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(m.cfg.Receivers[0]); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	if len(m.cfg.Receivers) > 1 {
		if err := msg.Cc(m.cfg.Receivers[1:]...); err != nil {
			return nil, fmt.Errorf("mail cc: %w", err)
		}
	}

	msg.Subject(d.Subject)
	msg.SetBodyString(mail.TypeTextPlain, d.Text)
	msg.AddAlternativeString(mail.TypeTextHTML, d.HTML)

	return msg, nil
}
