// FilePath: internal/alerting/alerting.go

// Package alerting delivers threshold-breach notifications by email. It is
// the concrete Notifier behind the ingestion pipeline's threshold callback.
package alerting

import (
	"fmt"
	"strings"

	"github.com/connectedsmarties/hub/internal/config"
	"github.com/connectedsmarties/hub/internal/threshold"
	"github.com/prometheus/client_golang/prometheus"
	nuts "github.com/vaudience/go-nuts"
	gomail "gopkg.in/gomail.v2"
)

// EmailNotifier sends threshold alerts over SMTP with STARTTLS. An
// unconfigured notifier skips sending with a warning instead of failing, so
// the hub keeps running without an SMTP account.
type EmailNotifier struct {
	cfg    config.SMTPConfig
	dialer *gomail.Dialer
	sent   prometheus.Counter
}

// NewEmailNotifier creates a notifier for the given SMTP account. The sent
// counter is incremented once per delivered email and may be nil.
func NewEmailNotifier(cfg config.SMTPConfig, sent prometheus.Counter) *EmailNotifier {
	n := &EmailNotifier{cfg: cfg, sent: sent}
	if n.configured() {
		n.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Sender, cfg.Password)
	}
	return n
}

func (n *EmailNotifier) configured() bool {
	return n.cfg.Sender != "" && n.cfg.Password != "" && n.cfg.Recipient != ""
}

// Alert implements threshold.Notifier
func (n *EmailNotifier) Alert(a threshold.Alert) error {
	if !n.configured() {
		nuts.L.Warnf("[EmailNotifier] SMTP configuration not set, skipping alert for %s", a.Location)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.Sender)
	m.SetHeader("To", n.cfg.Recipient)
	m.SetHeader("Subject", subject(a))
	m.SetBody("text/html", htmlBody(a))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send alert email: %w", err)
	}

	// Only delivered emails count
	if n.sent != nil {
		n.sent.Inc()
	}
	nuts.L.Infof("[EmailNotifier] Alert sent for %s (%s %v)", a.Location, a.Breach, a.Value)
	return nil
}

func subject(a threshold.Alert) string {
	return fmt.Sprintf("Alert: %s threshold exceeded in %s", capitalize(string(a.DataType)), a.Location)
}

func htmlBody(a threshold.Alert) string {
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; padding: 20px;">
			<h2 style="color: #d32f2f;">Threshold Alert</h2>
			<p><strong>Location:</strong> %s</p>
			<p><strong>Sensor Type:</strong> %s</p>
			<p><strong>Current Value:</strong> %v&deg;C</p>
			<p><strong>%s Threshold:</strong> %v&deg;C</p>
			<p style="margin-top: 20px;">The sensor reading has exceeded the configured threshold.</p>
			<p style="margin-top: 30px; color: #666; font-size: 12px;">
				This is an automated alert from the ConnectedSmarties monitoring system.
			</p>
		</body>
	</html>`,
		a.Location, capitalize(string(a.DataType)), a.Value, capitalize(a.Breach), a.Bound)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
