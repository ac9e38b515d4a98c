package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/grassandaxe/booking-wizard/internal/config"
	"github.com/grassandaxe/booking-wizard/internal/notify"
	"github.com/grassandaxe/booking-wizard/pkg/logging"
)

// Email providers accepted in EMAIL_PROVIDER.
const (
	EmailProviderStub     = "stub"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderSES      = "ses"
)

// BuildEmailSender picks the confirmation email provider. A provider that
// cannot be configured falls back to the logging stub so bookings still
// complete.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (notify.EmailSender, string) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger), EmailProviderStub
	}

	switch cfg.EmailProvider {
	case EmailProviderSendGrid:
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger)
		if sender != nil {
			return sender, EmailProviderSendGrid
		}
		logger.Warn("sendgrid selected but SENDGRID_API_KEY is empty; using stub email sender")
	case EmailProviderSES:
		if cfg.EmailFrom != "" {
			sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
				FromEmail: cfg.EmailFrom,
				FromName:  cfg.EmailFromName,
			}, logger)
			return sender, EmailProviderSES
		}
		logger.Warn("ses selected but EMAIL_FROM is empty; using stub email sender")
	case "", EmailProviderStub:
	default:
		logger.Warn("unknown email provider; using stub email sender", "provider", cfg.EmailProvider)
	}
	return notify.NewStubEmailSender(logger), EmailProviderStub
}
