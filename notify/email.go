package notify

import (
	"fmt"
	"log"

	"election-voting-backend/config"

	"gopkg.in/gomail.v2"
)

// Notifier 向注册选民发送投票链接
type Notifier interface {
	SendVotingLink(email, token string) error
}

// EmailNotifier 通过SMTP发送投票链接邮件
type EmailNotifier struct {
	cfg *config.EmailConfig
}

// NewEmailNotifier 创建邮件通知器。
// SMTP未配置时返回LogNotifier，只打印链接（开发环境用）。
func NewEmailNotifier(cfg *config.EmailConfig) Notifier {
	if cfg.SMTPHost == "" || cfg.FromEmail == "" {
		log.Println("SMTP未配置，投票链接将只写入日志")
		return &LogNotifier{AppURL: cfg.AppURL}
	}
	return &EmailNotifier{cfg: cfg}
}

// SendVotingLink 发送一次性投票链接。失败会向上传播，
// 调用方不应将发送失败视为注册成功。
func (n *EmailNotifier) SendVotingLink(email, token string) error {
	votingLink := fmt.Sprintf("%s/vote?token=%s", n.cfg.AppURL, token)

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Ihr persönlicher Wahllink")
	m.SetBody("text/html", buildVotingEmailHTML(votingLink))

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send voting email: %w", err)
	}

	log.Printf("投票链接已发送: %s", email)
	return nil
}

func buildVotingEmailHTML(votingLink string) string {
	return fmt.Sprintf(`
  <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
    <h1 style="color: #333;">Willkommen zum Wahlsystem</h1>
    <p>Sie haben sich für das Wahlsystem registriert.</p>
    <p>Bitte klicken Sie auf den folgenden Link, um Ihre Stimme abzugeben:</p>
    <a href="%s" style="display: inline-block; background-color: #0e4f5d; color: white; padding: 12px 24px; text-decoration: none; border-radius: 5px; margin: 20px 0;">
      Zur Abstimmung
    </a>
    <p style="color: #666; font-size: 14px;">
      Dieser Link ist einmalig gültig und kann nur für eine Abstimmung verwendet werden.
    </p>
    <p style="color: #666; font-size: 14px;">
      Falls Sie diese E-Mail nicht angefordert haben, ignorieren Sie sie bitte.
    </p>
  </div>`, votingLink)
}

// LogNotifier 不发邮件，仅记录投票链接
type LogNotifier struct {
	AppURL string
}

func (n *LogNotifier) SendVotingLink(email, token string) error {
	log.Printf("[dev] 投票链接 (%s): %s/vote?token=%s", email, n.AppURL, token)
	return nil
}
