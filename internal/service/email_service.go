package service

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"net/smtp"
	"strings"

	"github.com/franchise-next/internal/config"
	"github.com/franchise-next/internal/repository"
)

var (
	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// LowStockAlertInput 低库存告警邮件输入
type LowStockAlertInput struct {
	FranchiseName string
	ProductName   string
	Size          string
	Available     int
	Threshold     int
}

// SendLowStockAlert 向配置的收件人发送低库存告警
func (s *EmailService) SendLowStockAlert(input LowStockAlertInput) error {
	if s.cfg == nil || len(s.cfg.AlertTo) == 0 {
		return ErrEmailServiceNotConfigured
	}
	subject, body := buildLowStockAlertContent(input)
	var firstErr error
	for _, to := range s.cfg.AlertTo {
		if err := s.sendTextEmail(to, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendLowStockDigest 发送低库存汇总邮件（批量巡检用）
func (s *EmailService) SendLowStockDigest(items []repository.LowStockItem) error {
	if s.cfg == nil || len(s.cfg.AlertTo) == 0 {
		return ErrEmailServiceNotConfigured
	}
	if len(items) == 0 {
		return nil
	}
	subject := fmt.Sprintf("低库存汇总：%d 个单品待补货", len(items))
	var buf bytes.Buffer
	buf.WriteString("以下单品可售量已降至告警阈值以下：\n\n")
	for _, item := range items {
		buf.WriteString(fmt.Sprintf("- %s / %s（%s）可售 %d，阈值 %d\n",
			item.FranchiseName, item.ProductName, item.Size, item.Available, item.AlertThreshold))
	}
	body := buf.String()
	var firstErr error
	for _, to := range s.cfg.AlertTo {
		if err := s.sendTextEmail(to, subject, body); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendCustomEmail 发送测试邮件或自定义邮件
func (s *EmailService) SendCustomEmail(toEmail, subject, body string) error {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		subject = "SMTP 配置测试邮件"
	}
	body = strings.TrimSpace(body)
	if body == "" {
		body = "这是一封 SMTP 测试邮件，收到说明当前配置可正常发送。"
	}
	return s.sendTextEmail(toEmail, subject, body)
}

func buildLowStockAlertContent(input LowStockAlertInput) (string, string) {
	subject := fmt.Sprintf("低库存告警：%s %s（%s）", input.FranchiseName, input.ProductName, input.Size)
	body := fmt.Sprintf(
		"门店「%s」的「%s」（规格 %s）可售量已降至 %d，低于告警阈值 %d，请尽快补货。",
		input.FranchiseName, input.ProductName, input.Size, input.Available, input.Threshold,
	)
	return subject, body
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if s.cfg == nil || !s.cfg.Enabled {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	from := buildFromAddress(s.cfg.From, s.cfg.FromName)
	msg := buildEmailMessage(from, toEmail, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" || s.cfg.Password != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if s.cfg.UseSSL {
		return sendMailWithSSL(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	if s.cfg.UseTLS {
		return sendMailWithStartTLS(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
	}
	return sendMailPlain(addr, auth, s.cfg.Host, s.cfg.From, []string{toEmail}, []byte(msg))
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, body string) string {
	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("From: %s\r\n", from))
	buf.WriteString(fmt.Sprintf("To: %s\r\n", to))
	buf.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject)))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.String()
}

func sendMailWithSSL(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: host})
	if err != nil {
		return err
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailWithStartTLS(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.StartTLS(&tls.Config{ServerName: host}); err != nil {
		return err
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendMailPlain(addr string, auth smtp.Auth, host, from string, to []string, msg []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	return sendSMTPData(client, from, to, msg)
}

func sendSMTPData(client *smtp.Client, from string, to []string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := client.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
