package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"storefront-be/internal/config"
	"storefront-be/internal/logger"

	"go.uber.org/zap"
)

// SMTPSink delivers order and contact mails over plain SMTP.
type SMTPSink struct {
	host       string
	port       string
	username   string
	password   string
	storeName  string
	adminEmail string
}

func NewSMTPSink(cfg *config.Config) *SMTPSink {
	return &SMTPSink{
		host:       cfg.SMTPHost,
		port:       cfg.SMTPPort,
		username:   cfg.SMTPUser,
		password:   cfg.SMTPPass,
		storeName:  cfg.StoreName,
		adminEmail: cfg.AdminEmail,
	}
}

func (s *SMTPSink) SendOrderConfirmation(ctx context.Context, m OrderConfirmation) error {
	subject := fmt.Sprintf("Order Confirmation - %s [%s]", s.storeName, m.OrderNumber)

	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, confirmationData{
		StoreName:    s.storeName,
		CustomerName: m.CustomerName,
		OrderNumber:  m.OrderNumber,
		Total:        m.Total,
		Items:        m.Items,
	}); err != nil {
		return fmt.Errorf("render confirmation mail: %w", err)
	}

	return s.send(ctx, m.CustomerEmail, subject, body.Bytes())
}

func (s *SMTPSink) SendOrderShipped(ctx context.Context, m OrderShipped) error {
	subject := fmt.Sprintf("Your Order Has Been Shipped - %s [%s]", s.storeName, m.OrderNumber)

	eta := ""
	if m.EstimatedDeliveryDate != nil {
		eta = m.EstimatedDeliveryDate.Format("2 January 2006")
	}

	var body bytes.Buffer
	if err := shippedTmpl.Execute(&body, shippedData{
		StoreName:         s.storeName,
		CustomerName:      m.CustomerName,
		OrderNumber:       m.OrderNumber,
		TrackingNumber:    m.TrackingNumber,
		Carrier:           m.Carrier,
		EstimatedDelivery: eta,
	}); err != nil {
		return fmt.Errorf("render shipped mail: %w", err)
	}

	return s.send(ctx, m.CustomerEmail, subject, body.Bytes())
}

// SendContactMessage forwards a contact-form entry to the store admin.
func (s *SMTPSink) SendContactMessage(ctx context.Context, m ContactMessage) error {
	subject := fmt.Sprintf("New Contact Message: %s", m.Subject)

	var body bytes.Buffer
	if err := contactTmpl.Execute(&body, contactData{
		StoreName: s.storeName,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
	}); err != nil {
		return fmt.Errorf("render contact mail: %w", err)
	}

	return s.send(ctx, s.adminEmail, subject, body.Bytes())
}

func (s *SMTPSink) send(ctx context.Context, to, subject string, html []byte) error {
	from := fmt.Sprintf("%q <%s>", s.storeName, s.username)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(html)

	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.username, s.password, s.host)

	if err := smtp.SendMail(addr, auth, s.username, []string{to}, msg.Bytes()); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}

	logger.FromCtx(ctx).Info("order mail sent",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return nil
}
