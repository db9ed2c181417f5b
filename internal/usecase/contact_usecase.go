package usecase

import (
	"context"
	"strings"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/templates"

	"go.uber.org/zap"
)

const MsgContactSent = "Email is sent to customer service."

type ContactInput struct {
	UserName  string
	UserEmail string
	Subject   string
	OrderID   string
	Message   string
}

// ContactUsecase forwards customer messages to the service desk.
type ContactUsecase struct {
	mailer    Mailer
	renderer  EmailRenderer
	sender    string
	recipient string
	log       *zap.Logger
}

func NewContactUsecase(mailer Mailer, renderer EmailRenderer, sender, recipient string, log *zap.Logger) *ContactUsecase {
	return &ContactUsecase{mailer: mailer, renderer: renderer, sender: sender, recipient: recipient, log: log}
}

func (u *ContactUsecase) Send(ctx context.Context, in ContactInput) error {
	const method = "ContactUsecase.Send"

	data := templates.ContactEmail{
		UserName:  strings.TrimSpace(in.UserName),
		UserEmail: strings.TrimSpace(in.UserEmail),
		Subject:   strings.TrimSpace(in.Subject),
		OrderID:   strings.TrimSpace(in.OrderID),
		Message:   strings.TrimSpace(in.Message),
	}
	switch {
	case data.UserName == "":
		return InvalidArgument("user_name is required")
	case !IsEmailLike(data.UserEmail):
		return InvalidArgument("user_email is required")
	case data.Subject == "":
		return InvalidArgument("subject is required")
	case data.Message == "":
		return InvalidArgument("message is required")
	}

	text, html, err := u.renderer.Email(templates.ContactUsMessage, data)
	if err != nil {
		return internal(ctx, u.log, method, err)
	}
	if err := u.mailer.Send(ctx, MailMessage{
		Subject:    "Contact Us Message",
		Sender:     u.sender,
		Recipients: []string{u.recipient},
		Text:       text,
		HTML:       html,
	}); err != nil {
		return internal(ctx, u.log, method, err)
	}
	return nil
}
