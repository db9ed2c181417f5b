// Package templates renders the email bodies and the activation pages.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed files
var files embed.FS

// Email template names.
const (
	AccountActivation = "account_activation"
	ContactUsMessage  = "contact_us_message"
)

// Page template names.
const (
	ActivationPage    = "activation_page"
	ActivationExpired = "activation_expired"
	NewActivationSent = "new_activation_sent"
	ErrorPage         = "error"
)

// ActivationEmail is the data of the account activation email.
type ActivationEmail struct {
	Link string
}

// ContactEmail is the data of a customer message.
type ContactEmail struct {
	UserName  string
	UserEmail string
	Subject   string
	OrderID   string
	Message   string
}

// Page is the data of every HTML page.
type Page struct {
	Title       string
	Message     string
	Link        string
	FrontendURL string
}

type Renderer struct {
	text  map[string]*texttemplate.Template
	html  map[string]*htmltemplate.Template
	pages map[string]*htmltemplate.Template
}

// New parses every embedded template.
func New() (*Renderer, error) {
	r := &Renderer{
		text:  map[string]*texttemplate.Template{},
		html:  map[string]*htmltemplate.Template{},
		pages: map[string]*htmltemplate.Template{},
	}
	for _, name := range []string{AccountActivation, ContactUsMessage} {
		txt, err := texttemplate.ParseFS(files, "files/email/"+name+".txt")
		if err != nil {
			return nil, fmt.Errorf("parse %s.txt: %w", name, err)
		}
		h, err := htmltemplate.ParseFS(files, "files/email/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s.html: %w", name, err)
		}
		r.text[name] = txt
		r.html[name] = h
	}
	for _, name := range []string{ActivationPage, ActivationExpired, NewActivationSent, ErrorPage} {
		p, err := htmltemplate.ParseFS(files, "files/pages/base.html", "files/pages/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		r.pages[name] = p
	}
	return r, nil
}

// Email renders the text and HTML bodies of an email.
func (r *Renderer) Email(name string, data any) (text, html string, err error) {
	txt, ok := r.text[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
	var tb, hb bytes.Buffer
	if err := txt.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := r.html[name].Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

// Page renders a full HTML page.
func (r *Renderer) Page(name string, data Page) (string, error) {
	p, ok := r.pages[name]
	if !ok {
		return "", fmt.Errorf("unknown page %q", name)
	}
	var b bytes.Buffer
	if err := p.ExecuteTemplate(&b, "base", data); err != nil {
		return "", err
	}
	return b.String(), nil
}
