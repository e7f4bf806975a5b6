// Package notify delivers finished analyses to users by email.
package notify

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"github.com/lab-analysis-server/internal/domain"
)

// EmailNotifier implements domain.Notifier over SMTP. The analysis document
// is rendered to HTML; Arabic analyses get a right-to-left wrapper.
type EmailNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *logrus.Logger
}

// NewEmailNotifier creates a notifier from SMTP configuration.
func NewEmailNotifier(config domain.EmailConfig, logger *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		from:   config.From,
		log:    logger,
	}
}

// SendAnalysis emails the rendered analysis. The context only bounds the
// caller's patience; SMTP dialing itself is synchronous.
func (n *EmailNotifier) SendAnalysis(ctx context.Context, recipient string, reportType domain.ReportType, analysis domain.Document, rtl bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", fmt.Sprintf("Your %s analysis is ready", subjectName(reportType)))
	m.SetBody("text/html", RenderAnalysisHTML(reportType, analysis, rtl))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending analysis email: %w", err)
	}

	n.log.WithFields(logrus.Fields{
		"recipient":   recipient,
		"report_type": reportType.String(),
	}).Info("Analysis email sent")

	return nil
}

func subjectName(reportType domain.ReportType) string {
	name := strings.ReplaceAll(reportType.String(), "_", " ")
	if name == "" || name == "unknown" {
		return "lab report"
	}
	return name
}

// RenderAnalysisHTML renders the loosely-typed analysis document as a simple
// HTML body. Field order is alphabetical for stable output; rtl wraps the
// body in a right-to-left container for Arabic.
func RenderAnalysisHTML(reportType domain.ReportType, analysis domain.Document, rtl bool) string {
	var b strings.Builder

	dir := ""
	if rtl {
		dir = ` dir="rtl"`
	}
	fmt.Fprintf(&b, `<div%s style="font-family: sans-serif; max-width: 640px;">`, dir)
	fmt.Fprintf(&b, "<h2>%s</h2>", html.EscapeString(titleCase(subjectName(reportType))))

	keys := make([]string, 0, len(analysis))
	for k := range analysis {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := analysis[key]
		if value == nil {
			continue
		}
		fmt.Fprintf(&b, "<h3>%s</h3>", html.EscapeString(headingFor(key)))
		renderValue(&b, value)
	}

	b.WriteString("</div>")
	return b.String()
}

func headingFor(key string) string {
	return titleCase(strings.ReplaceAll(key, "_", " "))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func renderValue(b *strings.Builder, value any) {
	switch v := value.(type) {
	case string:
		fmt.Fprintf(b, "<p>%s</p>", html.EscapeString(v))
	case []any:
		b.WriteString("<ul>")
		for _, item := range v {
			fmt.Fprintf(b, "<li>%s</li>", html.EscapeString(domain.Stringify(item)))
		}
		b.WriteString("</ul>")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("<ul>")
		for _, k := range keys {
			fmt.Fprintf(b, "<li><strong>%s:</strong> %s</li>",
				html.EscapeString(headingFor(k)), html.EscapeString(domain.Stringify(v[k])))
		}
		b.WriteString("</ul>")
	default:
		fmt.Fprintf(b, "<p>%s</p>", html.EscapeString(domain.Stringify(v)))
	}
}
