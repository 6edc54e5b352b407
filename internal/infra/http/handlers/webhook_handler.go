package handlers

import (
	"log"
	"net/http"
	"strings"
	"text/template"

	"github.com/craftlocal/leadflow/internal/infra/directory"
	"github.com/craftlocal/leadflow/internal/infra/http/middleware"
)

const smsTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Message>{{.Message}}</Message>
</Response>
`

const voiceTwiML = `<?xml version="1.0" encoding="UTF-8"?>
<Response>
    <Say voice="alice">{{.Say}}</Say>
    <Sms>{{.Message}}</Sms>
</Response>
`

const notConfiguredReply = "This number is not set up yet. Please try again later."

var (
	smsTemplate   = template.Must(template.New("sms").Parse(smsTwiML))
	voiceTemplate = template.Must(template.New("voice").Parse(voiceTwiML))
)

// WebhookHandler answers inbound telephony webhooks. The called number (To)
// picks the business out of the static directory; the reply points the caller
// at that business's quote form.
type WebhookHandler struct {
	Directory *directory.Directory
}

func NewWebhookHandler(dir *directory.Directory) *WebhookHandler {
	return &WebhookHandler{Directory: dir}
}

func (h *WebhookHandler) HandleSMS(w http.ResponseWriter, r *http.Request) {
	middleware.RecordWebhook("sms")

	from := r.PostFormValue("From")
	to := r.PostFormValue("To")
	log.Printf("SMS from %s to %s", from, to)

	message := notConfiguredReply
	if biz, ok := h.Directory.Lookup(to); ok {
		message = formInvite(biz)
	}

	w.Header().Set("Content-Type", "text/xml")
	smsTemplate.Execute(w, map[string]string{
		"Message": xmlEscape(message),
	})
}

func (h *WebhookHandler) HandleVoice(w http.ResponseWriter, r *http.Request) {
	middleware.RecordWebhook("voice")

	from := r.PostFormValue("From")
	to := r.PostFormValue("To")
	log.Printf("Call from %s to %s", from, to)

	message := notConfiguredReply
	say := notConfiguredReply
	if biz, ok := h.Directory.Lookup(to); ok {
		message = formInvite(biz)
		say = "Thank you for calling " + biz.Name + ". We just sent you a text message with a link to request your free quote. Please check your messages. We look forward to helping with your project."
	}

	w.Header().Set("Content-Type", "text/xml")
	voiceTemplate.Execute(w, map[string]string{
		"Say":     xmlEscape(say),
		"Message": xmlEscape(message),
	})
}

func formInvite(biz directory.Business) string {
	return "Thanks for reaching out to " + biz.Name + "!\n\n" +
		"To get your free quote, fill out our quick form:\n" + biz.FormURL + "\n\n" +
		"We'll review your project and contact you within 24 hours."
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}
