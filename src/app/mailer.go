package app

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// MessageDialer is the slice of gomail's dialer the dispatcher needs.
type MessageDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Attachment is one resolved mail part held in memory.
type Attachment struct {
	Filename string
	Data     []byte
}

// AttachmentStatus records what happened to one submitted attachment
// source. Skips are surfaced here and logged, not silently swallowed.
type AttachmentStatus struct {
	Source   string
	Attached bool
	Reason   string
}

// Mailer assembles multipart messages with inline attachments and sends
// them over the configured relay. The dialer negotiates STARTTLS when
// the relay offers it and authenticates when credentials are set.
type Mailer struct {
	dialer MessageDialer
	from   string
	store  *ArtifactStore
	log    zerolog.Logger
}

func NewMailer(host string, port int, username, password, from string, store *ArtifactStore, log zerolog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		store:  store,
		log:    log,
	}
}

// Dispatch resolves both attachment sources, sends the message and
// returns the transport error, if any. Broken attachments never abort
// the send.
func (m *Mailer) Dispatch(to, subject, body string, dataPayloads, diskRefs []string) error {
	attachments, statuses := m.ResolveAttachments(dataPayloads, diskRefs)
	for _, st := range statuses {
		if !st.Attached {
			m.log.Warn().Str("source", st.Source).Str("reason", st.Reason).Msg("skipped attachment")
		}
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	for _, att := range attachments {
		att := att
		msg.Attach(att.Filename, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(att.Data)
			return err
		}))
	}

	return m.dialer.DialAndSend(msg)
}

// ResolveAttachments decodes inline payloads and reads legacy disk
// references, producing one status per submitted source.
func (m *Mailer) ResolveAttachments(dataPayloads, diskRefs []string) ([]Attachment, []AttachmentStatus) {
	var attachments []Attachment
	var statuses []AttachmentStatus

	for idx, payload := range dataPayloads {
		att, status := decodeInlinePayload(idx, payload)
		statuses = append(statuses, status)
		if status.Attached {
			attachments = append(attachments, att)
		}
	}

	for _, ref := range diskRefs {
		att, status := m.readDiskRef(ref)
		statuses = append(statuses, status)
		if status.Attached {
			attachments = append(attachments, att)
		}
	}

	return attachments, statuses
}

// decodeInlinePayload splits a data URI and decodes its base64 body. The
// media subtype is inferred from the declared type, defaulting to jpeg.
func decodeInlinePayload(idx int, payload string) (Attachment, AttachmentStatus) {
	source := fmt.Sprintf("image_data_b64[%d]", idx)
	if payload == "" {
		return Attachment{}, AttachmentStatus{Source: source, Reason: "empty payload"}
	}
	if !strings.HasPrefix(payload, "data:") {
		return Attachment{}, AttachmentStatus{Source: source, Reason: "not a data URI"}
	}
	header, b64data, found := strings.Cut(payload, ",")
	if !found {
		return Attachment{}, AttachmentStatus{Source: source, Reason: "malformed data URI"}
	}
	subtype := "jpeg"
	if strings.Contains(header, "png") {
		subtype = "png"
	}
	data, err := base64.StdEncoding.DecodeString(b64data)
	if err != nil {
		return Attachment{}, AttachmentStatus{Source: source, Reason: fmt.Sprintf("decode failed: %v", err)}
	}
	return Attachment{
		Filename: fmt.Sprintf("attachment_%d.%s", idx, subtype),
		Data:     data,
	}, AttachmentStatus{Source: source, Attached: true}
}

// readDiskRef honors legacy /static URLs only when persistence is on and
// the referenced file lives under the static root.
func (m *Mailer) readDiskRef(ref string) (Attachment, AttachmentStatus) {
	status := AttachmentStatus{Source: ref}
	path, ok := m.store.Resolve(ref)
	if !ok {
		status.Reason = "not resolvable under static root"
		return Attachment{}, status
	}
	data, err := os.ReadFile(path)
	if err != nil {
		status.Reason = fmt.Sprintf("read failed: %v", err)
		return Attachment{}, status
	}
	status.Attached = true
	return Attachment{Filename: filepath.Base(path), Data: data}, status
}
