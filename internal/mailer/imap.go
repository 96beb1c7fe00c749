package mailer

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"

	logx "rfpflow/pkg/logger"
)

type IMAPConfig struct {
	Host    string
	User    string
	Pass    string
	Mailbox string
}

// IMAPOpener открывает новую IMAP-сессию на каждую пачку.
type IMAPOpener struct {
	cfg IMAPConfig
}

func NewIMAPOpener(cfg IMAPConfig) *IMAPOpener {
	return &IMAPOpener{cfg: cfg}
}

func (o *IMAPOpener) Open(ctx context.Context) (Inbox, error) {
	c, err := client.DialTLS(o.cfg.Host, nil)
	if err != nil {
		return nil, err
	}
	if err := c.Login(o.cfg.User, o.cfg.Pass); err != nil {
		_ = c.Logout()
		return nil, err
	}
	if _, err := c.Select(o.cfg.Mailbox, false); err != nil {
		_ = c.Logout()
		return nil, err
	}
	return &imapInbox{client: c}, nil
}

type imapInbox struct {
	client *client.Client
}

func (i *imapInbox) ListUnread(ctx context.Context) ([]RawMessage, error) {
	criteria := imap.NewSearchCriteria()
	criteria.WithoutFlags = []string{imap.SeenFlag}

	uids, err := i.client.UidSearch(criteria)
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return []RawMessage{}, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	// Peek, чтобы fetch сам не ставил \Seen: флаг выставляется
	// только после успешной обработки письма.
	section := &imap.BodySectionName{Peek: true}
	items := []imap.FetchItem{imap.FetchEnvelope, imap.FetchUid, section.FetchItem()}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- i.client.UidFetch(seqset, items, messages)
	}()

	var result []RawMessage
	for msg := range messages {
		raw := RawMessage{ID: strconv.FormatUint(uint64(msg.Uid), 10)}
		if msg.Envelope != nil {
			raw.Subject = msg.Envelope.Subject
			if len(msg.Envelope.From) > 0 {
				raw.From = msg.Envelope.From[0].Address()
			}
		}

		body := msg.GetBody(section)
		if body != nil {
			text, html, err := readBodies(body)
			if err != nil {
				logx.Warn().Err(err).Str("uid", raw.ID).Msg("failed to parse message body")
			}
			raw.TextBody = text
			raw.HTMLBody = html
		}
		result = append(result, raw)
	}

	if err := <-done; err != nil {
		return nil, err
	}
	return result, nil
}

func (i *imapInbox) MarkSeen(ctx context.Context, id string) error {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return err
	}
	seqset := new(imap.SeqSet)
	seqset.AddNum(uint32(uid))

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	return i.client.UidStore(seqset, item, []interface{}{imap.SeenFlag}, nil)
}

func (i *imapInbox) Close() error {
	return i.client.Logout()
}

// readBodies вытаскивает первую text/plain и первую text/html часть.
func readBodies(r io.Reader) (text, html string, err error) {
	mr, err := gomail.CreateReader(r)
	if err != nil {
		return "", "", err
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return text, html, err
		}

		header, ok := part.Header.(*gomail.InlineHeader)
		if !ok {
			continue
		}
		contentType, _, err := header.ContentType()
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && text == "":
			b, err := io.ReadAll(part.Body)
			if err == nil {
				text = string(b)
			}
		case strings.HasPrefix(contentType, "text/html") && html == "":
			b, err := io.ReadAll(part.Body)
			if err == nil {
				html = string(b)
			}
		}
	}
	return text, html, nil
}
