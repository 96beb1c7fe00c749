package mailer

import "context"

// Исходящее письмо поставщику.
type Outbound struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Необработанное входящее письмо из ящика.
type RawMessage struct {
	ID       string
	From     string
	Subject  string
	TextBody string
	HTMLBody string
}

const emptyBodyPlaceholder = "(no body content)"

// BestBody: текст предпочтительнее HTML, иначе заглушка.
func (m RawMessage) BestBody() string {
	if m.TextBody != "" {
		return m.TextBody
	}
	if m.HTMLBody != "" {
		return m.HTMLBody
	}
	return emptyBodyPlaceholder
}

// Sender отправляет одно письмо; ошибка ловится на каждый вызов отдельно,
// чтобы не рушить цикл рассылки.
type Sender interface {
	Send(ctx context.Context, msg Outbound) (messageID string, err error)
}

// Inbox — открытая сессия входящей почты.
type Inbox interface {
	ListUnread(ctx context.Context) ([]RawMessage, error)
	MarkSeen(ctx context.Context, id string) error
	Close() error
}

// InboxOpener открывает сессию на время одной пачки; вызывающий
// обязан закрыть ее даже при ошибке посреди обработки.
type InboxOpener interface {
	Open(ctx context.Context) (Inbox, error)
}
