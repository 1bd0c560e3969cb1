package connectors

import "menuforge/internal"

// MailConnector pulls raw messages from the mailbox where vendors deliver
// menu documents. Implementations return full RFC 822 bytes; deciding which
// messages actually carry a menu happens downstream in the pipeline.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
