package connectors

import (
	"menuforge/internal/storage"
)

// FetchService is the intake front door: it pulls menu mail through a
// connector and lands every message as a pending document, leaving
// detection and transformation to the processing pipeline.
type FetchService struct {
	db        *storage.DB
	connector MailConnector
	store     *MailStoreService
}

// FetchResult counts one intake pass. Stored counts upserts, so a re-fetched
// message is still counted even though no new document row appears.
type FetchResult struct {
	Fetched int
	Stored  int
}

func NewFetchService(db *storage.DB, rawMailDir string, connector MailConnector) *FetchService {
	return &FetchService{
		db:        db,
		connector: connector,
		store:     NewMailStoreService(db, rawMailDir),
	}
}

// FetchAndStore drains up to max messages from the given mailbox label into
// the document store with status "fetched".
func (s *FetchService) FetchAndStore(label string, max int) (FetchResult, error) {
	messages, err := s.connector.FetchInbox(label, max)
	if err != nil {
		return FetchResult{}, err
	}

	stored := 0
	for _, msg := range messages {
		if _, err := s.store.Store(msg); err != nil {
			return FetchResult{}, err
		}
		stored++
	}

	return FetchResult{Fetched: len(messages), Stored: stored}, nil
}
