package listener

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"menuforge/internal/config"
	"menuforge/internal/connectors"
	gmailconnector "menuforge/internal/connectors/gmail"
	imapconnector "menuforge/internal/connectors/imap"
	"menuforge/internal/pipeline"
	"menuforge/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
}

func NewService(db *storage.DB, cfg config.Config) *Service {
	return &Service{db: db, cfg: cfg}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			fmt.Printf("listener cycle error: %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.MailListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.MailListenerProvider))
	mailConnector, err := s.makeConnector(provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, mailConnector)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.MailListenerLabel, s.cfg.MailListenerFetchMax)
	if err != nil {
		return err
	}

	processor := pipeline.NewProcessingService(s.db, s.cfg)
	processedDocs, _, err := processor.ProcessPending(s.cfg.MailListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	if s.cfg.MailListenerAutoExport {
		if err := s.exportProcessed(provider); err != nil {
			return err
		}
	}

	fmt.Printf("listener cycle done provider=%s fetched=%d stored=%d processed=%d\n", provider, fetchResult.Fetched, fetchResult.Stored, processedDocs)
	_ = ctx
	return nil
}

func (s *Service) exportProcessed(provider string) error {
	docs, err := s.db.ListDocumentsByStatus("processed", 200)
	if err != nil {
		return err
	}

	for _, doc := range docs {
		if doc.Provider != provider {
			continue
		}
		m, err := s.db.GetLatestMenu(doc.ID)
		if err != nil {
			return err
		}
		if m == nil || len(m.Items) == 0 {
			continue
		}
		base := fmt.Sprintf("%d_%s", doc.ID, sanitizeMessageID(doc.MessageID))
		outDir := filepath.Join(s.cfg.OutputDir, "listener")
		if err := pipeline.WriteMenuJSON(*m, filepath.Join(outDir, base+".json")); err != nil {
			return err
		}
		if err := pipeline.ExportMenuToXLSX(*m, filepath.Join(outDir, base+".xlsx")); err != nil {
			return err
		}
		_ = s.db.UpdateDocumentStatus(doc.ID, "exported")
	}
	return nil
}

func (s *Service) makeConnector(provider string) (connectors.MailConnector, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(s.cfg)
	case "imap":
		return imapconnector.NewConnector(s.cfg)
	default:
		return nil, fmt.Errorf("unsupported listener provider: %s", provider)
	}
}

func sanitizeMessageID(input string) string {
	repl := strings.NewReplacer("<", "_", ">", "_", ":", "_", "/", "_", "\\", "_", "|", "_", "?", "_", "*", "_", " ", "_")
	out := repl.Replace(input)
	if len(out) > 120 {
		out = out[:120]
	}
	return out
}
