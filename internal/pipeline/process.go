package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"menuforge/internal"
	"menuforge/internal/config"
	"menuforge/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	DocumentID int
	Rows       int
	Items      int
}

func (s *ProcessingService) ProcessByProviderMessageID(provider, messageID string) (ProcessResult, error) {
	doc, err := s.db.MustDocumentByProviderMessageID(provider, messageID)
	if err != nil {
		return ProcessResult{}, err
	}
	return s.ProcessDocument(doc)
}

func (s *ProcessingService) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListDocumentsByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}
	processedDocs := 0
	processedRows := 0
	for _, doc := range pending {
		if provider != "" && doc.Provider != provider {
			continue
		}
		res, err := s.ProcessDocument(doc)
		if err != nil {
			return processedDocs, processedRows, err
		}
		processedDocs++
		processedRows += res.Rows
	}
	return processedDocs, processedRows, nil
}

func (s *ProcessingService) ProcessDocument(doc internal.DocumentRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(doc.RawRef)
	if err != nil {
		return ProcessResult{}, err
	}

	rows, subject, text, html, attachmentNames, err := ExtractRowsFromEmailRaw(raw)
	if err != nil {
		return ProcessResult{}, err
	}

	detect := DetectMenuDocument(firstNonEmpty(subject, doc.Subject), text, html, attachmentNames)
	if err := s.db.ClearDocumentProcessing(doc.ID); err != nil {
		return ProcessResult{}, err
	}

	if !detect.IsMenu {
		_ = s.db.UpdateDocumentStatus(doc.ID, "skipped")
		_ = s.db.InsertRun(traceID(), doc.ID, map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())}, map[string]int{"totalRows": 0, "processed": 0, "items": 0})
		return ProcessResult{DocumentID: doc.ID}, nil
	}

	m, ingested, stats, err := Transform(rows)
	if err != nil {
		return ProcessResult{}, err
	}
	for _, row := range ingested {
		if _, err := s.db.InsertRow(doc.ID, row.Row, row.Parsed); err != nil {
			return ProcessResult{}, err
		}
	}
	if err := s.db.InsertMenu(doc.ID, m); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateDocumentStatus(doc.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}

	PrintStats(stats)
	fmt.Printf("document %d: %d menu items\n", doc.ID, len(m.Items))

	_ = s.db.InsertRun(traceID(), doc.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{
			"totalRows":              stats.TotalRows,
			"skippedEmpty":           stats.SkippedEmpty,
			"skippedDuplicate":       stats.SkippedDuplicate,
			"skippedUnknownCategory": stats.SkippedUnknownCategory,
			"processed":              stats.Processed,
			"items":                  len(m.Items),
		})

	return ProcessResult{DocumentID: doc.ID, Rows: stats.Processed, Items: len(m.Items)}, nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
