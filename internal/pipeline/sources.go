package pipeline

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jhillyerd/enmime"
	pdf "github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"menuforge/internal"
	"menuforge/internal/menu"
	"menuforge/internal/util"
)

var (
	categoryProbes = []string{"category"}
	itemProbes     = []string{"item", "name", "product"}
)

// ParseCSV reads a delimited menu file with a header row naming at least
// Category and Item columns. Records with extra unassociated fields (an
// unquoted comma inside the item name) have the extras rejoined to the name
// with the delimiter, preserving original text.
func ParseCSV(r io.Reader) ([]internal.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.New("csv: missing header row")
	}
	catIdx := findHeaderIndex(lowerAll(header), categoryProbes)
	itemIdx := findHeaderIndex(lowerAll(header), itemProbes)
	if catIdx < 0 || itemIdx < 0 {
		return nil, errors.New("csv: header must contain Category and Item columns")
	}

	out := []internal.RawRow{}
	lineNo := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		name := pickCell(record, itemIdx, -1)
		if len(record) > len(header) {
			name = name + "," + strings.Join(record[len(header):], ",")
		}

		lineNo++
		out = append(out, internal.RawRow{
			LineNo:        lineNo,
			Source:        internal.SourceCSV,
			CategoryLabel: pickCell(record, catIdx, -1),
			ItemName:      name,
			Meta:          map[string]any{},
		})
	}
	return out, nil
}

func parseXLSX(content []byte) ([]internal.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	lineNo := 0
	out := []internal.RawRow{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}

		catIdx, itemIdx := -1, -1
		for i, row := range rows {
			cells := normalizeCells(row)
			if len(cells) == 0 {
				continue
			}
			if i < 3 && catIdx < 0 {
				catIdx = findHeaderIndex(lowerAll(cells), categoryProbes)
				itemIdx = findHeaderIndex(lowerAll(cells), itemProbes)
				if catIdx >= 0 || itemIdx >= 0 {
					continue
				}
			}
			if catIdx < 0 {
				catIdx, itemIdx = 0, 1
			}

			category := pickCell(cells, catIdx, 0)
			name := pickCell(cells, itemIdx, 1)
			if category == "" && name == "" {
				continue
			}

			lineNo++
			out = append(out, internal.RawRow{
				LineNo:        lineNo,
				Source:        internal.SourceXLSX,
				CategoryLabel: category,
				ItemName:      name,
				Meta:          map[string]any{"sheet": sheet, "rowNumber": i + 1},
			})
		}
	}
	return out, nil
}

func parseHTMLTable(html string) []internal.RawRow {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	out := []internal.RawRow{}
	lineNo := 0
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		rows := table.Find("tr")
		if rows.Length() < 2 {
			return
		}

		headers := []string{}
		rows.First().Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			headers = append(headers, strings.ToLower(strings.TrimSpace(cell.Text())))
		})
		catIdx := findHeaderIndex(headers, categoryProbes)
		itemIdx := findHeaderIndex(headers, itemProbes)

		rows.Slice(1, rows.Length()).Each(func(_ int, row *goquery.Selection) {
			cells := []string{}
			row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, util.NormalizeSpaces(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}

			lineNo++
			out = append(out, internal.RawRow{
				LineNo:        lineNo,
				Source:        internal.SourceHTMLTable,
				CategoryLabel: pickCell(cells, catIdx, 0),
				ItemName:      pickCell(cells, itemIdx, 1),
				Meta:          map[string]any{"row": cells},
			})
		})
	})

	return out
}

// parsePDF treats a line that exactly matches a known category label as a
// section heading; following lines are item names under that heading.
func parsePDF(content []byte) ([]internal.RawRow, error) {
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}

	out := []internal.RawRow{}
	lineNo := 0
	currentCategory := ""
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		for _, line := range splitLines(text) {
			if _, ok := menu.CategoryMap[line]; ok {
				currentCategory = line
				continue
			}
			if currentCategory == "" {
				continue
			}
			lineNo++
			out = append(out, internal.RawRow{
				LineNo:        lineNo,
				Source:        internal.SourcePDF,
				CategoryLabel: currentCategory,
				ItemName:      line,
				Meta:          map[string]any{"page": i},
			})
		}
	}
	return out, nil
}

// parseEmailText accepts plain-text body lines of the form "Category: Item".
// Lines without a colon are ignored as prose.
func parseEmailText(text string) []internal.RawRow {
	out := []internal.RawRow{}
	lineNo := 0
	for _, line := range splitLines(text) {
		idx := strings.Index(line, ":")
		if idx <= 0 || idx == len(line)-1 {
			continue
		}
		category := strings.TrimSpace(line[:idx])
		name := strings.TrimSpace(line[idx+1:])
		if category == "" || name == "" {
			continue
		}
		lineNo++
		out = append(out, internal.RawRow{
			LineNo:        lineNo,
			Source:        internal.SourceEmailText,
			CategoryLabel: category,
			ItemName:      name,
			Meta:          map[string]any{},
		})
	}
	return out
}

// ExtractRowsFromEmailRaw walks a raw MIME message: plain-text body lines,
// HTML body tables, and CSV/XLSX/PDF attachments all contribute rows. The
// subject, both bodies and the attachment names are returned alongside so
// the caller can run menu detection over everything that was read.
func ExtractRowsFromEmailRaw(raw []byte) ([]internal.RawRow, string, string, string, []string, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return nil, "", "", "", nil, err
	}

	rows := make([]internal.RawRow, 0)
	if env.Text != "" {
		rows = append(rows, parseEmailText(env.Text)...)
	}
	if env.HTML != "" {
		rows = append(rows, parseHTMLTable(env.HTML)...)
	}

	attachmentNames := make([]string, 0, len(env.Attachments))
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		if filename == "" {
			filename = "attachment"
		}
		attachmentNames = append(attachmentNames, filename)
		lower := strings.ToLower(filename)

		var extra []internal.RawRow
		switch {
		case strings.HasSuffix(lower, ".csv"):
			extra, err = ParseCSV(bytes.NewReader(att.Content))
		case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
			extra, err = parseXLSX(att.Content)
		case strings.HasSuffix(lower, ".pdf"):
			extra, err = parsePDF(att.Content)
		default:
			continue
		}
		if err != nil {
			continue
		}
		for i := range extra {
			if extra[i].Meta == nil {
				extra[i].Meta = map[string]any{}
			}
			extra[i].Meta["attachment"] = filename
		}
		rows = append(rows, extra...)
	}

	for i := range rows {
		rows[i].LineNo = i + 1
	}

	return rows, env.GetHeader("Subject"), env.Text, env.HTML, attachmentNames, nil
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	parts := strings.Split(text, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func findHeaderIndex(headers []string, probes []string) int {
	for i, h := range headers {
		for _, probe := range probes {
			if strings.Contains(h, probe) {
				return i
			}
		}
	}
	return -1
}

func pickCell(cells []string, idx int, fallback int) string {
	if idx >= 0 && idx < len(cells) {
		return strings.TrimSpace(cells[idx])
	}
	if fallback >= 0 && fallback < len(cells) {
		return strings.TrimSpace(cells[fallback])
	}
	return ""
}

func lowerAll(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		out = append(out, strings.ToLower(strings.TrimSpace(c)))
	}
	return out
}

func normalizeCells(row []string) []string {
	allEmpty := true
	out := make([]string, 0, len(row))
	for _, c := range row {
		norm := util.NormalizeSpaces(c)
		if norm != "" {
			allEmpty = false
		}
		out = append(out, norm)
	}
	if allEmpty {
		return nil
	}
	return out
}
