package corpus

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/treatyrag/internal/core/domain"
)

const (
	sectionPrefix = "Section "
	chapterPrefix = "Chapter "
	minSegments   = 3
)

// recordNamespace scopes the name-based record IDs.
var recordNamespace = uuid.MustParse("6f1c9a52-3b0e-5d84-9a7e-2c4b1f8d0e31")

var (
	adoptedRe = regexp.MustCompile(`(?i)Adopted\s+(.+?)(?:,\s*entered\b|;|$)`)
	inForceRe = regexp.MustCompile(`(?i)entered into force\s+(.+?)(?:;|$)`)
	labelRe   = regexp.MustCompile(`(?i)^(Parties|Description)\s*:\s*`)
)

// Parse reads corpus text into records.
// It never fails: malformed lines are dropped and listed in the report.
// Parsing the same text twice yields identical records, IDs included.
func Parse(text string) ([]domain.TreatyRecord, domain.ParseReport) {
	lines := strings.Split(text, "\n")
	report := domain.ParseReport{TotalLines: len(lines)}
	records := make([]domain.TreatyRecord, 0, len(lines)/2)

	section := ""
	for i, raw := range lines {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, sectionPrefix):
			section = strings.TrimSpace(strings.TrimPrefix(line, sectionPrefix))
			continue
		case strings.HasPrefix(line, chapterPrefix), !strings.Contains(line, ":"):
			continue
		}

		rec, err := parseRecord(line, lineNo, section)
		if err != nil {
			report.Skipped++
			report.Warnings = append(report.Warnings, domain.ParseWarning{Line: lineNo, Reason: err.Error()})
			continue
		}
		records = append(records, rec)
	}

	report.Records = len(records)
	return records, report
}

func parseRecord(line string, lineNo int, section string) (domain.TreatyRecord, error) {
	segments := strings.Split(line, ";")
	if len(segments) < minSegments {
		return domain.TreatyRecord{}, fmt.Errorf("expected at least %d ';'-separated segments, got %d", minSegments, len(segments))
	}

	head := strings.TrimSpace(segments[0])
	colon := strings.Index(head, ":")
	if colon <= 0 {
		return domain.TreatyRecord{}, fmt.Errorf("no title before ':'")
	}
	title := strings.TrimSpace(head[:colon])

	description := make([]string, 0, len(segments)-2)
	for _, seg := range segments[2:] {
		description = append(description, stripLabel(seg))
	}

	return domain.TreatyRecord{
		ID:                 uuid.NewSHA1(recordNamespace, []byte(fmt.Sprintf("%d\x00%s", lineNo, line))).String(),
		Section:            section,
		Title:              title,
		AdoptionDate:       extractDate(adoptedRe, head),
		EntryIntoForceDate: extractDate(inForceRe, head),
		Parties:            stripLabel(segments[1]),
		Description:        strings.Join(description, "; "),
		FullText:           line,
	}, nil
}

func stripLabel(s string) string {
	return strings.TrimSpace(labelRe.ReplaceAllString(strings.TrimSpace(s), ""))
}

func extractDate(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return domain.UnknownDate
	}
	date := strings.Trim(strings.TrimSpace(m[1]), ",.")
	if date == "" {
		return domain.UnknownDate
	}
	return date
}

// LoadFile reads and parses a corpus file.
// I/O errors are returned; parse problems only show up in the report.
func LoadFile(path string) ([]domain.TreatyRecord, domain.ParseReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ParseReport{}, fmt.Errorf("read corpus %s: %w", path, err)
	}
	records, report := Parse(string(data))
	return records, report, nil
}
