package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cricket-stats-game/internal/domain"
)

// DefaultImage is used when a row has no player image.
const DefaultImage = "https://images.pexels.com/photos/3621104/pexels-photo-3621104.jpeg?auto=compress&cs=tinysrgb&w=400"

// Column order: Date, playerName, playerImage, Country, Role, question, answer.
const (
	colDate = iota
	colName
	colImage
	colCountry
	colRole
	colQuestion
	colAnswer
	columnCount
)

// Row is one parsed sheet line. Player.ID is left empty; ids are assigned per date.
type Row struct {
	Date   string
	Player domain.PlayerRecord
}

// ParseCSV reads a sheet export. The first line is a header. Short rows and rows whose
// date cannot be normalised are skipped; rows that fail Usable are dropped.
func ParseCSV(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(record) < columnCount {
			continue
		}
		date := NormalizeDate(clean(record[colDate]))
		if date == "" {
			continue
		}
		player := domain.PlayerRecord{
			Name:     clean(record[colName]),
			Image:    clean(record[colImage]),
			Country:  clean(record[colCountry]),
			Role:     clean(record[colRole]),
			Question: clean(record[colQuestion]),
			Answer:   ParseAnswer(record[colAnswer]),
		}
		if player.Image == "" {
			player.Image = DefaultImage
		}
		if !Usable(player) {
			continue
		}
		rows = append(rows, Row{Date: date, Player: player})
	}
	return rows, nil
}

// Usable rejects rows with no name, no prompt, or a non-positive answer.
func Usable(p domain.PlayerRecord) bool {
	return p.Name != "" && p.Question != "" && p.Answer > 0
}

// RosterFor returns the players scheduled for date with 1-based ids in sheet order.
func RosterFor(rows []Row, date string) []domain.PlayerRecord {
	players := make([]domain.PlayerRecord, 0)
	for _, row := range rows {
		if row.Date != date {
			continue
		}
		p := row.Player
		p.ID = strconv.Itoa(len(players) + 1)
		players = append(players, p)
	}
	return players
}

// ParseAnswer strips quotes and thousands separators. Unparsable or non-finite values yield 0.
func ParseAnswer(raw string) float64 {
	cleaned := strings.ReplaceAll(clean(raw), ",", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return leadingFloat(cleaned)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// leadingFloat parses the numeric prefix, so "48.5*" reads as 48.5.
func leadingFloat(s string) float64 {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usDate    = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	dashedDMY = regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`)
)

var fallbackLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006/01/02",
	time.RFC3339,
}

// NormalizeDate converts YYYY-MM-DD, M/D/YYYY, D-M-YYYY and a few long forms to
// YYYY-MM-DD. It returns "" for anything else.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return ""
	case isoDate.MatchString(raw):
		return raw
	case usDate.MatchString(raw):
		parts := strings.Split(raw, "/")
		return fromParts(parts[2], parts[0], parts[1])
	case dashedDMY.MatchString(raw):
		parts := strings.Split(raw, "-")
		return fromParts(parts[2], parts[1], parts[0])
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return ""
}

func fromParts(year, month, day string) string {
	y, _ := strconv.Atoi(year)
	m, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC).Format(domain.DateLayout)
}

func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
