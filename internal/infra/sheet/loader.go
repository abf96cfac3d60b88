package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"cricket-stats-game/internal/domain"
)

// Loader fetches a published sheet as CSV over HTTP and returns the roster for a date.
type Loader struct {
	client *http.Client
	url    string
}

func NewLoader(url string, timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (l *Loader) LoadRoster(ctx context.Context, date string) ([]domain.PlayerRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build sheet request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch sheet: unexpected status %d", resp.StatusCode)
	}
	return rosterFrom(resp.Body, date)
}

// FileLoader reads a sheet export from disk on every load.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadRoster(_ context.Context, date string) ([]domain.PlayerRecord, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()
	return rosterFrom(f, date)
}

// Rows returns every usable row in the file, for bulk import.
func (l *FileLoader) Rows() ([]Row, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open sheet: %w", err)
	}
	defer f.Close()
	return ParseCSV(f)
}

func rosterFrom(r io.Reader, date string) ([]domain.PlayerRecord, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	return RosterFor(rows, date), nil
}
