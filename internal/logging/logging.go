// Package logging provides the console logger and the per-run activity journal.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Event is one journal line describing an effective task mutation.
type Event struct {
	Time      time.Time `json:"time"`
	Op        string    `json:"op"`
	ID        int       `json:"id"`
	Text      string    `json:"text,omitempty"`
	Priority  string    `json:"priority,omitempty"`
	Completed bool      `json:"completed"`
}

// Journal appends events to a per-run JSONL file.
type Journal struct {
	Dir     string
	RunID   string
	LogPath string

	mu   sync.Mutex
	file *os.File
}

// NewJournal creates dir if needed and opens a fresh JSONL file for this run.
func NewJournal(dir string) (*Journal, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("journal dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	runID := runID()
	logPath := filepath.Join(dir, fmt.Sprintf("%s.jsonl", runID))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("create journal file: %w", err)
	}

	return &Journal{
		Dir:     dir,
		RunID:   runID,
		LogPath: logPath,
		file:    file,
	}, nil
}

// Record writes event as a single JSON line.
func (j *Journal) Record(event Event) error {
	if j == nil || j.file == nil {
		return nil
	}
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal journal event: %w", err)
	}
	data = append(data, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.file.Write(data); err != nil {
		return fmt.Errorf("write journal event: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	err := j.file.Close()
	j.file = nil
	return err
}

func runID() string {
	return fmt.Sprintf("%s-%d", time.Now().UTC().Format("20060102-150405"), os.Getpid())
}

// FindLatest finds the most recently modified journal file in dir.
// It returns "" when dir is missing or holds no journals.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read journal dir: %w", err)
	}

	var latest string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if latest == "" || info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(dir, name)
		}
	}

	return latest, nil
}

// Tail copies the journal at path to w, optionally following new lines until
// ctx is done.
func Tail(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// tailSeek positions file at the start of the last n lines.
func tailSeek(file *os.File, n int) error {
	const chunk = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()

	// A trailing newline ends the last line rather than starting a new one.
	lines := 0
	offset := size
	buf := make([]byte, chunk)
	for offset > 0 {
		readSize := int64(chunk)
		if offset < readSize {
			readSize = offset
		}
		offset -= readSize
		if _, err := file.ReadAt(buf[:readSize], offset); err != nil && err != io.EOF {
			return err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' || offset+i == size-1 {
				continue
			}
			lines++
			if lines == n {
				_, err := file.Seek(offset+i+1, io.SeekStart)
				return err
			}
		}
	}

	_, err = file.Seek(0, io.SeekStart)
	return err
}
