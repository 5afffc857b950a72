package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one decoded folio log line.
type Record struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   map[string]any
	// Raw holds the undecoded line when it is not a JSON record.
	Raw string
}

// Read returns the last maxLines lines of the file at path, oldest first.
// A missing file yields no lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	next, count := 0, 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		count = min(count+1, maxLines)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < maxLines {
		return append([]string(nil), ring[:count]...), nil
	}
	return append(append([]string(nil), ring[next:]...), ring[:next]...), nil
}

// Parse decodes a JSON log line written by the logging package. Lines that
// are not JSON come back with only Raw set and level info.
func Parse(line string) Record {
	var fields map[string]any
	if err := json.UnmarshalFromString(line, &fields); err != nil {
		return Record{Raw: line, Level: slog.LevelInfo}
	}

	rec := Record{Attrs: make(map[string]any, len(fields))}
	for k, v := range fields {
		switch k {
		case slog.TimeKey:
			if s, ok := v.(string); ok {
				rec.Time, _ = time.Parse(time.RFC3339Nano, s)
			}
		case slog.LevelKey:
			if s, ok := v.(string); ok {
				_ = rec.Level.UnmarshalText([]byte(s))
			}
		case slog.MessageKey:
			rec.Message, _ = v.(string)
		case "app":
		default:
			rec.Attrs[k] = v
		}
	}
	return rec
}

// Tail reads the last maxLines records at or above minLevel.
func Tail(path string, maxLines int, minLevel slog.Level) ([]Record, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec := Parse(line)
		if rec.Raw == "" && rec.Level < minLevel {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Format renders a record as "2006-01-02 15:04:05 LEVEL message key=value"
// with attributes sorted by key.
func Format(rec Record) string {
	if rec.Raw != "" {
		return rec.Raw
	}
	var b strings.Builder
	if !rec.Time.IsZero() {
		b.WriteString(rec.Time.Local().Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%-5s %s", rec.Level.String(), rec.Message)

	keys := make([]string, 0, len(rec.Attrs))
	for k := range rec.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, rec.Attrs[k])
	}
	return b.String()
}
