// package formatter renders normalized collections as JSON, CSV, Markdown or plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/scx/internal/models"
	"github.com/desertthunder/scx/internal/shared"
)

// Format is an output format name.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat accepts a format name or a common alias ("md", "text"). Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension for the format, without a dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return "md"
	case FormatText, FormatCSV:
		return string(f)
	default:
		return "json"
	}
}

var csvHeaders = []string{"ID", "Type", "Title", "Artist", "Duration", "Rating", "Permalink", "Artwork"}

// ToCSV writes one row per item. Browsable items leave duration and rating empty.
func ToCSV(items []models.Item) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		if err := writer.Write(csvRecord(item)); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func csvRecord(item models.Item) []string {
	id := strconv.FormatInt(item.ItemID(), 10)
	switch v := item.(type) {
	case *models.Playable:
		return []string{id, string(v.ItemType()), v.Title, v.Artist, shared.FormatDuration(v.DurationMS), v.Rating.String(), v.PermalinkURI, v.ArtworkURI}
	case *models.Browsable:
		return []string{id, string(v.Type), v.Title, v.Subtitle, "", "", "", v.ArtworkURI}
	default:
		return []string{id, string(item.ItemType()), item.Label(), item.Sublabel(), "", "", "", ""}
	}
}

// ToMarkdown renders a heading and a table of items.
func ToMarkdown(title string, items []models.Item) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "%d items\n\n", len(items))

	if len(items) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("| # | Title | Artist | Duration | Liked |\n")
	buf.WriteString("|---|-------|--------|----------|-------|\n")

	for i, item := range items {
		title, artist, duration, liked := escapeCell(item.Label()), escapeCell(item.Sublabel()), "", ""
		switch v := item.(type) {
		case *models.Playable:
			if v.PermalinkURI != "" {
				title = fmt.Sprintf("[%s](%s)", title, v.PermalinkURI)
			}
			artist = escapeCell(v.Artist)
			duration = shared.FormatDuration(v.DurationMS)
			if v.Rating.Known() {
				liked = map[bool]string{true: "♥", false: ""}[v.Liked()]
			}
		case *models.Browsable:
			title = fmt.Sprintf("%s (%s)", title, v.Type)
		}
		fmt.Fprintf(&buf, "| %d | %s | %s | %s | %s |\n", i+1, title, artist, duration, liked)
	}
	return buf.Bytes()
}

// ToText renders one line per item: "artist - title (m:ss)" for tracks, "title [type]" otherwise.
func ToText(items []models.Item) []byte {
	var buf bytes.Buffer
	for _, item := range items {
		buf.WriteString(TextLine(item))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// TextLine renders a single item the way [ToText] does.
func TextLine(item models.Item) string {
	switch v := item.(type) {
	case *models.Playable:
		line := fmt.Sprintf("%d\t%s - %s (%s)", v.ID, v.Artist, v.Title, shared.FormatDuration(v.DurationMS))
		if v.Liked() {
			line += " ♥"
		}
		return line
	case *models.Browsable:
		line := fmt.Sprintf("%d\t%s [%s]", v.ID, v.Title, v.Type)
		if v.Subtitle != "" {
			line += " " + v.Subtitle
		}
		return line
	default:
		return fmt.Sprintf("%d\t%s", item.ItemID(), item.Label())
	}
}

// Render encodes items in format. title is used as the Markdown heading.
func Render(format Format, title string, items []models.Item) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ToCSV(items)
	case FormatMarkdown:
		return ToMarkdown(title, items), nil
	case FormatText:
		return ToText(items), nil
	case FormatJSON, "":
		if items == nil {
			items = []models.Item{}
		}
		return shared.MarshalJSON(items, true)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteCollection renders items to "<dir>/<name>.<ext>" and returns the file path.
func WriteCollection(format Format, dir, name string, items []models.Item) (string, error) {
	data, err := Render(format, name, items)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("%s.%s", Slug(name), format.Extension()))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// WriteManifest writes v as indented JSON to path.
func WriteManifest(v any, path string) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Slug makes name safe to use as a file name.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "collection"
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
