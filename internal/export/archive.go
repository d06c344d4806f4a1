package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/iksnae/cursor-chat-browser/internal"
)

// maxFileNameRunes bounds the title part of an archive entry name
const maxFileNameRunes = 120

// NamedFile is one entry of an export archive
type NamedFile struct {
	Name string
	Data []byte
}

// ArchiveName returns the download name of an archive built with exporter
func ArchiveName(exporter Exporter) string {
	return "cursor-logs." + exporter.Extension() + ".zip"
}

// FileName returns the file name of an exported tab: its title, or
// chat-<id> when the title is empty, with path separators and other
// characters unsafe in file names replaced.
func FileName(tab *internal.ChatTab, ext string) string {
	base := sanitizeFileName(tab.Title)
	if base == "" {
		base = sanitizeFileName("chat-" + tab.ID)
	}
	if base == "" {
		base = "chat"
	}
	return base + "." + ext
}

func sanitizeFileName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			sb.WriteRune('_')
		default:
			sb.WriteRune(r)
		}
	}

	cleaned := strings.Trim(strings.TrimSpace(sb.String()), ".")
	if runes := []rune(cleaned); len(runes) > maxFileNameRunes {
		cleaned = strings.TrimSpace(string(runes[:maxFileNameRunes]))
	}
	return cleaned
}

// CollectWorkspaceFiles exports the tabs of one workspace into archive
// entries below a folder named after the workspace. Tabs without bubbles or
// that fail to export are skipped. Colliding names get a numeric suffix.
func CollectWorkspaceFiles(workspaceID string, tabs []internal.ChatTab, exporter Exporter) []NamedFile {
	files := make([]NamedFile, 0, len(tabs))
	used := make(map[string]int, len(tabs))

	for i := range tabs {
		tab := &tabs[i]
		if len(tab.Bubbles) == 0 {
			internal.LogWarn("Skipping tab %s in workspace %s: no bubbles", tab.ID, workspaceID)
			continue
		}

		var buf bytes.Buffer
		if err := exporter.Export(tab, &buf); err != nil {
			internal.LogWarn("Skipping tab %s in workspace %s: %v", tab.ID, workspaceID, err)
			continue
		}

		name := uniqueName(FileName(tab, exporter.Extension()), used)
		files = append(files, NamedFile{
			Name: workspaceID + "/" + name,
			Data: buf.Bytes(),
		})
		internal.LogDebug("Added %s/%s", workspaceID, name)
	}

	return files
}

// uniqueName appends " (n)" before the extension when name was already used
func uniqueName(name string, used map[string]int) string {
	used[name]++
	n := used[name]
	if n == 1 {
		return name
	}

	stem, ext := name, ""
	if dot := strings.LastIndex(name, "."); dot > 0 {
		stem, ext = name[:dot], name[dot:]
	}
	candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
	if used[candidate] > 0 {
		return uniqueName(name, used)
	}
	used[candidate] = 1
	return candidate
}

// WriteArchive writes files into a zip archive on w
func WriteArchive(w io.Writer, files []NamedFile) error {
	zw := zip.NewWriter(w)
	for _, file := range files {
		fw, err := zw.Create(file.Name)
		if err != nil {
			_ = zw.Close()
			return &internal.ExportError{Format: "zip", Path: file.Name, Err: err}
		}
		if _, err := fw.Write(file.Data); err != nil {
			_ = zw.Close()
			return &internal.ExportError{Format: "zip", Path: file.Name, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return &internal.ExportError{Format: "zip", Err: err}
	}
	return nil
}
