package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iksnae/cursor-chat-browser/internal"
)

type stubResolver struct {
	results map[string]*internal.TabsResponse
	errs    map[string]error
	calls   []string
}

func (s *stubResolver) Resolve(ctx context.Context, workspaceID string) (*internal.TabsResponse, error) {
	s.calls = append(s.calls, workspaceID)
	if err := s.errs[workspaceID]; err != nil {
		return nil, err
	}
	if resp, ok := s.results[workspaceID]; ok {
		return resp, nil
	}
	return nil, internal.ErrNotFound
}

func TestCollectFiles(t *testing.T) {
	resolver := &stubResolver{
		results: map[string]*internal.TabsResponse{
			"ws1":   {Tabs: []internal.ChatTab{*internal.CreateTestTab("a")}},
			"empty": {Tabs: []internal.ChatTab{}},
			"ws2":   {Tabs: []internal.ChatTab{*internal.CreateTestTab("b"), *internal.CreateTestTab("c")}},
		},
		errs: map[string]error{
			"broken": &internal.StorageError{Path: "x", Op: "open", Err: errors.New("locked")},
		},
	}

	files, err := CollectFiles(context.Background(), resolver,
		[]string{"ws1", "missing", "empty", "broken", "ws2"}, &MarkdownExporter{Location: time.UTC})
	if err != nil {
		t.Fatalf("CollectFiles() error = %v", err)
	}

	wantNames := []string{
		"ws1/Test Conversation.md",
		"ws2/Test Conversation.md",
		"ws2/Test Conversation (2).md",
	}
	if len(files) != len(wantNames) {
		t.Fatalf("CollectFiles() returned %d files, want %d", len(files), len(wantNames))
	}
	for i, want := range wantNames {
		if files[i].Name != want {
			t.Errorf("files[%d].Name = %q, want %q", i, files[i].Name, want)
		}
	}
	if len(resolver.calls) != 5 {
		t.Errorf("resolver called %d times, want 5", len(resolver.calls))
	}
}

func TestCollectFiles_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := &stubResolver{}
	_, err := CollectFiles(ctx, resolver, []string{"ws1"}, &MarkdownExporter{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("CollectFiles() error = %v, want context.Canceled", err)
	}
	if len(resolver.calls) != 0 {
		t.Error("resolver should not be called after cancellation")
	}
}

func TestBatchExport(t *testing.T) {
	resolver := &stubResolver{
		results: map[string]*internal.TabsResponse{
			"ws1": {Tabs: []internal.ChatTab{*internal.CreateTestTab("a")}},
		},
	}

	var buf bytes.Buffer
	n, err := BatchExport(context.Background(), resolver, []string{"ws1"}, &HTMLExporter{Location: time.UTC}, &buf)
	if err != nil {
		t.Fatalf("BatchExport() error = %v", err)
	}
	if n != 1 {
		t.Errorf("BatchExport() = %d files, want 1", n)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("invalid zip: %v", err)
	}
	if zr.File[0].Name != "ws1/Test Conversation.html" {
		t.Errorf("entry name = %q", zr.File[0].Name)
	}
}

func TestBatchExport_NoFiles(t *testing.T) {
	var buf bytes.Buffer
	n, err := BatchExport(context.Background(), &stubResolver{}, []string{"ws1", "ws2"}, &MarkdownExporter{}, &buf)
	if !errors.Is(err, ErrNoFiles) {
		t.Errorf("BatchExport() error = %v, want ErrNoFiles", err)
	}
	if n != 0 || buf.Len() != 0 {
		t.Errorf("BatchExport() wrote %d files and %d bytes, want nothing", n, buf.Len())
	}
}
