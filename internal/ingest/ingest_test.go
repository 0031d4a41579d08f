package ingest

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/pdftext"
)

func fakeExtract(pages map[string][]pdftext.Page) ExtractFunc {
	return func(data []byte) ([]pdftext.Page, error) {
		got, ok := pages[string(data)]
		if !ok {
			return nil, errors.New("unreadable")
		}
		return got, nil
	}
}

func TestIngest_TagsAndMetadata(t *testing.T) {
	ing := New(zap.NewNop())
	ing.extract = fakeExtract(map[string][]pdftext.Page{
		"a": {
			{Index: 0, Text: "Revenue was 100 MSEK."},
			{Index: 1, Text: "Profit was 20 MSEK."},
		},
		"b": {
			{Index: 0, Text: "Assets totalled 500 MSEK."},
		},
	})

	chunks := ing.Ingest([]File{
		{Name: "/uploads/A.pdf", Data: []byte("a")},
		{Name: "B.pdf", Data: []byte("b")},
	})

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	for _, c := range chunks {
		wantPrefix := fmt.Sprintf("[Page %d] ", c.Page+1)
		if !strings.HasPrefix(c.Content, wantPrefix) {
			t.Errorf("chunk content %q missing prefix %q", c.Content, wantPrefix)
		}
	}

	if chunks[0].Source != "A.pdf" {
		t.Errorf("expected path-stripped source A.pdf, got %q", chunks[0].Source)
	}
	if chunks[0].Page != 0 || chunks[1].Page != 1 {
		t.Errorf("unexpected pages: %d, %d", chunks[0].Page, chunks[1].Page)
	}
	if chunks[2].Source != "B.pdf" || chunks[2].Page != 0 {
		t.Errorf("unexpected chunk for B.pdf: %+v", chunks[2])
	}
}

func TestIngest_SkipsUnreadableFile(t *testing.T) {
	ing := New(zap.NewNop())
	ing.extract = fakeExtract(map[string][]pdftext.Page{
		"ok": {{Index: 0, Text: "Something readable."}},
	})

	chunks := ing.Ingest([]File{
		{Name: "broken.pdf", Data: []byte("garbage")},
		{Name: "fine.pdf", Data: []byte("ok")},
	})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk from the readable file, got %d", len(chunks))
	}
	if chunks[0].Source != "fine.pdf" {
		t.Errorf("unexpected source %q", chunks[0].Source)
	}
}

func TestIngest_EmptyPagesYieldNothing(t *testing.T) {
	ing := New(zap.NewNop())
	ing.extract = fakeExtract(map[string][]pdftext.Page{
		"scan": {{Index: 0, Text: ""}, {Index: 1, Text: "   \n"}},
	})

	chunks := ing.Ingest([]File{{Name: "scanned.pdf", Data: []byte("scan")}})
	if len(chunks) != 0 {
		t.Fatalf("expected no chunks from a text-free file, got %d", len(chunks))
	}
}

func TestIngest_LongPageSplitsIntoOverlappingChunks(t *testing.T) {
	ing := New(zap.NewNop())
	long := strings.Repeat("The quarterly figures improved across segments. ", 60)
	ing.extract = fakeExtract(map[string][]pdftext.Page{
		"long": {{Index: 2, Text: long}},
	})

	chunks := ing.Ingest([]File{{Name: "report.pdf", Data: []byte("long")}})
	if len(chunks) < 2 {
		t.Fatalf("expected the page to split into several chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if !strings.HasPrefix(c.Content, "[Page 3] ") {
			t.Errorf("every chunk of page index 2 should be tagged [Page 3], got %q", c.Content[:20])
		}
		if c.Page != 2 {
			t.Errorf("expected zero-based page 2, got %d", c.Page)
		}
	}
}
