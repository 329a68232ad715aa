package redaction

import (
	"context"
	"errors"
	"image"
	"testing"
)

type spanDetector struct {
	find func(text string) []span
	err  error
	seen []string
}

func (d *spanDetector) findText(_ context.Context, text string) ([]span, error) {
	d.seen = append(d.seen, text)
	if d.err != nil {
		return nil, d.err
	}
	return d.find(text), nil
}

func (d *spanDetector) redactImage(_ context.Context, img image.Image) (image.Image, int, error) {
	return img, 0, nil
}

func TestScanRuns(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "literal", content: "BT (Hello) Tj ET", want: []string{"Hello"}},
		{name: "nested parens", content: "(a (b) c) Tj", want: []string{"a (b) c"}},
		{name: "escapes", content: `(tab\there \(x\) \\ \101) Tj`, want: []string{"tab\there (x) \\ A"}},
		{name: "line continuation", content: "(split\\\nline) Tj", want: []string{"splitline"}},
		{name: "hex", content: "<48 65 6C6C6F> Tj", want: []string{"Hello"}},
		{name: "odd hex", content: "<4> Tj", want: []string{"@"}},
		{name: "dict skipped", content: "/P << /MCID 0 >> BDC (x) Tj EMC", want: []string{"x"}},
		{name: "comment skipped", content: "% (not text)\n(text) Tj", want: []string{"text"}},
		{name: "array operands", content: "[(A) -120 (B)] TJ", want: []string{"A", "B"}},
		{name: "inline image skipped", content: "BI /W 1 /H 1 ID (\xff) EI (after) Tj", want: []string{"after"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runs := scanRuns([]byte(tt.content))
			if len(runs) != len(tt.want) {
				t.Fatalf("runs: got %d, want %d", len(runs), len(tt.want))
			}
			for i, r := range runs {
				if string(r.text) != tt.want[i] {
					t.Errorf("run %d: got %q, want %q", i, r.text, tt.want[i])
				}
			}
		})
	}
}

func TestMaskContentAcrossRuns(t *testing.T) {
	content := []byte("BT [(SSN 123-4) 20 (5-6789)] TJ (Paren \\( kept) Tj ET")
	det := &spanDetector{find: func(string) []span {
		// "SSN 123-4\n5-6789\n": the SSN starts at 4 and spans the run break.
		return []span{{start: 4, end: 16}}
	}}

	got, n, err := maskContent(context.Background(), content, det)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if n != 1 {
		t.Errorf("findings: got %d, want 1", n)
	}
	if det.seen[0] != "SSN 123-4\n5-6789\nParen ( kept\n" {
		t.Errorf("inspected text: got %q", det.seen[0])
	}

	want := "BT [(SSN XXXXX) 20 (XXXXXX)] TJ (Paren \\( kept) Tj ET"
	if string(got) != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestMaskContentHexAndOutOfRange(t *testing.T) {
	content := []byte("<414243> Tj")
	det := &spanDetector{find: func(string) []span {
		return []span{{start: 1, end: 100}, {start: -5, end: 0}}
	}}

	got, _, err := maskContent(context.Background(), content, det)
	if err != nil {
		t.Fatalf("mask: %v", err)
	}
	if string(got) != "<415858> Tj" {
		t.Errorf("got %q", got)
	}
}

func TestMaskContentWithoutFindings(t *testing.T) {
	content := []byte("(nothing here) Tj")
	det := &spanDetector{find: func(string) []span { return nil }}

	got, n, err := maskContent(context.Background(), content, det)
	if err != nil || n != 0 {
		t.Fatalf("got n=%d err=%v", n, err)
	}
	if &got[0] != &content[0] {
		t.Error("content copied without findings")
	}
}

func TestMaskContentDetectorError(t *testing.T) {
	boom := errors.New("boom")
	det := &spanDetector{err: boom}

	if _, _, err := maskContent(context.Background(), []byte("(x) Tj"), det); !errors.Is(err, boom) {
		t.Errorf("got %v, want boom", err)
	}
}

func TestWriteLiteralEscapes(t *testing.T) {
	runs := []textRun{{start: 0, end: 3, text: []byte("a(\\)\x01"), changed: true}}
	got := rewrite([]byte("(x) Tj"), runs)
	if string(got) != `(a\(\\\)\001) Tj` {
		t.Errorf("got %q", got)
	}
}
