package translation

import (
	"bytes"
	"strings"
	"testing"

	"github.com/wippyai/tactics-script/errors"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a\nb", `a\nb`},
		{"a\r\nb", `a\r\nb`},
		{"\n\n", `\n\n`},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got := Unescape(tt.want); got != tt.in {
			t.Errorf("Unescape(%q) = %q, want %q", tt.want, got, tt.in)
		}
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Write(0x2C, "line one\r\nline two"); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(0x1000, "名前"); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	want := "◇0000002C◇line one\\r\\nline two\n" +
		"◆0000002C◆line one\\r\\nline two\n" +
		"\n" +
		"◇00001000◇名前\n" +
		"◆00001000◆名前\n" +
		"\n"
	if buf.String() != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", buf.String(), want)
	}
	if w.Count() != 2 {
		t.Errorf("Count = %d, want 2", w.Count())
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		ok     bool
		id     uint32
		text   string
		badFmt bool
	}{
		{name: "translation", line: "◆00000010◆New Text", ok: true, id: 0x10, text: "New Text"},
		{name: "lower hex", line: "◆0000abcd◆x", ok: true, id: 0xABCD, text: "x"},
		{name: "long id", line: "◆000000000010◆x", ok: true, id: 0x10, text: "x"},
		{name: "escapes", line: `◆00000010◆a\nb`, ok: true, id: 0x10, text: "a\nb"},
		{name: "marker in text", line: "◆00000010◆a◆b", ok: true, id: 0x10, text: "a◆b"},
		{name: "empty text", line: "◆00000010◆", ok: true, id: 0x10, text: ""},
		{name: "source line", line: "◇00000010◇Old", ok: false},
		{name: "blank", line: "", ok: false},
		{name: "comment", line: "# note", ok: false},
		{name: "short id", line: "◆0010◆x", ok: true, badFmt: true},
		{name: "non hex id", line: "◆0000001G◆x", ok: true, badFmt: true},
		{name: "missing second marker", line: "◆00000010 x", ok: true, badFmt: true},
		{name: "overflow id", line: "◆100000000◆x", ok: true, badFmt: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok, err := ParseLine(tt.line, 9)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if tt.badFmt {
				if !errors.IsKind(err, errors.KindBadLineFormat) {
					t.Fatalf("expected bad_line_format, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !ok {
				return
			}
			if e.ID != tt.id || e.Text != tt.text || e.Line != 9 {
				t.Errorf("got %+v, want id %#x text %q line 9", e, tt.id, tt.text)
			}
		})
	}
}

func TestParse(t *testing.T) {
	in := "\uFEFF◇00000010◇Old\r\n" +
		"◆00000010◆New\r\n" +
		"\r\n" +
		"◇00000014◇Two\n" +
		"◆00000014◆Zwei\\nZeilen"

	entries, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}

	if entries[0].ID != 0x10 || entries[0].Text != "New" || entries[0].Line != 2 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].ID != 0x14 || entries[1].Text != "Zwei\nZeilen" || entries[1].Line != 5 {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func TestParseBOMOnTranslationLine(t *testing.T) {
	entries, err := Parse(strings.NewReader("\uFEFF◆00000004◆first\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != 4 {
		t.Errorf("entries = %+v", entries)
	}
}

func TestParseBadLineNumber(t *testing.T) {
	in := "◇00000010◇a\n◆00000010◆a\n\n◆zz◆b\n"
	_, err := Parse(strings.NewReader(in))
	if !errors.IsKind(err, errors.KindBadLineFormat) {
		t.Fatalf("expected bad_line_format, got %v", err)
	}

	var e *errors.Error
	if !asError(err, &e) || e.Line != 4 {
		t.Errorf("line = %v, want 4", err)
	}
}

func TestRoundTrip(t *testing.T) {
	texts := map[uint32]string{
		0x08: "CR\rLF\nboth\r\n",
		0x0C: "plain",
		0x10: "日本語のテキスト",
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	for _, id := range []uint32{0x08, 0x0C, 0x10} {
		if err := w.Write(id, texts[id]); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	entries, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != len(texts) {
		t.Fatalf("got %d entries, want %d", len(entries), len(texts))
	}
	for _, e := range entries {
		if e.Text != texts[e.ID] {
			t.Errorf("id %#x: got %q, want %q", e.ID, e.Text, texts[e.ID])
		}
	}
}

func asError(err error, target **errors.Error) bool {
	e, ok := err.(*errors.Error)
	if ok {
		*target = e
	}
	return ok
}
