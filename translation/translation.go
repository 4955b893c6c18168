// Package translation reads and writes the line-oriented translation file.
//
// Each exported string occupies three lines:
//
//	◇0000002C◇original text
//	◆0000002C◆text to be translated
//	(blank)
//
// The id is the slot address of the string reference, as eight upper-case
// hex digits. Only ◆ lines are read back; everything else is ignored, so
// translators may keep notes on their own lines. Carriage returns and line
// feeds inside a string are written as the two-character escapes \r and \n.
package translation

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/wippyai/tactics-script/errors"
)

const (
	// SourceMarker prefixes the read-only copy of the original text.
	SourceMarker = "◇"
	// TranslationMarker prefixes the editable line read back on import.
	TranslationMarker = "◆"
)

const bom = "\uFEFF"

var linePattern = regexp.MustCompile(`^◆([0-9A-Fa-f]{8,})◆(.*)$`)

var (
	escaper   = strings.NewReplacer("\r", `\r`, "\n", `\n`)
	unescaper = strings.NewReplacer(`\r`, "\r", `\n`, "\n")
)

// Escape replaces CR and LF with their two-character escapes.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// Entry is one translated string read from a file.
type Entry struct {
	Text string
	ID   uint32
	Line int
}

// Writer emits translation records.
type Writer struct {
	w     *bufio.Writer
	count int
}

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits the source line, the translation line and a blank line for one string.
func (w *Writer) Write(id uint32, text string) error {
	esc := Escape(text)
	if _, err := fmt.Fprintf(w.w, "%s%08X%s%s\n", SourceMarker, id, SourceMarker, esc); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w.w, "%s%08X%s%s\n", TranslationMarker, id, TranslationMarker, esc); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	w.count++
	return nil
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// ParseLine parses a single translation line. ok is false for lines that
// are not translation lines and must be ignored.
func ParseLine(line string, lineNo int) (e Entry, ok bool, err error) {
	if !strings.HasPrefix(line, TranslationMarker) {
		return Entry{}, false, nil
	}

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, true, errors.BadLineFormat(lineNo, line)
	}

	id, perr := strconv.ParseUint(m[1], 16, 32)
	if perr != nil {
		return Entry{}, true, errors.New(errors.PhaseImport, errors.KindBadLineFormat).
			Line(lineNo).
			Value(line).
			Cause(perr).
			Detail("string id %s does not fit 32 bits", m[1]).
			Build()
	}

	return Entry{ID: uint32(id), Text: Unescape(m[2]), Line: lineNo}, true, nil
}

// Parse reads every translation line from r. Line numbers are 1-based.
// A UTF-8 byte order mark and CRLF line endings are accepted.
func Parse(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)
	var entries []Entry

	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.IO(errors.PhaseImport, "", err)
		}
		if line == "" && err == io.EOF {
			break
		}

		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, bom)
		}

		e, ok, perr := ParseLine(line, lineNo)
		if perr != nil {
			return nil, perr
		}
		if ok {
			entries = append(entries, e)
		}

		if err == io.EOF {
			break
		}
	}

	return entries, nil
}
