package script

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/translation"
)

// ExportMode selects which references are written to a translation file.
type ExportMode int

const (
	// ExportMessages writes the display name and body of each dialogue line.
	ExportMessages ExportMode = iota
	// ExportAll writes every reference with non-empty text.
	ExportAll
)

func (m ExportMode) String() string {
	switch m {
	case ExportMessages:
		return "messages"
	case ExportAll:
		return "all"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseExportMode parses "messages" or "all".
func ParseExportMode(s string) (ExportMode, error) {
	switch s {
	case "messages":
		return ExportMessages, nil
	case "all":
		return ExportAll, nil
	}
	return 0, errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf("unknown export mode %q", s))
}

// selection returns the references to export in output order.
func (s *Session) selection(mode ExportMode) ([]Reference, error) {
	if s.refs.Len() == 0 {
		return nil, errors.NoReferences()
	}

	var out []Reference
	switch mode {
	case ExportAll:
		for i := 0; i < s.refs.Len(); i++ {
			if r := s.refs.At(i); r.Text != "" {
				out = append(out, *r)
			}
		}

	case ExportMessages:
		if len(s.messages) == 0 {
			return nil, errors.NoMessages()
		}
		for _, m := range s.messages {
			for _, slot := range []uint32{m.DisplayName, m.Body} {
				r, ok := s.refs.Get(slot)
				if ok && r.Text != "" {
					out = append(out, *r)
				}
			}
		}

	default:
		return nil, errors.InvalidInput(errors.PhaseExport, fmt.Sprintf("unknown export mode %d", int(mode)))
	}
	return out, nil
}

// WriteText writes the selected references to w in translation file format.
func (s *Session) WriteText(w io.Writer, mode ExportMode) error {
	refs, err := s.selection(mode)
	if err != nil {
		return errors.WithFile(errors.PhaseExport, err, s.name)
	}
	if _, err := s.write(w, refs); err != nil {
		return errors.IO(errors.PhaseExport, s.name, err)
	}
	return nil
}

func (s *Session) write(w io.Writer, refs []Reference) (int, error) {
	tw := translation.NewWriter(w)
	for _, r := range refs {
		if err := tw.Write(r.Slot, r.Text); err != nil {
			return 0, err
		}
	}
	if err := tw.Flush(); err != nil {
		return 0, err
	}
	return tw.Count(), nil
}

// ExportText writes the translation file for this script to path. Nothing
// is created when there is nothing to export.
func (s *Session) ExportText(path string, mode ExportMode) error {
	refs, err := s.selection(mode)
	if err != nil {
		return errors.WithFile(errors.PhaseExport, err, s.name)
	}

	var n int
	err = writeFileAtomic(path, func(w io.Writer) error {
		var werr error
		n, werr = s.write(w, refs)
		return werr
	})
	if err != nil {
		return errors.IO(errors.PhaseExport, path, err)
	}

	Logger().Info("translation exported",
		zap.String("file", s.name),
		zap.String("output", path),
		zap.Stringer("mode", mode),
		zap.Int("strings", n))
	return nil
}
