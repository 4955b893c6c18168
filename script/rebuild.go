package script

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/tactics-script/codec"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/opcode"
	"github.com/wippyai/tactics-script/script/internal/binary"
	"github.com/wippyai/tactics-script/translation"
)

// Image is a rebuilt script: the new buffer, its layout and the references
// with their new targets.
type Image struct {
	Data   []byte
	Refs   []Reference
	Layout Layout
	// PoolStrings is the number of distinct strings written to the pool.
	PoolStrings int
}

// Rebuild copies the code region of data, appends the sentinel and a fresh
// string pool holding the Text of refs, then patches every slot. Identical
// strings share one pool entry. Each entry is NUL-terminated and padded to
// a multiple of 4 bytes. data is not modified.
func Rebuild(data []byte, layout Layout, refs []Reference, out *codec.Codec) (*Image, error) {
	if layout.CodeEnd < 0 || layout.CodeEnd > len(data) {
		return nil, errors.InvalidInput(errors.PhaseRebuild,
			fmt.Sprintf("code end 0x%08X outside data of %d bytes", layout.CodeEnd, len(data)))
	}

	w := binary.NewWriter(len(data) + 4)
	w.WriteBytes(data[:layout.CodeEnd])
	w.WriteU32LE(opcode.Sentinel)
	poolStart := w.Len()

	pool := make(map[string]uint32, len(refs))
	next := make([]Reference, len(refs))
	for i, r := range refs {
		off, ok := pool[r.Text]
		if !ok {
			enc, err := out.Encode(r.Text)
			if err != nil {
				return nil, errors.Unencodable(r.Slot, out.Name(), err)
			}
			if bytes.IndexByte(enc, 0) >= 0 {
				return nil, errors.Unencodable(r.Slot, out.Name(), fmt.Errorf("text contains a NUL byte"))
			}
			off = uint32(w.Len())
			w.WriteCString(enc)
			w.Align(4)
			pool[r.Text] = off
		}
		r.Target = off
		next[i] = r
	}

	for _, r := range next {
		if err := w.PutU32LE(int(r.Slot), r.Target); err != nil {
			return nil, errors.New(errors.PhaseRebuild, errors.KindInvalidInput).
				At(int(r.Slot)).
				Cause(err).
				Detail("string slot outside code region").
				Build()
		}
	}

	return &Image{
		Data: w.Bytes(),
		Refs: next,
		Layout: Layout{
			CodeEnd:    layout.CodeEnd,
			PoolStart:  poolStart,
			Terminator: opcode.Sentinel,
			Terminated: true,
		},
		PoolStrings: len(pool),
	}, nil
}

// ImportText reads the translation file at path and rebuilds the script
// with its strings encoded by out.
func (s *Session) ImportText(path string, out *codec.Codec) error {
	if s.refs.Len() == 0 {
		Logger().Info("script has no strings, import skipped", zap.String("file", s.name))
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.IO(errors.PhaseImport, path, err)
	}
	defer f.Close()

	return errors.WithFile(errors.PhaseImport, s.ApplyText(f, out), path)
}

// ApplyText reads translation lines from r and rebuilds the script. The
// whole input is parsed and checked first; on any error the session is
// left unchanged. A later line for the same id replaces an earlier one.
func (s *Session) ApplyText(r io.Reader, out *codec.Codec) error {
	log := Logger().With(zap.String("file", s.name))
	if s.refs.Len() == 0 {
		log.Info("script has no strings, import skipped")
		return nil
	}
	if out == nil {
		out = s.input
	}

	entries, err := translation.Parse(r)
	if err != nil {
		return err
	}

	texts := make(map[uint32]string, len(entries))
	for _, e := range entries {
		if _, ok := s.refs.Get(e.ID); !ok {
			return errors.UnknownReferenceID(e.Line, e.ID)
		}
		texts[e.ID] = e.Text
	}
	log.Debug("translation parsed", zap.Int("lines", len(entries)), zap.Int("strings", len(texts)))

	refs := s.refs.Snapshot()
	for i := range refs {
		if t, ok := texts[refs[i].Slot]; ok {
			refs[i].Text = t
		}
	}

	img, err := Rebuild(s.data, s.layout, refs, out)
	if err != nil {
		return errors.WithFile(errors.PhaseRebuild, err, s.name)
	}
	s.commit(img, out)

	log.Info("script rebuilt",
		zap.Int("translated", len(texts)),
		zap.Int("pool_strings", img.PoolStrings),
		zap.Int("bytes", len(img.Data)),
		zap.String("codec", out.Name()))
	return nil
}

func (s *Session) commit(img *Image, out *codec.Codec) {
	refs := NewRefTable()
	for _, r := range img.Refs {
		// Slots are unique in the source table.
		_ = refs.Add(r)
	}
	s.data = img.Data
	s.layout = img.Layout
	s.refs = refs
	s.input = out
}
