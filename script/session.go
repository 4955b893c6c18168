package script

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/tactics-script/codec"
	"github.com/wippyai/tactics-script/errors"
)

// DefaultUnsupported lists script files whose variant the decoder rejects.
var DefaultUnsupported = []string{"scene.bin"}

// Options configures how a script is opened.
type Options struct {
	// Input decodes the string pool. Defaults to Shift-JIS.
	Input *codec.Codec
	// Unsupported holds base names rejected on open, compared
	// case-insensitively. Nil means DefaultUnsupported.
	Unsupported []string
}

func (o Options) withDefaults() Options {
	if o.Input == nil {
		o.Input = codec.Default()
	}
	if o.Unsupported == nil {
		o.Unsupported = DefaultUnsupported
	}
	return o
}

// Session holds one decoded and validated script. The buffer, layout and
// references only change together, on a successful import.
type Session struct {
	refs     *RefTable
	input    *codec.Codec
	name     string
	data     []byte
	messages []Message
	stats    Stats
	layout   Layout
}

// Load reads and opens the script at path.
func Load(path string, opts Options) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IO(errors.PhaseLoad, path, err)
	}
	return Open(path, data, opts)
}

// Open decodes and validates data. name is used for the subtype check and
// in error messages.
func Open(name string, data []byte, opts Options) (*Session, error) {
	opts = opts.withDefaults()
	log := Logger().With(zap.String("file", name))

	base := filepath.Base(name)
	for _, u := range opts.Unsupported {
		if strings.EqualFold(base, u) {
			return nil, errors.UnsupportedSubtype(name, base)
		}
	}

	refs := NewRefTable()
	prog, err := Decode(data, refs)
	if err != nil {
		return nil, errors.WithFile(errors.PhaseDecode, err, name)
	}
	log.Debug("decoded code region",
		zap.Int("instructions", prog.Stats.Instructions),
		zap.Int("code_end", prog.Layout.CodeEnd),
		zap.Int("pool_start", prog.Layout.PoolStart),
		zap.Bool("terminated", prog.Layout.Terminated))

	if err := Validate(data, prog.Layout, refs, opts.Input); err != nil {
		return nil, errors.WithFile(errors.PhaseValidate, err, name)
	}
	log.Info("script loaded",
		zap.Int("references", refs.Len()),
		zap.Int("messages", len(prog.Messages)),
		zap.String("codec", opts.Input.Name()))

	return &Session{
		name:     name,
		data:     data,
		refs:     refs,
		input:    opts.Input,
		messages: prog.Messages,
		stats:    prog.Stats,
		layout:   prog.Layout,
	}, nil
}

// Name returns the name the session was opened with.
func (s *Session) Name() string { return s.name }

// Bytes returns the current script image. Callers must not modify it.
func (s *Session) Bytes() []byte { return s.data }

// Layout returns the code and pool boundaries of the current image.
func (s *Session) Layout() Layout { return s.layout }

// Stats returns instruction counts gathered while decoding.
func (s *Session) Stats() Stats { return s.stats }

// References returns copies of all references in discovery order.
func (s *Session) References() []Reference { return s.refs.Snapshot() }

// Reference returns the reference registered at slot.
func (s *Session) Reference(slot uint32) (Reference, bool) {
	r, ok := s.refs.Get(slot)
	if !ok {
		return Reference{}, false
	}
	return *r, true
}

// Messages returns the dialogue records in discovery order.
func (s *Session) Messages() []Message {
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Save writes the current image to path atomically.
func (s *Session) Save(path string) error {
	err := writeFileAtomic(path, func(w io.Writer) error {
		_, err := w.Write(s.data)
		return err
	})
	if err != nil {
		return errors.IO(errors.PhaseSave, path, err)
	}
	Logger().Info("script saved", zap.String("file", path), zap.Int("bytes", len(s.data)))
	return nil
}
