package script

import (
	"github.com/wippyai/tactics-script/codec"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/script/internal/binary"
)

// ScanPool reads every NUL-terminated string from poolStart to the end of
// data and returns the distinct non-empty ones in pool order.
func ScanPool(data []byte, poolStart int, c *codec.Codec) ([]string, error) {
	r := binary.NewReader(data)
	if err := r.Reset(poolStart); err != nil {
		return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			At(poolStart).
			Cause(err).
			Detail("pool start outside data").
			Build()
	}

	seen := make(map[string]struct{})
	var out []string
	for r.Remaining() > 0 {
		pos := r.Position()
		raw, err := r.ReadCString()
		if err != nil {
			return nil, errors.New(errors.PhaseValidate, errors.KindTruncated).
				At(pos).
				Cause(err).
				Detail("pool string without terminator").
				Build()
		}
		if len(raw) == 0 {
			continue
		}
		s, err := c.Decode(raw)
		if err != nil {
			return nil, errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				At(pos).
				Cause(err).
				Detail("pool string cannot be decoded as %s", c.Name()).
				Build()
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
