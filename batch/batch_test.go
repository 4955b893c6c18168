package batch

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/multierr"

	"github.com/wippyai/tactics-script/config"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/script"
)

// dialogue builds a script holding one text instruction with the given
// display name and body. Name and voice are empty.
func dialogue(display, body string) []byte {
	var buf bytes.Buffer
	put := func(v uint32) { _ = binary.Write(&buf, binary.LittleEndian, v) }

	// text op, four slots, sentinel
	poolStart := uint32(4 + 16 + 4)
	dispOff := poolStart
	emptyOff := dispOff + align(len(display)+1)
	bodyOff := emptyOff + 4

	put(0x69)
	put(dispOff)
	put(emptyOff)
	put(emptyOff)
	put(bodyOff)
	put(0xFFED)
	for _, s := range []string{display, "", body} {
		buf.WriteString(s)
		buf.WriteByte(0)
		for buf.Len()%4 != 0 {
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

func align(n int) uint32 {
	return uint32((n + 3) &^ 3)
}

func settings(t *testing.T) Settings {
	t.Helper()
	s, err := FromConfig(config.Default())
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	return s
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.bin", "a.bin", "notes.txt"} {
		writeFile(t, filepath.Join(dir, name), nil)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.bin"), 0o755); err != nil {
		t.Fatal(err)
	}

	r := &Runner{Pattern: "*.bin"}
	files, err := r.Files(dir)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	want := []string{filepath.Join(dir, "a.bin"), filepath.Join(dir, "b.bin")}
	if len(files) != len(want) || files[0] != want[0] || files[1] != want[1] {
		t.Errorf("files = %v, want %v", files, want)
	}

	single := filepath.Join(dir, "notes.txt")
	files, err = r.Files(single)
	if err != nil || len(files) != 1 || files[0] != single {
		t.Errorf("Files(file) = %v, %v", files, err)
	}

	if _, err := r.Files(filepath.Join(dir, "missing")); !errors.IsKind(err, errors.KindIO) {
		t.Errorf("expected io, got %v", err)
	}
}

func TestRunContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.bin", "b.bin", "c.bin"} {
		writeFile(t, filepath.Join(dir, name), nil)
	}

	var seen []string
	r := &Runner{Pattern: "*.bin"}
	sum, err := r.Run(dir, func(file string) error {
		seen = append(seen, filepath.Base(file))
		if strings.HasPrefix(filepath.Base(file), "b") {
			return errors.InvalidInput(errors.PhaseLoad, "bad")
		}
		return nil
	})

	if sum.Total != 3 || sum.Failed != 1 {
		t.Errorf("summary = %+v", sum)
	}
	if len(seen) != 3 {
		t.Errorf("seen = %v", seen)
	}
	if len(multierr.Errors(err)) != 1 {
		t.Errorf("errors = %v", err)
	}
}

func TestExportAndRebuild(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ev01.bin")
	writeFile(t, src, dialogue("Alice", "Hello"))
	writeFile(t, filepath.Join(dir, "scene.bin"), dialogue("x", "y"))

	s := settings(t)
	r := &Runner{Pattern: "*.bin"}

	sum, err := r.Run(dir, func(f string) error { return Export(f, s) })
	if sum.Total != 2 || sum.Failed != 1 {
		t.Fatalf("export summary = %+v, err = %v", sum, err)
	}
	if !errors.IsKind(err, errors.KindUnsupportedSubtype) {
		t.Errorf("expected unsupported_subtype, got %v", err)
	}

	txt := filepath.Join(dir, "ev01.txt")
	raw, err := os.ReadFile(txt)
	if err != nil {
		t.Fatalf("translation file: %v", err)
	}
	edited := strings.Replace(string(raw), "◆00000010◆Hello", "◆00000010◆Good morning", 1)
	writeFile(t, txt, []byte(edited))

	if err := Rebuild(src, s); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	out := filepath.Join(dir, "rebuild", "ev01.bin")
	sess, err := script.Load(out, s.Options)
	if err != nil {
		t.Fatalf("load rebuilt: %v", err)
	}
	if ref, _ := sess.Reference(0x10); ref.Text != "Good morning" {
		t.Errorf("body = %q", ref.Text)
	}
	if ref, _ := sess.Reference(0x04); ref.Text != "Alice" {
		t.Errorf("display name = %q", ref.Text)
	}
}

func TestRebuildMissingTranslation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ev02.bin")
	writeFile(t, src, dialogue("Bob", "Hi"))

	err := Rebuild(src, settings(t))
	if !errors.IsKind(err, errors.KindIO) {
		t.Fatalf("expected io, got %v", err)
	}
	if _, statErr := os.Stat(OutputPath(src, "rebuild")); !os.IsNotExist(statErr) {
		t.Error("no output should be written")
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "ev03.bin")
	data := dialogue("Carol", "Hey")
	writeFile(t, src, data)

	rep, err := Inspect(src, settings(t))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if rep.References != 4 || rep.Messages != 1 || rep.Instructions != 1 {
		t.Errorf("report = %+v", rep)
	}
	if rep.Size != len(data) || rep.Layout.CodeEnd != 20 {
		t.Errorf("size = %d, layout = %+v", rep.Size, rep.Layout)
	}
	if len(rep.Opcodes) != 1 || rep.Opcodes[0].Name != "text" || rep.Opcodes[0].Count != 1 {
		t.Errorf("opcodes = %+v", rep.Opcodes)
	}
}

func TestInspectOpcodeOrder(t *testing.T) {
	var buf bytes.Buffer
	for _, v := range []uint32{0x05, 0x00, 0x00, 0x10, 0x10, 0x10, 0xFFED} {
		_ = binary.Write(&buf, binary.LittleEndian, v)
	}
	src := filepath.Join(t.TempDir(), "ev04.bin")
	writeFile(t, src, buf.Bytes())

	rep, err := Inspect(src, settings(t))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	want := []OpcodeCount{
		{Opcode: 0x10, Name: "add", Count: 3},
		{Opcode: 0x00, Name: "end", Count: 2},
		{Opcode: 0x05, Name: "ret", Count: 1},
	}
	if len(rep.Opcodes) != len(want) {
		t.Fatalf("opcodes = %+v", rep.Opcodes)
	}
	for i := range want {
		if rep.Opcodes[i] != want[i] {
			t.Errorf("opcode %d = %+v, want %+v", i, rep.Opcodes[i], want[i])
		}
	}
}

func TestPaths(t *testing.T) {
	if got := TextPath(filepath.Join("data", "ev01.bin")); got != filepath.Join("data", "ev01.txt") {
		t.Errorf("TextPath = %q", got)
	}
	if got := OutputPath(filepath.Join("data", "ev01.bin"), "out"); got != filepath.Join("data", "out", "ev01.bin") {
		t.Errorf("OutputPath = %q", got)
	}
}
