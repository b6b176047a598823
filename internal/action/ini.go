package action

import (
	"bytes"
	"context"
	"fmt"
	"os"

	ini "gopkg.in/ini.v1"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/fsutil"
	"github.com/scourlabs/scour/internal/search"
)

// editIni removes a whole section, or one parameter within it, from
// an INI file. Every other section survives the rewrite. The file is
// written back only when something was actually removed, and keeps
// CRLF line endings when it had them.
func (d *Dispatcher) editIni(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	raw, err := os.ReadFile(fsutil.ExtendedPath(tgt.Path))
	if err != nil {
		return Effect{}, classify(err)
	}
	before := int64(len(raw))

	cfg, err := ini.LoadSources(ini.LoadOptions{}, raw)
	if err != nil {
		return Effect{}, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, tgt.Path, err)
	}

	changed := false
	if sec, serr := cfg.GetSection(act.Section); serr == nil {
		if act.Parameter == "" {
			cfg.DeleteSection(act.Section)
			changed = true
		} else if sec.HasKey(act.Parameter) {
			sec.DeleteKey(act.Parameter)
			changed = true
		}
	}
	if !changed {
		return Effect{}, nil // already absent
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return Effect{}, err
	}
	out := bytes.ReplaceAll(buf.Bytes(), []byte("\r\n"), []byte("\n"))
	if bytes.Contains(raw, []byte("\r\n")) {
		out = bytes.ReplaceAll(out, []byte("\n"), []byte("\r\n"))
	}

	if err := rewrite(tgt.Path, out); err != nil {
		return Effect{}, classify(err)
	}
	delta := before - int64(len(out))
	if delta < 0 {
		delta = 0
	}
	return Effect{Bytes: delta, Items: 1}, nil
}

// rewrite replaces a file's contents, preserving its permission bits.
func rewrite(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	return os.WriteFile(path, data, mode)
}
