package action

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/scourlabs/scour/internal/catalog"
	"github.com/scourlabs/scour/internal/fsutil"
	"github.com/scourlabs/scour/internal/search"
)

// editJSON removes the /-separated key path named by the action's
// address from a JSON document. A missing intermediate or leaf key
// succeeds without touching the file.
func (d *Dispatcher) editJSON(ctx context.Context, act catalog.Action, tgt search.Target) (Effect, error) {
	raw, err := os.ReadFile(fsutil.ExtendedPath(tgt.Path))
	if err != nil {
		return Effect{}, classify(err)
	}
	before := int64(len(raw))

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Effect{}, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, tgt.Path, err)
	}

	keys := strings.Split(strings.Trim(act.Address, "/"), "/")
	node := doc
	for _, k := range keys[:len(keys)-1] {
		child, ok := node[k].(map[string]any)
		if !ok {
			return Effect{}, nil // path absent already
		}
		node = child
	}
	leaf := keys[len(keys)-1]
	if _, ok := node[leaf]; !ok {
		return Effect{}, nil
	}
	delete(node, leaf)

	out, err := json.Marshal(doc)
	if err != nil {
		return Effect{}, err
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
