package tries

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/btree"
	pdebug "github.com/lestrrat-go/pdebug/v2"
	"github.com/pkg/errors"
)

// Scan enumerates the direct children of root and returns the snapshot the
// picker owns for the duration of one run. Dot-entries and non-directories
// are skipped; entries whose stat fails are silently dropped. The snapshot
// comes back in name order, which the picker's score sort uses as its
// deterministic base.
func Scan(ctx context.Context, root string) (_ []*Entry, err error) {
	if pdebug.Enabled {
		g := pdebug.Marker(ctx, "tries.Scan %s", root).BindError(&err)
		defer g.End()
	}

	dirents, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tries root %s", root)
	}

	tree := btree.NewG[*Entry](2, entryLess)
	for _, de := range dirents {
		name := de.Name()
		if name == "" || name[0] == '.' || !de.IsDir() {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			continue
		}
		tree.ReplaceOrInsert(&Entry{
			Name:  name,
			Path:  filepath.Join(root, name),
			Mtime: fi.ModTime(),
		})
	}

	snapshot := make([]*Entry, 0, tree.Len())
	tree.Ascend(func(e *Entry) bool {
		snapshot = append(snapshot, e)
		return true
	})
	return snapshot, nil
}
