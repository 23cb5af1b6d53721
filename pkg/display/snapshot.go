package display

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/dragoneye/pkg/frame"
	"github.com/tauraamui/dragoneye/pkg/log"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/bmp"
)

const DATE_FORMAT = "2006-01-02"
const DATE_AND_TIME_FORMAT = "2006-01-02 15.04.05.000000"

var Timestamp = func() time.Time {
	return time.Now()
}

// Snapshot writes every presented bitmap to a BMP file under
// <root>/<name>/<date>/. It is armed by capture requests, so it only ever
// sees the frames a user asked for.
type Snapshot struct {
	fs   afero.Fs
	root string
	name string
}

func NewSnapshot(fs afero.Fs, root, name string) *Snapshot {
	return &Snapshot{fs: fs, root: root, name: name}
}

func (s *Snapshot) Name() string { return s.name }

// FileName resolves the file a bitmap presented at ts is written to.
func (s *Snapshot) FileName(ts time.Time) string {
	return filepath.FromSlash(
		fmt.Sprintf(
			"%s/%s/%s/%s.bmp",
			s.root,
			s.name,
			ts.Format(DATE_FORMAT),
			ts.Format(DATE_AND_TIME_FORMAT)),
	)
}

func (s *Snapshot) Present(b *frame.Bitmap) error {
	img, err := b.Image()
	if err != nil {
		return xerror.Errorf("unable to snapshot [%s]: %w", s.name, err)
	}

	path := s.FileName(Timestamp())
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return xerror.Errorf("unable to create snapshot directory: %w", err)
	}

	file, err := s.fs.Create(path)
	if err != nil {
		return xerror.Errorf("unable to create snapshot file: %w", err)
	}
	defer file.Close()

	if err := bmp.Encode(file, img); err != nil {
		return xerror.Errorf("unable to encode snapshot: %w", err)
	}

	log.Info("Saved [%s] snapshot to %s", s.name, path)
	return nil
}
