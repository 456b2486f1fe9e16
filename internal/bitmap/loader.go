package bitmap

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/tech-kind/pix"
	"github.com/tech-kind/pix/workerpool"
)

// Loader reads and writes image files, logging every transfer.
type Loader struct {
	logger  logrus.FieldLogger
	options EncodeOptions
}

func NewLoader(logger logrus.FieldLogger, opts EncodeOptions) *Loader {
	return &Loader{logger: logger, options: opts}
}

// Load decodes the image file at path.
func (l *Loader) Load(path string) (*pix.Buffer[uint8], error) {
	l.logger.WithField("path", path).Debug("loading image")
	if _, err := FormatOf(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if err := pix.Validate(img); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d := img.Dims()
	l.logger.WithFields(logrus.Fields{
		"path":     path,
		"format":   format,
		"width":    d.Width,
		"height":   d.Height,
		"channels": d.Shape.Channels(),
	}).Info("image loaded")
	return img, nil
}

// Save encodes img to path in the format implied by its extension.
func (l *Loader) Save(pool *workerpool.Pool, path string, img pix.Image) (err error) {
	l.logger.WithField("path", path).Debug("saving image")
	format, err := FormatOf(path)
	if err != nil {
		return err
	} else if !format.Encodable() {
		return fmt.Errorf("%w: cannot encode %s", ErrUnsupportedFormat, format)
	}
	out, err := ToImage(pool, img)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := Encode(w, out, format, l.options); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	d := img.Dims()
	l.logger.WithFields(logrus.Fields{
		"path":     path,
		"format":   format,
		"width":    d.Width,
		"height":   d.Height,
		"channels": d.Shape.Channels(),
	}).Info("image saved")
	return nil
}
