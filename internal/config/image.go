package config

import (
	"fmt"
	"strings"
	"time"
)

type Image struct {
	Strategy     ImageStrategy `env:"IMAGE_STRATEGY" envDefault:"FILESYSTEM"`
	UploadDir    string        `env:"IMAGE_UPLOAD_DIR" envDefault:"uploads"`
	MaxSize      int64         `env:"IMAGE_MAX_SIZE" envDefault:"10485760"`
	MaxGallery   int           `env:"IMAGE_MAX_GALLERY" envDefault:"5"`
	WriteTimeout time.Duration `env:"IMAGE_WRITE_TIMEOUT" envDefault:"10s"`
}

// ImageStrategy selects how uploaded images are stored.
type ImageStrategy uint8

const (
	// ImageStrategyFilesystem writes uploads to a local directory served under /uploads/.
	ImageStrategyFilesystem ImageStrategy = iota
	// ImageStrategyInline embeds uploads in the record as data URIs.
	ImageStrategyInline
)

func (s ImageStrategy) String() string {
	switch s {
	case ImageStrategyFilesystem:
		return "FILESYSTEM"
	case ImageStrategyInline:
		return "INLINE"
	default:
		return fmt.Sprintf("ImageStrategy(%d)", uint8(s))
	}
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (s *ImageStrategy) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "FILESYSTEM", "FS":
		*s = ImageStrategyFilesystem
	case "INLINE", "BASE64":
		*s = ImageStrategyInline
	default:
		return fmt.Errorf("unknown image strategy: %s", text)
	}
	return nil
}

func (s ImageStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
