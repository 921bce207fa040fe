package texture

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

var invalidFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]`)

// SanitizeFilename strips characters invalid in filenames and trims whitespace.
// Falls back to "image" if the result is empty.
func SanitizeFilename(name string) string {
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return "image"
	}
	return name
}

// SaveWebP writes img to dir as a lossless webp named after title. It refuses
// to overwrite an existing file and returns the path written.
func SaveWebP(img image.Image, dir, title string) (string, error) {
	dest := filepath.Join(dir, SanitizeFilename(title)+".webp")

	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("file %q already exists: %w", dest, os.ErrExist)
		}
		return "", fmt.Errorf("creating %s: %w", dest, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("encoding %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", dest, err)
	}
	return dest, nil
}
