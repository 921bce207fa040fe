package texture

import "strings"

var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".tga":  true,
}

// coverExts are audio containers whose embedded artwork is used as the
// texture.
var coverExts = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
}

// IsImageExt returns true if the extension is a decodable image format.
func IsImageExt(ext string) bool {
	return imageExts[strings.ToLower(ext)]
}

// IsCoverExt returns true if the extension is an audio file that can carry
// cover art.
func IsCoverExt(ext string) bool {
	return coverExts[strings.ToLower(ext)]
}

// IsSupportedExt returns true if a texture can be produced from the extension.
func IsSupportedExt(ext string) bool {
	return IsImageExt(ext) || IsCoverExt(ext)
}

// SupportedExtsList returns a human-readable list of supported formats.
func SupportedExtsList() string {
	return ".png, .jpg, .gif, .webp, .bmp, .tiff, .tga, .mp3, .flac, .ogg"
}
