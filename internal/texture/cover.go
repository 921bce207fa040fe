package texture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/jfreymuth/oggvorbis"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/meta"
)

// Picture type 3 is "Cover (front)" in both ID3v2 APIC and FLAC PICTURE.
const frontCover = 3

// coverArt returns the encoded image embedded in an audio file.
func coverArt(path, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".mp3":
		return coverMP3(path)
	case ".flac":
		return coverFLAC(path)
	case ".ogg":
		return coverOgg(path)
	}
	return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
}

func coverMP3(path string) ([]byte, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if err != nil {
		return nil, fmt.Errorf("reading id3 tag: %w", err)
	}
	defer tag.Close()

	var best []byte
	for _, f := range tag.GetFrames(tag.CommonID("Attached picture")) {
		pic, ok := f.(id3v2.PictureFrame)
		if !ok || len(pic.Picture) == 0 {
			continue
		}
		if pic.PictureType == frontCover {
			return pic.Picture, nil
		}
		if best == nil {
			best = pic.Picture
		}
	}
	if best == nil {
		return nil, ErrNoCoverArt
	}
	return best, nil
}

func coverFLAC(path string) ([]byte, error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing flac: %w", err)
	}
	defer stream.Close()

	var best []byte
	for _, block := range stream.Blocks {
		pic, ok := block.Body.(*meta.Picture)
		if !ok || len(pic.Data) == 0 {
			continue
		}
		if pic.Type == frontCover {
			return pic.Data, nil
		}
		if best == nil {
			best = pic.Data
		}
	}
	if best == nil {
		return nil, ErrNoCoverArt
	}
	return best, nil
}

func coverOgg(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := oggvorbis.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading ogg headers: %w", err)
	}
	return pictureFromComments(r.CommentHeader().Comments)
}

// pictureFromComments finds artwork in Vorbis comments. METADATA_BLOCK_PICTURE
// holds a base64 FLAC picture block; COVERART holds a bare base64 image.
func pictureFromComments(comments []string) ([]byte, error) {
	var legacy []byte
	for _, c := range comments {
		key, value, ok := strings.Cut(c, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(key) {
		case "METADATA_BLOCK_PICTURE":
			raw, err := base64.StdEncoding.DecodeString(value)
			if err != nil {
				continue
			}
			if data, err := parsePictureBlock(raw); err == nil {
				return data, nil
			}
		case "COVERART":
			if raw, err := base64.StdEncoding.DecodeString(value); err == nil && legacy == nil {
				legacy = raw
			}
		}
	}
	if legacy != nil {
		return legacy, nil
	}
	return nil, ErrNoCoverArt
}

// parsePictureBlock extracts the image bytes from a FLAC PICTURE block body,
// the payload of a METADATA_BLOCK_PICTURE comment. The body is prefixed with
// its block header so meta can parse it like one read from a stream.
func parsePictureBlock(body []byte) ([]byte, error) {
	n := len(body)
	if n >= 1<<24 {
		return nil, fmt.Errorf("picture block of %d bytes: %w", n, ErrNoCoverArt)
	}
	hdr := []byte{byte(meta.TypePicture), byte(n >> 16), byte(n >> 8), byte(n)}
	block, err := meta.Parse(io.MultiReader(bytes.NewReader(hdr), bytes.NewReader(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing picture block: %w", err)
	}
	pic, ok := block.Body.(*meta.Picture)
	if !ok || len(pic.Data) == 0 {
		return nil, ErrNoCoverArt
	}
	return pic.Data, nil
}
