package playback

import (
	"bytes"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/wav"
)

// bytesSource lets decoders seek within an in-memory file.
type bytesSource struct {
	*bytes.Reader
}

func (bytesSource) Close() error { return nil }

// decode picks a decoder from the location's extension, mp3 unless it is .wav.
func decode(data []byte, location string) (beep.StreamSeekCloser, beep.Format, error) {
	r := bytesSource{bytes.NewReader(data)}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
		err      error
	)
	switch audioExt(location) {
	case ".wav":
		streamer, format, err = wav.Decode(r)
	default:
		streamer, format, err = mp3.Decode(r)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode audio: %w", err)
	}
	return streamer, format, nil
}

func audioExt(location string) string {
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		return strings.ToLower(path.Ext(u.Path))
	}
	return strings.ToLower(path.Ext(location))
}
