package audio

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVContentType is the content type forwarded with raw WAV bytes
const WAVContentType = "audio/wav"

// DecodeWAV decodes a PCM WAV stream into a mono Buffer normalized into
// [-1, 1]. Multi-channel audio is mixed down by averaging.
func DecodeWAV(r io.ReadSeeker) (Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Buffer{}, fmt.Errorf("decode wav: not a valid PCM wav file")
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return Buffer{}, fmt.Errorf("decode wav: %w", err)
	}
	if pcm == nil || pcm.Format == nil {
		return Buffer{}, fmt.Errorf("decode wav: missing format")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = pcm.SourceBitDepth
	}

	b := Buffer{
		Samples:    mixDown(pcm, bitDepth),
		SampleRate: pcm.Format.SampleRate,
	}
	if err := b.Validate(); err != nil {
		return Buffer{}, fmt.Errorf("decode wav: %w", err)
	}
	return b, nil
}

// DecodeWAVBytes decodes an in-memory WAV file
func DecodeWAVBytes(data []byte) (Buffer, error) {
	return DecodeWAV(bytes.NewReader(data))
}

func mixDown(pcm *goaudio.IntBuffer, bitDepth int) []float64 {
	channels := pcm.Format.NumChannels
	if channels <= 0 {
		channels = 1
	}

	scale := fullScale(bitDepth)
	frames := len(pcm.Data) / channels
	out := make([]float64, frames)
	for f := 0; f < frames; f++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			v := float64(pcm.Data[f*channels+ch])
			if bitDepth == 8 {
				// 8-bit PCM is unsigned
				v -= 128
			}
			sum += v / scale
		}
		out[f] = clampSample(sum / float64(channels))
	}
	return out
}

func fullScale(bitDepth int) float64 {
	switch bitDepth {
	case 8:
		return 128
	case 24:
		return 8388608
	case 32:
		return 2147483648
	default:
		return 32768
	}
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
