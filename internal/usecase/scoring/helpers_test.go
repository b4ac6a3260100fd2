package scoring

import (
	"math"

	"github.com/johnquangdev/speech-coach/pkg/audio"
)

const testRate = 8000

// periodTable is one period of a unit sine. Signals are built from it so that
// equal windows are bit-identical and never form spurious local maxima.
func periodTable(freq float64) []float64 {
	period := int(testRate / freq)
	table := make([]float64, period)
	for i := range table {
		table[i] = math.Sin(2 * math.Pi * float64(i) / float64(period))
	}
	return table
}

func tone(n int, freq, amp float64) []float64 {
	table := periodTable(freq)
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * table[i%len(table)]
	}
	return out
}

// overwrite replaces samples [from, from+n) with a phase-aligned tone
func overwrite(samples []float64, from, n int, freq, amp float64) {
	table := periodTable(freq)
	for i := from; i < from+n && i < len(samples); i++ {
		samples[i] = amp * table[i%len(table)]
	}
}

func seconds(s float64) int {
	return audio.SamplesFor(testRate, s)
}

func buffer(samples []float64) audio.Buffer {
	return audio.Buffer{Samples: samples, SampleRate: testRate}
}

// burstSignal is a steady 200 Hz tone at base amplitude with louder 20 ms
// bursts every `every` windows starting at window `first`.
func burstSignal(dur float64, base, burst float64, first, every int) []float64 {
	const win = 160 // 20 ms at 8 kHz
	samples := tone(seconds(dur), 200, base)
	for w := first; (w+1)*win <= len(samples); w += every {
		overwrite(samples, w*win, win, 200, burst)
	}
	return samples
}

// steadyBurstBuffer is a -20 dB tone with 25 bursts over six seconds, which
// the energy-peak estimator reads as exactly 150 wpm.
func steadyBurstBuffer() audio.Buffer {
	return buffer(burstSignal(6, 0.1*math.Sqrt2, 0.5, 6, 12))
}

// speechWithGaps alternates tone and silence; spans are in seconds and start
// with speech.
func speechWithGaps(spans ...float64) audio.Buffer {
	var out []float64
	for i, s := range spans {
		n := seconds(s)
		if i%2 == 0 {
			out = append(out, tone(n, 200, 0.5)...)
		} else {
			out = append(out, make([]float64, n)...)
		}
	}
	return buffer(out)
}
