package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/lra-cloth/parameter"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates raw audio waves, duration <= 0 streams forever
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a new oscillator for wave generation
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.duration > 0 && o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/sustain/release gain ramp
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := total - att - rel
	if sus < 0 {
		sus = 0
	}

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = float64(e.totalSamples-e.position) / float64(e.releaseSamples)
			if vol < 0 {
				vol = 0
			}
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s at a linear gain, math.Log2(0) is -Inf so zero maps to silent
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	v := &effects.Volume{Streamer: s, Base: 2}
	setGain(v, vol)
	return v
}

// setGain updates a volume effect in place; callers hold speaker.Lock while it is playing
func setGain(v *effects.Volume, vol float64) {
	if vol <= 0 {
		v.Volume = 0
		v.Silent = true
		return
	}
	v.Volume = math.Log2(vol)
	v.Silent = false
}

// CreateToggleSound generates a short blip, high when attachments switch on
func CreateToggleSound(on bool, volume float64, rate beep.SampleRate) beep.Streamer {
	freq := parameter.ToggleOffFreq
	if on {
		freq = parameter.ToggleOnFreq
	}

	osc := NewOscillator(freq, parameter.ToggleSoundDuration, WaveSquare, rate)
	shaped := NewEnvelope(osc, parameter.ToggleSoundDuration, parameter.ToggleSoundAttack, parameter.ToggleSoundRelease, rate)
	return newVolume(shaped, 0.5*volume)
}

// CreateResetSound generates a falling two-note chime for scene rebuild
func CreateResetSound(volume float64, rate beep.SampleRate) beep.Streamer {
	n1 := NewOscillator(parameter.ResetSoundFreqHigh, parameter.ResetSoundNote, WaveSine, rate)
	n1Shaped := NewEnvelope(n1, parameter.ResetSoundNote, parameter.ResetSoundAttack, parameter.ResetSoundRelease, rate)

	n2 := NewOscillator(parameter.ResetSoundFreqLow, parameter.ResetSoundNote, WaveSine, rate)
	n2Shaped := NewEnvelope(n2, parameter.ResetSoundNote, parameter.ResetSoundAttack, parameter.ResetSoundRelease, rate)

	return newVolume(beep.Seq(n1Shaped, n2Shaped), parameter.ResetSoundGain*volume)
}

// CreateTensionHum returns an endless low saw tone behind a volume control starting silent
func CreateTensionHum(rate beep.SampleRate) *effects.Volume {
	osc := NewOscillator(parameter.TensionFreq, 0, WaveSaw, rate)
	return newVolume(osc, 0)
}

// TensionGain maps LRA excess (world units past the bound) to a linear hum gain in [0, TensionMaxGain*volume]
func TensionGain(excess, volume float64) float64 {
	if excess <= 0 || volume <= 0 {
		return 0
	}
	t := excess / parameter.TensionFullScale
	if t > 1 {
		t = 1
	}
	return t * parameter.TensionMaxGain * volume
}
