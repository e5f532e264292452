package parameter

import "time"

// Audio hardware settings
const (
	AudioSampleRate = 44100

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond
)

// Toggle cue: short blip, higher pitch when LRA turns on
const (
	ToggleSoundDuration = 60 * time.Millisecond
	ToggleSoundAttack   = 5 * time.Millisecond
	ToggleSoundRelease  = 30 * time.Millisecond
	ToggleOnFreq        = 880.0
	ToggleOffFreq       = 440.0
)

// Reset cue: two-note descending sequence
const (
	ResetSoundNote     = 90 * time.Millisecond
	ResetSoundAttack   = 5 * time.Millisecond
	ResetSoundRelease  = 40 * time.Millisecond
	ResetSoundFreqHigh = 660.0
	ResetSoundFreqLow  = 330.0
	ResetSoundGain     = 0.6
)

// Tension hum: looping low tone whose volume follows cloth over-stretch
const (
	TensionFreq = 110.0

	// TensionFullScale is the LRA excess (world units) mapped to full hum volume
	TensionFullScale = 0.05

	// TensionMaxGain caps hum amplitude
	TensionMaxGain = 0.35
)
