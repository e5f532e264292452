package audio

import (
	"sync"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/lra-cloth/parameter"
)

const sampleRate = beep.SampleRate(parameter.AudioSampleRate)

// SoundManager plays solver cues. Every method is a no-op until Initialize succeeds,
// so hosts without an audio device run silently
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	hum         *effects.Volume
	humCtrl     *beep.Ctrl
	volume      float64
	muted       bool
	initialized bool
}

// NewSoundManager creates a sound manager at the given master volume in [0, 1]
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the speaker and starts the mixer with a silent tension hum
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(parameter.AudioBufferDuration)); err != nil {
		return err
	}

	sm.hum = CreateTensionHum(sampleRate)
	sm.humCtrl = &beep.Ctrl{Streamer: sm.hum}
	sm.mixer.Add(sm.humCtrl)

	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything and releases the speaker
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.humCtrl.Paused = true
	sm.mixer.Clear()
	speaker.Unlock()

	speaker.Close()
	sm.hum = nil
	sm.humCtrl = nil
	sm.initialized = false
}

// PlayToggle plays the attachment switch blip
func (sm *SoundManager) PlayToggle(on bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.active() {
		return
	}
	sm.add(CreateToggleSound(on, sm.volume, sampleRate))
}

// PlayReset plays the scene rebuild chime
func (sm *SoundManager) PlayReset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.active() {
		return
	}
	sm.add(CreateResetSound(sm.volume, sampleRate))
}

// SetTension drives hum volume from the current maximum LRA excess
func (sm *SoundManager) SetTension(excess float64) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	gain := 0.0
	if !sm.muted {
		gain = TensionGain(excess, sm.volume)
	}

	speaker.Lock()
	setGain(sm.hum, gain)
	speaker.Unlock()
}

// ToggleMute flips mute and returns the new state
func (sm *SoundManager) ToggleMute() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.muted = !sm.muted
	if sm.initialized && sm.muted {
		speaker.Lock()
		setGain(sm.hum, 0)
		speaker.Unlock()
	}
	return sm.muted
}

// Muted reports the mute state
func (sm *SoundManager) Muted() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.muted
}

func (sm *SoundManager) active() bool {
	return sm.initialized && !sm.muted && sm.volume > 0
}

// add queues a one-shot on the mixer, which drops it once drained
func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
