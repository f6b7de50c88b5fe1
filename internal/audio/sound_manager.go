package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager plays the game's sounds through the speaker. Every method is
// a no-op until Initialize succeeds, so a machine without audio still plays.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	volume      float64
	initialized bool
}

// NewSoundManager creates a sound manager at the given linear volume.
func NewSoundManager(volume float64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		volume: volume,
	}
}

// Initialize opens the speaker and starts the crowd loop.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	sm.music = &beep.Ctrl{Streamer: newVolume(newCrowd(sampleRate), sm.volume)}
	sm.mixer.Add(sm.music)
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Cleanup silences everything.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	sm.initialized = false
}

// PlayCollect plays the collection chime.
func (sm *SoundManager) PlayCollect() {
	sm.play(CollectChime(sampleRate, sm.volume))
}

// PlayVictory plays the fanfare and stops the crowd.
func (sm *SoundManager) PlayVictory() {
	sm.mu.Lock()
	if sm.initialized && sm.music != nil {
		speaker.Lock()
		sm.music.Paused = true
		speaker.Unlock()
	}
	sm.mu.Unlock()
	sm.play(VictoryFanfare(sampleRate, sm.volume))
}

// ToggleMusic pauses or resumes the crowd loop.
func (sm *SoundManager) ToggleMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.music == nil {
		return
	}
	speaker.Lock()
	sm.music.Paused = !sm.music.Paused
	speaker.Unlock()
}

func (sm *SoundManager) play(s beep.Streamer) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Add(s)
	speaker.Unlock()
}
