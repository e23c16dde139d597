package audio

import (
	"depthwall/internal/utils"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Player loops a background's ambient soundtrack as a raylib music
// stream. Silent mode skips device initialization entirely.
type Player struct {
	music  rl.Music
	active bool
}

func NewPlayer() *Player {
	if !utils.SilentMode && !rl.IsAudioDeviceReady() {
		rl.InitAudioDevice()
	}
	return &Player{}
}

// Play starts looping the given file at the given volume. A failed load
// logs and leaves the scene silent; audio is never fatal.
func (p *Player) Play(path string, volume float64) {
	if utils.SilentMode || path == "" {
		return
	}

	music := rl.LoadMusicStream(path)
	if music.FrameCount == 0 {
		utils.Warn("Audio: could not load %s", path)
		return
	}

	music.Looping = true
	rl.SetMusicVolume(music, float32(volume))
	rl.PlayMusicStream(music)

	p.music = music
	p.active = true
	utils.Info("Audio: playing %s (vol %.2f)", path, volume)
}

// Update pumps the music stream buffer; call once per frame.
func (p *Player) Update() {
	if p.active {
		rl.UpdateMusicStream(p.music)
	}
}

// SetVolume adjusts playback volume at runtime.
func (p *Player) SetVolume(volume float64) {
	if p.active {
		rl.SetMusicVolume(p.music, float32(volume))
	}
}

// Close stops playback and releases the audio device.
func (p *Player) Close() {
	if p.active {
		rl.StopMusicStream(p.music)
		rl.UnloadMusicStream(p.music)
		p.active = false
	}
	if rl.IsAudioDeviceReady() {
		rl.CloseAudioDevice()
	}
}
