//go:build ci

package sound

// CI 环境没有音频设备，提供空实现。

const (
	SoundDeal    = "deal"
	SoundHold    = "hold"
	SoundDrop    = "drop"
	SoundWin     = "win"
	SoundLose    = "lose"
	SoundTick    = "tick"
	SoundGameEnd = "game_end"
)

type SoundManager struct{}

func NewSoundManager() *SoundManager {
	return &SoundManager{}
}

func (sm *SoundManager) Init() error {
	return nil
}

func (sm *SoundManager) Play(name string) {
	// No-op
}

func (sm *SoundManager) Close() {
	// No-op
}
