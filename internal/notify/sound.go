package notify

import "go.uber.org/zap"

// SoundPlayer is the audio sink fired when new orders arrive. Implementations
// must treat playback as fire-and-forget: failures are logged, never fatal.
type SoundPlayer interface {
	Play(sound string)
}

// NewOrderSound is the chime played on the admin dashboard for new orders.
const NewOrderSound = "new-order"

// LogSoundPlayer records playback requests in the log. The actual audio is
// rendered by the admin front end; the backend only signals intent.
type LogSoundPlayer struct {
	logger *zap.Logger
}

// NewLogSoundPlayer creates a new LogSoundPlayer
func NewLogSoundPlayer(logger *zap.Logger) *LogSoundPlayer {
	return &LogSoundPlayer{logger: logger}
}

func (p *LogSoundPlayer) Play(sound string) {
	p.logger.Info("Notification sound triggered", zap.String("sound", sound))
}
