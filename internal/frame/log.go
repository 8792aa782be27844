package frame

import "log"

// LogObserver writes every body's position after each frame.
type LogObserver struct {
	Logger *log.Logger
}

func NewLogObserver(l *log.Logger) *LogObserver {
	if l == nil {
		l = log.Default()
	}
	return &LogObserver{Logger: l}
}

func (o *LogObserver) OnFrame(f Frame) {
	for _, b := range f.System.Bodies {
		o.Logger.Printf("frame=%d body=%s x=%.6f y=%.6f vx=%.6g vy=%.6g",
			f.Index, b.Name, b.Position.X, b.Position.Y, b.Velocity.X, b.Velocity.Y)
	}
}
