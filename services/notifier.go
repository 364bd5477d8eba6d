package services

import (
	"github.com/rs/zerolog/log"
)

// Notifier is the side channel the article service pushes operator-facing
// failure messages through. The UI layer may swap in its own implementation;
// the default just logs.
type Notifier interface {
	Danger(title string)
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) Danger(title string) {
	log.Warn().Str("notification", "danger").Msg(title)
}
