package nflockevent

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// operation returns the short form of an operation ID used in event
// messages. The full ID is still carried in the structured attributes.
func operation(id uuid.UUID) string {
	return id.String()[:8]
}

func plural[T ~int | ~int64](value T, singular, plural string) string {
	if value == 1 {
		return singular
	}
	return plural
}

func bitrate(transferred int64, duration time.Duration) string {
	if transferred == 0 || duration == 0 {
		return "0"
	}
	const mebibit = float64(1048576)
	const conversion = (8 / mebibit)
	bytesPerSecond := float64(transferred) / duration.Seconds()
	return fmt.Sprintf("%.02f", bytesPerSecond*conversion)
}
