package ai

// Static encouragements used when the text generator is unavailable. An AI
// outage must never block saving an entry.
var fallbackMessages = []string{
	"Thank you for taking a moment to notice what's going well. Small wins add up.",
	"It's great that you paused to capture this. Keeping track of the good things really matters.",
	"What a lovely thing to hold onto. Glad you wrote it down today.",
	"Noticing moments like this is a habit worth keeping. Well done for showing up.",
	"That sounds like something worth celebrating. Thanks for sharing it with your journal.",
}

// FallbackEncouragement picks a message deterministically from the
// transcription so retries of the same entry render the same text.
func FallbackEncouragement(transcription string) string {
	if len(fallbackMessages) == 0 {
		return ""
	}
	sum := 0
	for _, r := range transcription {
		sum += int(r)
	}
	return fallbackMessages[sum%len(fallbackMessages)]
}
