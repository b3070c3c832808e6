package ytdlp

import "fmt"

// ExtractError wraps a failed yt-dlp invocation with the URL it was run against
type ExtractError struct {
	Op     string
	URL    string
	Err    error
	Stderr string
}

func (e *ExtractError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("yt-dlp %s %s: %v: %s", e.Op, e.URL, e.Err, e.Stderr)
	}
	return fmt.Sprintf("yt-dlp %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
