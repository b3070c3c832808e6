package model

// FetchOutcome tags how an acquisition run ended
type FetchOutcome string

const (
	// OutcomeFetched means a live listing succeeded; the dataset may still be empty
	// when the channel has no videos or every detail query failed.
	OutcomeFetched FetchOutcome = "fetched"
	// OutcomeCached means the dataset was served from the cache store.
	OutcomeCached FetchOutcome = "cached"
	// OutcomeFailed means the listing query failed and nothing usable was retrieved.
	OutcomeFailed FetchOutcome = "failed"
	// OutcomeInvalidReference means the channel reference was empty.
	OutcomeInvalidReference FetchOutcome = "invalid_reference"
)

// FetchResult is what the acquisition pipeline hands to its callers
type FetchResult struct {
	Reference string       `json:"reference"`
	CacheKey  string       `json:"cache_key,omitempty"`
	Dataset   VideoDataset `json:"dataset"`
	Meta      ChannelMeta  `json:"meta"`
	Outcome   FetchOutcome `json:"outcome"`
	Failed    int          `json:"failed"`
}

// RefreshEvent is published after a live fetch has been committed
type RefreshEvent struct {
	Reference   string `json:"reference"`
	CacheKey    string `json:"cache_key"`
	Videos      int    `json:"videos"`
	Failed      int    `json:"failed"`
	RefreshedAt string `json:"refreshed_at"`
}
