package model

import "strings"

// VideoRecord represents one row of a channel dataset
type VideoRecord struct {
	Title      string `json:"title"`
	Views      int64  `json:"views"`
	Likes      int64  `json:"likes"`
	Comments   int64  `json:"comments"`
	Duration   int64  `json:"duration"`              // seconds, 0 when unknown
	UploadDate string `json:"upload_date,omitempty"` // YYYYMMDD
}

// VideoDataset is the ordered collection of records for a channel.
// Order is the enumeration order reported by the channel listing.
type VideoDataset []VideoRecord

// ChannelMeta holds best-effort channel information. Nil fields are absent.
type ChannelMeta struct {
	DisplayName *string `json:"display_name,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// IsEmpty reports whether no channel metadata was obtained
func (m ChannelMeta) IsEmpty() bool {
	return m.DisplayName == nil && m.LogoURL == nil
}

// Thumbnail is an image candidate surfaced by a channel listing
type Thumbnail struct {
	ID     string `json:"id,omitempty"`
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

// ListingEntry is a single candidate video from a channel listing
type ListingEntry struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
}

// ChannelListing is the result of enumerating a channel's video tab
type ChannelListing struct {
	Entries    []ListingEntry `json:"entries"`
	Uploader   string         `json:"uploader,omitempty"`
	Thumbnails []Thumbnail    `json:"thumbnails,omitempty"`
}

// VideoDetails holds the attributes returned by a per-video detail query.
// Counts are nil when the extractor did not report them.
type VideoDetails struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ViewCount    *int64 `json:"view_count"`
	LikeCount    *int64 `json:"like_count"`
	CommentCount *int64 `json:"comment_count"`
	Duration     *int64 `json:"duration"`
	UploadDate   string `json:"upload_date"`
}

// ToRecord converts raw details into a dataset row, defaulting absent counts to 0.
// Title line endings become "\n" so the row reads back unchanged from the CSV cache.
func (d VideoDetails) ToRecord() VideoRecord {
	return VideoRecord{
		Title:      NormalizeLineEndings(d.Title),
		Views:      nonNegative(d.ViewCount),
		Likes:      nonNegative(d.LikeCount),
		Comments:   nonNegative(d.CommentCount),
		Duration:   nonNegative(d.Duration),
		UploadDate: d.UploadDate,
	}
}

// VideoOutcome is the result of fetching one video's details
type VideoOutcome struct {
	VideoID string
	Record  *VideoRecord
	Err     error
}

// OK reports whether the fetch produced a record
func (o VideoOutcome) OK() bool {
	return o.Err == nil && o.Record != nil
}

// NormalizeLineEndings rewrites CRLF and lone CR as LF
func NormalizeLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func nonNegative(v *int64) int64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}
