package models

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type (
	// Snapshot is a saved split: the bill, who claimed what and the receipt
	// image. Snapshots own their data; nothing is shared with live state.
	Snapshot struct {
		ID           string        `json:"id"`
		Date         time.Time     `json:"date"`
		Bill         *Bill         `json:"bill"`
		Participants []Participant `json:"participants"`
		ImagePreview *string       `json:"imagePreview"`
	}
)

// NewSnapshot deep copies bill and participants.
func NewSnapshot(id string, date time.Time, bill *Bill, participants []Participant, imagePreview *string) Snapshot {
	s := Snapshot{
		ID:           id,
		Date:         date.UTC(),
		Bill:         bill.Clone(),
		Participants: make([]Participant, len(participants)),
	}
	for i, p := range participants {
		s.Participants[i] = p.Clone()
	}
	if imagePreview != nil {
		preview := *imagePreview
		s.ImagePreview = &preview
	}
	return s
}

// ImageDataURL encodes an image as a data URL suitable for ImagePreview.
// Content that is not recognized as an image is labeled as JPEG, the format
// chat apps send photos in.
func ImageDataURL(image []byte) string {
	mime := http.DetectContentType(image)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/jpeg"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(image))
}

// Clone ...
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.ID, s.Date, s.Bill, s.Participants, s.ImagePreview)
}
