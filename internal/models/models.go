package models

import (
	"fmt"
	"time"
)

// Page and Section status values. Sections additionally use StatusNeedsReview.
const (
	StatusNotSetup    = "Not Setup"
	StatusNeedsReview = "Needs Review"
	StatusActive      = "Active"
	StatusInactive    = "Inactive"
)

type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

type Website struct {
	ID            string    `bson:"id" json:"id"`
	OwnerID       string    `bson:"owner_id" json:"owner_id"`
	Name          string    `bson:"name" json:"name"`
	URL           string    `bson:"url" json:"url"`
	ImageURL      string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Collaborators []string  `bson:"collaborators" json:"collaborators"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`

	// EmbedCode is derived from the id at read time and never persisted.
	EmbedCode string `bson:"-" json:"embed_code"`
}

// EmbedCode renders the script snippet site owners paste into their pages.
func EmbedCode(websiteID, baseURL string) string {
	return fmt.Sprintf(`<script src="%s/api/widget.js" data-website-id="%s"></script>`, baseURL, websiteID)
}

type Page struct {
	ID            string    `bson:"id" json:"id"`
	WebsiteID     string    `bson:"website_id" json:"website_id"`
	URL           string    `bson:"url" json:"url"`
	Status        string    `bson:"status" json:"status"`
	SectionsCount int       `bson:"sections_count" json:"sections_count"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

// Section is an ordered chunk of a page's text, the unit video/audio and
// translations attach to. SelectedText and TextContent are kept mirrored on
// every write; older rows may carry only one of them.
type Section struct {
	ID            string    `bson:"id" json:"id"`
	PageID        string    `bson:"page_id" json:"page_id"`
	SelectedText  string    `bson:"selected_text" json:"selected_text"`
	TextContent   string    `bson:"text_content,omitempty" json:"text_content,omitempty"`
	PositionOrder int       `bson:"position_order" json:"position_order"`
	Status        string    `bson:"status" json:"status"`
	VideosCount   int       `bson:"videos_count" json:"videos_count"`
	AudiosCount   int       `bson:"audios_count" json:"audios_count"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}

type Video struct {
	ID        string    `bson:"id" json:"id"`
	SectionID string    `bson:"section_id" json:"section_id"`
	Language  string    `bson:"language" json:"language"`
	VideoURL  string    `bson:"video_url" json:"video_url"`
	FilePath  string    `bson:"file_path" json:"file_path"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type Audio struct {
	ID        string    `bson:"id" json:"id"`
	SectionID string    `bson:"section_id" json:"section_id"`
	Language  string    `bson:"language" json:"language"`
	AudioURL  string    `bson:"audio_url" json:"audio_url"`
	FilePath  string    `bson:"file_path" json:"file_path"`
	Captions  string    `bson:"captions,omitempty" json:"captions,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type TextTranslation struct {
	ID           string    `bson:"id" json:"id"`
	SectionID    string    `bson:"section_id" json:"section_id"`
	Language     string    `bson:"language" json:"language"`
	LanguageCode string    `bson:"language_code" json:"language_code"`
	TextContent  string    `bson:"text_content" json:"text_content"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}

// Analytics is keyed by (website_id, page_url); counters are best-effort.
type Analytics struct {
	WebsiteID    string `bson:"website_id" json:"website_id"`
	PageURL      string `bson:"page_url" json:"page_url"`
	Views        int64  `bson:"views" json:"views"`
	Interactions int64  `bson:"interactions" json:"interactions"`
}

type Invitation struct {
	ID        string    `bson:"id" json:"id"`
	WebsiteID string    `bson:"website_id" json:"website_id"`
	Email     string    `bson:"email" json:"email"`
	Token     string    `bson:"token" json:"token"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
