package models

import "time"

// SubApp is an admin panel registered with the portal shell.
type SubApp struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconType    string `json:"icon_type"`
	ColorTheme  string `json:"color_theme"`
	SortOrder   int    `json:"sort_order"`
}

// Announcement is a portal-wide notice shown on the landing page.
type Announcement struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AppContext  string    `json:"app_context"`
	Priority    string    `json:"priority"`
	PublishDate time.Time `json:"publish_date"`
}
