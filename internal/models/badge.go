package models

type Badge struct {
	ID          int64  `json:"id"`
	Slug        string `json:"slug"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type UserBadge struct {
	Slug      string `json:"slug"`
	Label     string `json:"label"`
	Color     string `json:"color"`
	Level     int    `json:"level"`
	AwardedAt string `json:"awarded_at"`
}
