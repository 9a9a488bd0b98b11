package models

type LeaderboardEntry struct {
	Pseudo      string `json:"pseudo"`
	TotalPoints int    `json:"total_points"`
}

type DashboardStats struct {
	TotalUsers         int64              `json:"total_users"`
	TotalPolls         int64              `json:"total_polls"`
	FinishedPolls      int64              `json:"finished_polls"`
	TotalBadgesAwarded int64              `json:"total_badges_awarded"`
	TopUsersByPoints   []LeaderboardEntry `json:"top_10_users_by_points"`
}
