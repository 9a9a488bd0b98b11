package services

import (
	"context"

	"github.com/patobeur/inouttracker/internal/models"
)

// BadgeService serves a fixed catalogue until badge awarding is stored.
type BadgeService struct{}

var badgeCatalogue = []models.Badge{
	{ID: 1, Slug: "pionnier", Label: "Pionnier", Color: "#4a90e2", Description: "Joined during the first week."},
	{ID: 2, Slug: "beta-testeur", Label: "Bêta-Testeur", Color: "#7ed321", Description: "Took part in the beta programme."},
	{ID: 3, Slug: "curieux", Label: "Curieux", Color: "#f5a623", Description: "Explored every section of the site."},
}

func (BadgeService) All(context.Context) []models.Badge {
	out := make([]models.Badge, len(badgeCatalogue))
	copy(out, badgeCatalogue)
	return out
}

// ForUser returns the badges held by userID. Every member holds "pionnier" for now.
func (BadgeService) ForUser(_ context.Context, _ int64) []models.UserBadge {
	b := badgeCatalogue[0]
	return []models.UserBadge{
		{Slug: b.Slug, Label: b.Label, Color: b.Color, Level: 1, AwardedAt: "2024-01-15 10:00:00"},
	}
}
