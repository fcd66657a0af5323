package views

import "github.com/kinboard/kinboard/pkg/entity"

// RoleDisplay is the presentation policy for a member's role: children get
// a gamification badge on their card, adults get plain role tags.
type RoleDisplay struct {
	Label     string `json:"label"`
	ShowBadge bool   `json:"show_badge"`
	ShowTags  bool   `json:"show_tags"`
}

func DisplayFor(role entity.Role) RoleDisplay {
	switch role {
	case entity.RoleParent:
		return RoleDisplay{Label: "Parent", ShowTags: true}
	case entity.RoleSpouse:
		return RoleDisplay{Label: "Spouse", ShowTags: true}
	case entity.RoleChild:
		return RoleDisplay{Label: "Child", ShowBadge: true}
	default:
		return RoleDisplay{Label: string(role), ShowTags: true}
	}
}
