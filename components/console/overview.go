package console

import (
	"fmt"
	"math"
)

// Baseline holds previous-period counts used to compute card trends. Zero
// values disable the trend for that card.
type Baseline struct {
	Users          int `json:"users" yaml:"users"`
	ActiveRoles    int `json:"active_roles" yaml:"active_roles"`
	SecurityEvents int `json:"security_events" yaml:"security_events"`
}

// SummaryCard is one headline metric on the overview screen.
type SummaryCard struct {
	Title     string  `json:"title"`
	Value     int     `json:"value"`
	Trend     float64 `json:"trend"`
	TrendText string  `json:"trend_text,omitempty"`
	Color     string  `json:"color"`
	Icon      string  `json:"icon"`
}

// Overview is the dashboard screen payload.
type Overview struct {
	Cards     []SummaryCard   `json:"cards"`
	Activity  []ActivityItem  `json:"activity"`
	Breakdown []RoleBreakdown `json:"breakdown"`
	ChartHTML string          `json:"chart_html,omitempty"`
}

// activeRoles counts roles with at least one assigned user.
func activeRoles(users []User, roles []Role) int {
	assigned := map[string]bool{}
	for _, u := range users {
		assigned[u.Role] = true
	}
	n := 0
	for _, r := range roles {
		if assigned[r.Name] {
			n++
		}
	}
	return n
}

func summaryCards(users []User, roles []Role, securityEvents int, base Baseline) []SummaryCard {
	return []SummaryCard{
		newCard("Total Users", len(users), base.Users, "blue", "users"),
		newCard("Active Roles", activeRoles(users, roles), base.ActiveRoles, "green", "shield"),
		newCard("Security Events", securityEvents, base.SecurityEvents, "yellow", "alert"),
	}
}

func newCard(title string, value, baseline int, color, icon string) SummaryCard {
	card := SummaryCard{Title: title, Value: value, Color: color, Icon: icon}
	if baseline > 0 {
		card.Trend = trend(value, baseline)
		card.TrendText = fmt.Sprintf("%+.0f%% from last month", card.Trend)
	}
	return card
}

// trend is the percentage change from baseline rounded to one decimal.
func trend(value, baseline int) float64 {
	change := float64(value-baseline) / float64(baseline) * 100
	return math.Round(change*10) / 10
}
