package models

// DashboardMember is one active member as shown on the family dashboard
type DashboardMember struct {
	ID                 string   `json:"id"`
	DisplayName        string   `json:"displayName"`
	ContributedBalance *float64 `json:"contributedBalance,omitempty"`
}

// SharedGoal is a goal jointly visible to the family
type SharedGoal struct {
	GoalID        string   `json:"goalId"`
	Name          string   `json:"name"`
	TargetAmount  float64  `json:"targetAmount"`
	CurrentAmount float64  `json:"currentAmount"`
	Contributors  []string `json:"contributors"`
}

// FamilyDashboard aggregates the family view. The balance/income/expense
// totals are not computed yet: real aggregation over shared wallets and
// transactions is a follow-on feature and the fields stay at zero
type FamilyDashboard struct {
	FamilyID   int64  `json:"familyId"`
	FamilyName string `json:"familyName"`

	SharedBalance  float64 `json:"sharedBalance"`
	SharedIncome   float64 `json:"sharedIncome"`
	SharedExpenses float64 `json:"sharedExpenses"`

	ActiveMembers  []DashboardMember    `json:"activeMembers"`
	SharedGoals    []SharedGoal         `json:"sharedGoals"`
	RecentActivity []FamilyActivityItem `json:"recentActivity"`
}
