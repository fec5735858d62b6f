package saas

import (
	"testing"

	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

func TestModuleEnabled(t *testing.T) {
	cases := []struct {
		name   string
		user   *models.User
		module enums.Feature
		want   bool
	}{
		{name: "pro gets everything", user: &models.User{Plan: enums.PlanPro}, module: enums.FeatureCalendar, want: true},
		{name: "free without grant", user: &models.User{Plan: enums.PlanFree}, module: enums.FeatureCalendar, want: false},
		{name: "free with grant", user: &models.User{Plan: enums.PlanFree, Features: []string{"calendar"}}, module: enums.FeatureCalendar, want: true},
		{name: "grant does not leak across modules", user: &models.User{Plan: enums.PlanFree, Features: []string{"calendar"}}, module: enums.FeatureAcceptance, want: false},
		{name: "unknown module denies even pro", user: &models.User{Plan: enums.PlanPro}, module: enums.Feature("exports"), want: false},
		{name: "nil user denies", user: nil, module: enums.FeatureCalendar, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ModuleEnabled(tc.user, tc.module); got != tc.want {
				t.Fatalf("ModuleEnabled = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestEnabledModules(t *testing.T) {
	pro := &models.User{Plan: enums.PlanPro}
	if got := EnabledModules(pro); len(got) != len(enums.Features()) {
		t.Fatalf("pro modules = %d, want %d", len(got), len(enums.Features()))
	}

	free := &models.User{Plan: enums.PlanFree, Features: []string{"clients"}}
	got := EnabledModules(free)
	if len(got) != 1 || got[0] != enums.FeatureClients {
		t.Fatalf("free modules = %v", got)
	}
}
