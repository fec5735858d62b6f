package saas

import (
	"github.com/atelierliu/renoquote-backend/pkg/db/models"
	"github.com/atelierliu/renoquote-backend/pkg/enums"
)

// ModuleEnabled reports whether a user may use an optional module. Pro plans
// carry everything; free plans need the module granted explicitly.
func ModuleEnabled(user *models.User, module enums.Feature) bool {
	if user == nil || !module.IsValid() {
		return false
	}
	if user.Plan == enums.PlanPro {
		return true
	}
	for _, granted := range user.Features {
		if granted == module.String() {
			return true
		}
	}
	return false
}

// EnabledModules lists the optional modules a user can reach, for the
// account payload the dashboard renders.
func EnabledModules(user *models.User) []enums.Feature {
	var out []enums.Feature
	for _, module := range enums.Features() {
		if ModuleEnabled(user, module) {
			out = append(out, module)
		}
	}
	return out
}
