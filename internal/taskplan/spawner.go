package taskplan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"foreman/internal/registry"
	"foreman/pkg/models"
)

// roleTemplate carries the generation parameters for a spawned role.
type roleTemplate struct {
	temperature float64
	maxTokens   int
}

// roleTemplates holds per-role generation defaults. Deterministic roles
// (devops, security) run cold; creative roles run warmer.
var roleTemplates = map[string]roleTemplate{
	"backend":   {temperature: 0.2, maxTokens: 2500},
	"frontend":  {temperature: 0.4, maxTokens: 2000},
	"fullstack": {temperature: 0.3, maxTokens: 2200},
	"mobile":    {temperature: 0.3, maxTokens: 2000},
	"devops":    {temperature: 0.1, maxTokens: 2000},
	"qa":        {temperature: 0.2, maxTokens: 1800},
	"security":  {temperature: 0.1, maxTokens: 2000},
	"data":      {temperature: 0.3, maxTokens: 2200},
}

// modelPreferences lists preferred capability records per role, in order.
var modelPreferences = map[string][]string{
	"backend":   {"deepseek-r1:14b", "qwen2.5-coder:7b"},
	"frontend":  {"claude-3-5-sonnet", "gpt-4o"},
	"fullstack": {"deepseek-r1:14b", "claude-3-5-sonnet"},
	"mobile":    {"gpt-4o", "claude-3-5-sonnet"},
	"devops":    {"qwen2.5-coder:7b", "deepseek-r1:14b"},
	"qa":        {"claude-3-5-sonnet", "deepseek-r1:14b"},
	"security":  {"claude-3-5-sonnet", "deepseek-r1:14b"},
	"data":      {"deepseek-r1:14b", "claude-3-5-sonnet"},
}

// defaultRolesByType supplies roles for modules that declare none.
var defaultRolesByType = map[models.ModuleType][]string{
	models.ModuleTypeBackend:   {"backend"},
	models.ModuleTypeFrontend:  {"frontend"},
	models.ModuleTypeFullstack: {"fullstack"},
	models.ModuleTypeMobile:    {"mobile"},
	models.ModuleTypeQA:        {"qa"},
	models.ModuleTypeDeploy:    {"devops"},
}

// SpawnForModule creates one idle agent instance per role the module
// needs, bound to the best available capability record for that role.
func SpawnForModule(mod *models.Module, reg *registry.Registry) []*models.AgentInstance {
	roles := mod.Roles
	if len(roles) == 0 {
		if defaults, ok := defaultRolesByType[mod.Type]; ok {
			roles = defaults
		} else {
			roles = []string{"backend"}
		}
	}

	agents := make([]*models.AgentInstance, 0, len(roles))
	for _, role := range roles {
		agents = append(agents, spawn(role, mod, reg))
	}
	return agents
}

// spawn creates one idle agent for a role.
func spawn(role string, mod *models.Module, reg *registry.Registry) *models.AgentInstance {
	template, ok := roleTemplates[role]
	if !ok {
		template = roleTemplates["backend"]
	}

	return &models.AgentInstance{
		ID:             fmt.Sprintf("%s-%s-%s", mod.Name, role, uuid.New().String()[:8]),
		Role:           role,
		Specialization: fmt.Sprintf("%s specialist for module %s", role, mod.Name),
		Model:          pickModel(role, reg),
		Status:         models.AgentStatusIdle,
		Temperature:    template.temperature,
		MaxTokens:      template.maxTokens,
		CreatedAt:      time.Now(),
	}
}

// pickModel returns the first preferred model registered for the role,
// falling back to the first registered record.
func pickModel(role string, reg *registry.Registry) string {
	for _, name := range modelPreferences[role] {
		if _, ok := reg.Get(name); ok {
			return name
		}
	}
	if names := reg.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}
