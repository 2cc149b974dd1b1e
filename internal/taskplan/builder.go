// Package taskplan expands a module into an ordered set of typed tasks
// with dependency edges and a preferred-role agent assignment.
package taskplan

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"foreman/pkg/models"
)

// sequenceEntry is one step of a module's task sequence.
type sequenceEntry struct {
	category    models.TaskCategory
	description string
}

// taskSequences lists the task sequence per module type, in execution
// order. Unknown module types use the backend sequence.
var taskSequences = map[models.ModuleType][]sequenceEntry{
	models.ModuleTypeBackend: {
		{models.CategoryDesign, "Design API structure and database schema"},
		{models.CategoryImplement, "Implement core functionality and endpoints"},
		{models.CategoryTest, "Create and run unit tests"},
		{models.CategoryReview, "Code review and optimization"},
	},
	models.ModuleTypeFrontend: {
		{models.CategoryDesign, "Design component structure and user flows"},
		{models.CategoryImplement, "Implement UI components and state management"},
		{models.CategoryTest, "Create and run component tests"},
		{models.CategoryReview, "UI/UX review and optimization"},
	},
	models.ModuleTypeFullstack: {
		{models.CategoryDesign, "Design full-stack architecture"},
		{models.CategoryImplementBackend, "Implement backend functionality"},
		{models.CategoryImplementFrontend, "Implement frontend components"},
		{models.CategoryIntegrate, "Integrate frontend with backend"},
		{models.CategoryTest, "End-to-end testing"},
		{models.CategoryReview, "Full-stack review"},
	},
	models.ModuleTypeMobile: {
		{models.CategoryDesign, "Design mobile app architecture and UI"},
		{models.CategoryImplement, "Implement mobile app features"},
		{models.CategoryTest, "Mobile app testing on devices"},
		{models.CategoryReview, "App store readiness review"},
	},
	models.ModuleTypeQA: {
		{models.CategoryPlan, "Create comprehensive test plan"},
		{models.CategoryImplement, "Implement automated tests"},
		{models.CategoryExecute, "Execute test suites"},
		{models.CategoryReport, "Generate test reports and recommendations"},
	},
	models.ModuleTypeDeploy: {
		{models.CategoryPlan, "Plan deployment strategy"},
		{models.CategoryConfigure, "Configure infrastructure and CI/CD"},
		{models.CategoryDeploy, "Deploy to staging and production"},
		{models.CategoryMonitor, "Setup monitoring and alerts"},
	},
}

// dependencyRules wires task categories to the categories they depend on.
// Edges only materialize when the depended-on category exists in the plan.
var dependencyRules = map[models.TaskCategory][]models.TaskCategory{
	models.CategoryImplement:         {models.CategoryDesign},
	models.CategoryImplementBackend:  {models.CategoryDesign},
	models.CategoryImplementFrontend: {models.CategoryDesign},
	models.CategoryIntegrate:         {models.CategoryImplementBackend, models.CategoryImplementFrontend},
	models.CategoryTest:              {models.CategoryImplement, models.CategoryImplementBackend, models.CategoryImplementFrontend, models.CategoryIntegrate},
	models.CategoryReview:            {models.CategoryTest},
	models.CategoryConfigure:         {models.CategoryPlan},
	models.CategoryDeploy:            {models.CategoryConfigure},
	models.CategoryMonitor:           {models.CategoryDeploy},
	models.CategoryExecute:           {models.CategoryImplement},
	models.CategoryReport:            {models.CategoryExecute},
}

// preferredRoles maps a task category to the roles that should work it,
// in preference order. Categories without an entry prefer backend.
var preferredRoles = map[models.TaskCategory][]string{
	models.CategoryDesign:            {"backend", "frontend", "fullstack"},
	models.CategoryImplement:         {"backend", "frontend", "fullstack"},
	models.CategoryImplementBackend:  {"backend", "fullstack"},
	models.CategoryImplementFrontend: {"frontend", "fullstack"},
	models.CategoryIntegrate:         {"fullstack", "backend"},
	models.CategoryTest:              {"qa", "backend", "frontend"},
	models.CategoryReview:            {"backend", "frontend", "fullstack"},
	models.CategoryPlan:              {"qa", "devops"},
	models.CategoryConfigure:         {"devops"},
	models.CategoryDeploy:            {"devops"},
	models.CategoryMonitor:           {"devops"},
	models.CategoryExecute:           {"qa"},
	models.CategoryReport:            {"qa"},
}

// Build expands a module into its task plan. One task is emitted per
// sequence entry with priority = sequenceLength - index, so earlier
// tasks outrank later ones. Agent assignment is best-effort: tasks that
// find no idle agent are created unassigned and re-assigned at
// execution time.
func Build(mod *models.Module, agents []*models.AgentInstance) []*models.Task {
	sequence, ok := taskSequences[mod.Type]
	if !ok {
		sequence = taskSequences[models.ModuleTypeBackend]
	}

	tasks := make([]*models.Task, 0, len(sequence))
	for i, entry := range sequence {
		task := &models.Task{
			ID:          fmt.Sprintf("%s-%s-%s", mod.Name, entry.category, uuid.New().String()[:8]),
			ModuleName:  mod.Name,
			Category:    entry.category,
			Description: fmt.Sprintf("%s: %s", mod.Name, entry.description),
			Priority:    len(sequence) - i,
			Status:      models.TaskStatusPending,
			CreatedAt:   time.Now(),
		}
		if agent := AssignAgent(task.Category, agents); agent != nil {
			task.AssignedAgent = agent.ID
		}
		tasks = append(tasks, task)
	}

	wireDependencies(tasks)
	return tasks
}

// AssignAgent picks an idle agent for the category: first by preferred
// role order, then any idle agent, else nil. The caller flips the chosen
// agent to working; assignment itself does not reserve it.
func AssignAgent(category models.TaskCategory, agents []*models.AgentInstance) *models.AgentInstance {
	roles, ok := preferredRoles[category]
	if !ok {
		roles = []string{"backend"}
	}

	for _, role := range roles {
		for _, agent := range agents {
			if agent.Role == role && agent.Status == models.AgentStatusIdle {
				return agent
			}
		}
	}
	for _, agent := range agents {
		if agent.Status == models.AgentStatusIdle {
			return agent
		}
	}
	return nil
}

// wireDependencies adds edges from the rule table. Each task depends on
// the plan's task of every rule category present in the plan.
func wireDependencies(tasks []*models.Task) {
	byCategory := make(map[models.TaskCategory]*models.Task, len(tasks))
	for _, task := range tasks {
		byCategory[task.Category] = task
	}

	for _, task := range tasks {
		for _, depCategory := range dependencyRules[task.Category] {
			if dep, ok := byCategory[depCategory]; ok {
				task.DependsOn = append(task.DependsOn, dep.ID)
			}
		}
	}
}

// Sequence returns the task categories a module type expands to, in
// order. Used by callers that need the plan shape without building it.
func Sequence(t models.ModuleType) []models.TaskCategory {
	sequence, ok := taskSequences[t]
	if !ok {
		sequence = taskSequences[models.ModuleTypeBackend]
	}
	categories := make([]models.TaskCategory, len(sequence))
	for i, entry := range sequence {
		categories[i] = entry.category
	}
	return categories
}
