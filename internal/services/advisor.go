package services

import (
	"github.com/granaflow/grana-backend/internal/dto"
	"github.com/granaflow/grana-backend/internal/models"
)

// Budget-attention window: flagged while spending sits between these
// percentages of the limit. At or past 100 the budget is blown and the
// recommendation moves on.
const (
	budgetWarnLow  = 80
	budgetWarnHigh = 100
)

// SelectNextAction picks one recommendation from the month's state.
// The priority order is deliberate: onboarding (no budgets, then no goals)
// beats optimization, and a budget close to its limit beats a goal that
// could use a contribution. First match in input order wins; something is
// always returned.
func SelectNextAction(hasBudgets bool, budgets []models.BudgetWithSpending, goals []models.Goal) dto.NextAction {
	if !hasBudgets {
		return dto.NextAction{Kind: dto.ActionCreateBudget}
	}
	if len(goals) == 0 {
		return dto.NextAction{Kind: dto.ActionCreateGoal}
	}
	for _, b := range budgets {
		if b.Progress >= budgetWarnLow && b.Progress < budgetWarnHigh {
			return dto.NextAction{
				Kind:     dto.ActionBudgetWarning,
				Category: b.Category,
				Progress: b.Progress,
			}
		}
	}
	for _, g := range goals {
		if g.CurrentAmount < g.TargetAmount {
			return dto.NextAction{
				Kind:     dto.ActionContributeGoal,
				GoalID:   g.GoalID,
				GoalName: g.Name,
			}
		}
	}
	return dto.NextAction{Kind: dto.ActionOnTrack}
}
