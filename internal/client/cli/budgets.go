package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"github.com/dberzins/budgetsync/internal/models"
	"github.com/dberzins/budgetsync/internal/timex"
)

// Budgets lists the non-deleted budgets in the local replica.
func (a *App) Budgets(ctx context.Context) error {
	budgets, err := a.stores.Budgets.ListAll(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	for _, b := range budgets {
		fmt.Printf("%s  %-20s %s/%s\n", b.ID, b.Name, b.Type, b.PeriodType)
	}
	return nil
}

// AddBudget creates a budget locally and nudges the sync engine. The write
// lands regardless of connectivity; replication happens when it can.
func (a *App) AddBudget(ctx context.Context) error {
	name, err := GetSimpleText(a.reader, "Budget name:", os.Stdout)
	if err != nil {
		return err
	}
	budgetType, err := GetSimpleText(a.reader, "Type (time/money):", os.Stdout)
	if err != nil {
		return err
	}
	if budgetType != models.BudgetTypeTime && budgetType != models.BudgetTypeMoney {
		fmt.Println("type must be 'time' or 'money'")
		return nil
	}
	periodType, err := GetSimpleText(a.reader, "Period (week/month):", os.Stdout)
	if err != nil {
		return err
	}
	if periodType != models.PeriodTypeWeek && periodType != models.PeriodTypeMonth {
		fmt.Println("period must be 'week' or 'month'")
		return nil
	}
	startDayText, err := GetSimpleText(a.reader, "Period start day:", os.Stdout)
	if err != nil {
		return err
	}
	startDay, err := strconv.Atoi(startDayText)
	if err != nil {
		fmt.Println("start day must be a number")
		return nil
	}

	now := timex.NowMillis()
	budget := &models.Budget{
		SyncMeta:       models.SyncMeta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Name:           name,
		Type:           budgetType,
		PeriodType:     periodType,
		PeriodStartDay: startDay,
	}

	if err := a.stores.Budgets.Put(ctx, budget); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Created budget", budget.ID)
	a.engine.NotifyMutation()
	return nil
}

// RenameBudget updates a budget's name, bumping updatedAt so the rename
// wins last-writer-wins merging against older copies.
func (a *App) RenameBudget(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Budget id:", os.Stdout)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "New name:", os.Stdout)
	if err != nil {
		return err
	}

	budget, err := a.stores.Budgets.Get(ctx, id)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	if budget == nil {
		fmt.Println("no such budget")
		return nil
	}

	budget.Name = name
	budget.UpdatedAt = timex.NowMillis()
	if err := a.stores.Budgets.Put(ctx, budget); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Renamed budget", id)
	a.engine.NotifyMutation()
	return nil
}

// RemoveBudget tombstones a budget. The record stays stored and keeps
// replicating so every device learns about the deletion.
func (a *App) RemoveBudget(ctx context.Context) error {
	id, err := GetSimpleText(a.reader, "Budget id:", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.stores.Budgets.SoftDelete(ctx, id, timex.NowMillis()); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Deleted budget", id)
	a.engine.NotifyMutation()
	return nil
}
