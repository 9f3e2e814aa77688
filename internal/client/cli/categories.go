package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dberzins/budgetsync/internal/models"
	"github.com/dberzins/budgetsync/internal/timex"
)

// Categories lists the categories of one budget.
func (a *App) Categories(ctx context.Context) error {
	budgetID, err := GetSimpleText(a.reader, "Budget id:", os.Stdout)
	if err != nil {
		return err
	}

	cats, err := a.stores.Categories.ListByParent(ctx, budgetID)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	for _, c := range cats {
		fmt.Printf("%s  %-20s target %s\n", c.ID, c.Name, c.TargetAmount)
	}
	return nil
}

// AddCategory creates a category inside a budget.
func (a *App) AddCategory(ctx context.Context) error {
	budgetID, err := GetSimpleText(a.reader, "Budget id:", os.Stdout)
	if err != nil {
		return err
	}
	name, err := GetSimpleText(a.reader, "Category name:", os.Stdout)
	if err != nil {
		return err
	}
	targetText, err := GetSimpleText(a.reader, "Target amount:", os.Stdout)
	if err != nil {
		return err
	}
	target, err := decimal.NewFromString(targetText)
	if err != nil {
		fmt.Println("target must be a number")
		return nil
	}

	now := timex.NowMillis()
	category := &models.Category{
		SyncMeta:     models.SyncMeta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		BudgetID:     budgetID,
		Name:         name,
		TargetAmount: target,
	}

	if err := a.stores.Categories.Put(ctx, category); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Created category", category.ID)
	a.engine.NotifyMutation()
	return nil
}
