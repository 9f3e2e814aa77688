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

// AddEntry logs a block of time against a category.
func (a *App) AddEntry(ctx context.Context) error {
	budgetID, err := GetSimpleText(a.reader, "Budget id:", os.Stdout)
	if err != nil {
		return err
	}
	categoryID, err := GetSimpleText(a.reader, "Category id:", os.Stdout)
	if err != nil {
		return err
	}
	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD):", os.Stdout)
	if err != nil {
		return err
	}
	quantityText, err := GetSimpleText(a.reader, "Hours:", os.Stdout)
	if err != nil {
		return err
	}
	quantity, err := strconv.ParseFloat(quantityText, 64)
	if err != nil {
		fmt.Println("hours must be a number")
		return nil
	}
	note, err := GetSimpleText(a.reader, "Note (optional):", os.Stdout)
	if err != nil {
		return err
	}

	now := timex.NowMillis()
	entry := &models.Entry{
		SyncMeta:   models.SyncMeta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Date:       date,
		Quantity:   quantity,
	}
	if note != "" {
		entry.Note = &note
	}

	if err := a.stores.Entries.Put(ctx, entry); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Created entry", entry.ID)
	a.engine.NotifyMutation()
	return nil
}
