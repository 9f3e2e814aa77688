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

// AddTransaction records a money movement in a money budget. Amount is
// signed: negative for spending, positive for income.
func (a *App) AddTransaction(ctx context.Context) error {
	budgetID, err := GetSimpleText(a.reader, "Budget id:", os.Stdout)
	if err != nil {
		return err
	}
	categoryID, err := GetSimpleText(a.reader, "Category id (optional):", os.Stdout)
	if err != nil {
		return err
	}
	date, err := GetSimpleText(a.reader, "Date (YYYY-MM-DD):", os.Stdout)
	if err != nil {
		return err
	}
	amountText, err := GetSimpleText(a.reader, "Amount:", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(amountText)
	if err != nil {
		fmt.Println("amount must be a number")
		return nil
	}
	payee, err := GetSimpleText(a.reader, "Payee:", os.Stdout)
	if err != nil {
		return err
	}

	now := timex.NowMillis()
	txn := &models.Transaction{
		SyncMeta:   models.SyncMeta{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		BudgetID:   budgetID,
		Date:       date,
		Amount:     amount,
		Payee:      payee,
		SourceType: models.SourceTypeManual,
	}
	if categoryID != "" {
		txn.CategoryID = &categoryID
	}

	if err := a.stores.Transactions.Put(ctx, txn); err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Println("Created transaction", txn.ID)
	a.engine.NotifyMutation()
	return nil
}
