package services

import (
	"context"
	"fmt"

	"roomlog/internal/database"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

// Transactor runs fn inside a single database transaction. Controllers depend on it
// so tests can run the callback without a connection.
type Transactor interface {
	Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error
}

type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("transactionService"),
	}
}

// Execute commits when fn returns nil and rolls back otherwise. A panic inside fn is
// rolled back and returned as an error; if that rollback fails the panic is re-raised.
func (ts *TransactionService) Execute(
	ctx context.Context,
	fn func(context.Context, *gorm.DB) error,
) (err error) {
	log := ts.log.TraceFromContext(ctx).Function("Execute")

	tx := ts.db.SQLWithContext(ctx).Begin()
	if tx.Error != nil {
		return log.Err("failed to begin transaction", tx.Error)
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		panicErr := fmt.Errorf("panic during transaction: %v", r)
		log.Er("rolling back after panic", panicErr)

		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			log.Er("rollback after panic failed", rollbackErr, "panic", r)
			panic(fmt.Sprintf("transaction rollback failed: %v (original panic: %v)", rollbackErr, r))
		}

		err = panicErr
	}()

	if err = fn(ctx, tx); err != nil {
		if rollbackErr := tx.Rollback().Error; rollbackErr != nil {
			return log.Error(
				"transaction rollback failed",
				"rollbackError", rollbackErr,
				"originalError", err,
			)
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return log.Err("failed to commit transaction", err)
	}

	return nil
}
