package transaction

import "context"

type TransactionService interface {
	// CreateTransaction records a bonus or deduction
	CreateTransaction(ctx context.Context, req CreateTransactionRequest) (TransactionResponse, error)

	// DeleteTransaction removes a transaction unless its month is sealed for that employee
	DeleteTransaction(ctx context.Context, id string) error
}
