package handlers

import (
	"context"

	billdto "krona/internal/application/billing/dto"
	billingusecases "krona/internal/application/billing/usecases"
)

// Use case interfaces for TransactionHandler

type createTransactionUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.CreateTransactionCommand) (*billdto.TransactionDTO, error)
}

type updateTransactionStatusUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.UpdateTransactionStatusCommand) (*billdto.TransactionDTO, error)
}

type listTransactionsUseCase interface {
	Execute(ctx context.Context, query billingusecases.ListTransactionsQuery) ([]*billdto.TransactionDTO, int64, error)
}

type verifyPaymentUseCase interface {
	Execute(ctx context.Context, cmd billingusecases.VerifyPaymentCommand) (*billingusecases.VerifyPaymentResult, error)
}
