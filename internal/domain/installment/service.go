package installment

import "context"

type InstallmentService interface {
	CreateInstallment(ctx context.Context, req CreateInstallmentRequest) (InstallmentResponse, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]InstallmentResponse, error)
	MarkCompleted(ctx context.Context, id string) (InstallmentResponse, error)
}
