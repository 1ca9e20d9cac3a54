package installment

import "errors"

var (
	ErrInstallmentNotFound         = errors.New("installment advance not found")
	ErrInstallmentAlreadyCompleted = errors.New("installment advance already completed")
)
