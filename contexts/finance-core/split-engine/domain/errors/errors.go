package errors

import "errors"

var (
	ErrNotAuthorized      = errors.New("caller is not authorized for this operation")
	ErrInvalidSplit       = errors.New("invalid split configuration")
	ErrSplitNotFound      = errors.New("split configuration not found")
	ErrInsufficientFunds  = errors.New("payer balance is below the payout amount")
	ErrInvalidPercentage  = errors.New("invalid percentage")
	ErrTooManyRecipients  = errors.New("split exceeds the maximum recipient count")
	ErrDuplicateRecipient = errors.New("split contains a duplicate recipient")
	ErrZeroAmount         = errors.New("amount is below the payout floor")
	ErrTransferFailed     = errors.New("value transfer was refused")
	ErrSplitAlreadyExists = errors.New("split configuration already exists")
	ErrInvalidAssetID     = errors.New("asset id must be positive")
	ErrPaymentNotFound    = errors.New("payment record not found")
)
