package core

import "errors"

var (
	ErrPermissionDenied     = errors.New("camera permission denied")
	ErrFlashUnsupported     = errors.New("flash unsupported")
	ErrCameraBusy           = errors.New("camera busy")
	ErrInvalidAddressFormat = errors.New("invalid address format")
	ErrInvalidPayloadFormat = errors.New("invalid payload format")
	ErrMissingRecipient     = errors.New("missing recipient")
	ErrMissingAmount        = errors.New("missing amount")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrNonPositiveAmount    = errors.New("non-positive amount")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrAmountPrecision      = errors.New("amount precision exceeds token decimals")
	ErrMemoTooLong          = errors.New("memo too long")
	ErrSubmissionFailed     = errors.New("submission failed")
)

type errorKind struct {
	err  error
	code string
	text string
}

// ordered: a submission failure may wrap a backend error that matches a later kind
var kinds = []errorKind{
	{ErrSubmissionFailed, "submission_failed", "Transaction could not be sent. Please review it and try again."},
	{ErrPermissionDenied, "permission_denied", "Camera access is required to scan QR codes. Please enable camera permissions and restart the scan."},
	{ErrFlashUnsupported, "flash_unsupported", "Flash is not available on this device."},
	{ErrCameraBusy, "camera_busy", "The camera is in use by another scan. Close it and try again."},
	{ErrInvalidAddressFormat, "invalid_address_format", "Invalid Ethereum address format"},
	{ErrInvalidPayloadFormat, "invalid_payload_format", "Invalid QR code format. Please try again."},
	{ErrMissingRecipient, "missing_recipient", "Recipient address is required"},
	{ErrMissingAmount, "missing_amount", "Amount is required"},
	{ErrInvalidAmount, "invalid_amount", "Amount must be a number"},
	{ErrNonPositiveAmount, "non_positive_amount", "Amount must be greater than 0"},
	{ErrInsufficientBalance, "insufficient_balance", "Insufficient balance"},
	{ErrAmountPrecision, "amount_precision", "Amount has too many decimal places"},
	{ErrMemoTooLong, "memo_too_long", "Memo is too long"},
}

func lookup(err error) (errorKind, bool) {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k, true
		}
	}

	return errorKind{}, false
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	if k, ok := lookup(err); ok {
		return k.text
	}

	return err.Error()
}

// Code returns a stable machine readable code for err, "unknown" for foreign errors.
func Code(err error) string {
	if k, ok := lookup(err); ok {
		return k.code
	}

	return "unknown"
}
