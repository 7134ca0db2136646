package app

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidFileType        = errors.New("only pdf files are supported")
	ErrFileTooLarge           = errors.New("file exceeds the upload size limit")
	ErrEmptyDocument          = errors.New("no extractable text in document")
	ErrExtractFailed          = errors.New("pdf extraction failed")
	ErrModelCall              = errors.New("model call failed")
	ErrMalformedModelResponse = errors.New("malformed model response")
	ErrAnalysisNotFound       = errors.New("analysis not found")
	ErrSessionNotFound        = errors.New("session not found")
	ErrMessageEmpty           = errors.New("message content is empty")
)
