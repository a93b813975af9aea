package domain

import "errors"

var (
	ErrProjectNotFound   = errors.New("project not found")
	ErrEmptyProjectName  = errors.New("project name is empty")
	ErrInvalidTab        = errors.New("invalid tab")
	ErrInvalidTransition = errors.New("invalid generator state transition")
	ErrNoFiles           = errors.New("no files to analyze")
	ErrNoAnalysisResult  = errors.New("no analysis result")
	ErrUnknownCharacter  = errors.New("character not in analysis result")
	ErrEmptyMessage      = errors.New("message is empty")
	ErrSecretNotFound    = errors.New("secret not found")
)
