package domain

import "errors"

// ============================================================================
// Job / Inference Errors
// ============================================================================

var (
	ErrJobNotFound      = errors.New("job not found")
	ErrResultNotFound   = errors.New("inference result not found")
	ErrJobFinished      = errors.New("job already reached a terminal state")
	ErrOutputAlreadySet = errors.New("inference output already recorded")
	ErrEmptyPayload     = errors.New("no video payload provided")
	ErrNoCompletedJob   = errors.New("no completed inference job yet")
	ErrQueueFull        = errors.New("job queue is full")
)

// ============================================================================
// Model Registry Errors
// ============================================================================

var (
	ErrModelNotFound        = errors.New("model not found")
	ErrRegistrationNotFound = errors.New("model registration not found")
	ErrInvalidModelName     = errors.New("model name is required")
	ErrUnsupportedFramework = errors.New("unsupported model framework")
	ErrDeployerUnavailable  = errors.New("endpoint deployer is not configured")
)

// ============================================================================
// User Errors
// ============================================================================

var (
	ErrUserNotFound = errors.New("user not found")
)

// ============================================================================
// Artifact Store Errors
// ============================================================================

var (
	ErrArtifactNotFound = errors.New("artifact not found")
)

// ============================================================================
// Pipeline Errors
// ============================================================================

var (
	ErrCorruptVideo  = errors.New("could not decode source video")
	ErrEncodeFailed  = errors.New("delivery encode failed")
	ErrDegenerateBox = errors.New("bounding box has zero area")
	ErrModelEndpoint = errors.New("model endpoint request failed")
)
