package shared

import "fmt"

var (
	// Startup errors, fatal
	ErrConfigMissing = fmt.Errorf("configuration not found")
	ErrConfigCorrupt = fmt.Errorf("configuration corrupt")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Settings persistence
	ErrPersist = fmt.Errorf("failed to persist settings")

	// Media relay errors
	ErrResolve       = fmt.Errorf("media resolution failed")
	ErrMediaNotFound = fmt.Errorf("media not found")
	ErrDownload      = fmt.Errorf("download failed")
	ErrUpload        = fmt.Errorf("upload failed")
	ErrCleanup       = fmt.Errorf("cleanup failed")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrUnknownCommand  = fmt.Errorf("unknown command")
)
