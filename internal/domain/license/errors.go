package license

import "errors"

var (
	ErrKeyRequired      = errors.New("license key is required")
	ErrInvalidKeyFormat = errors.New("invalid license key format")
	ErrLicenseNotFound  = errors.New("license not found")
	ErrLicenseNotActive = errors.New("license is not active")
	ErrLicenseExpired   = errors.New("license has expired")
)
