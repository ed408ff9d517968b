package calendar

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid calendar configuration")
	ErrSettingsNotLoaded = errors.New("calendar settings not loaded")
)
