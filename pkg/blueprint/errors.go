package blueprint

import "errors"

var (
	ErrFailedToParseYAML = errors.New("blueprint: failed to parse YAML")
	ErrFailedToReadFile  = errors.New("blueprint: failed to read file")
	ErrInvalidBlueprint  = errors.New("blueprint: invalid blueprint")
	ErrApplyFailed       = errors.New("blueprint: failed to apply to engine")
)
