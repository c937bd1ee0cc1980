package config

import "errors"

var (
	ErrEmptyPath             = errors.New("config path is empty")
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrInvalidBinSeconds     = errors.New("sampler bin-seconds must be positive")
	ErrInvalidBurstThreshold = errors.New("sampler burst-threshold must be positive")
	ErrInvalidMinRecordings  = errors.New("sampler min-recordings must be at least 1")
	ErrInvalidRefresh        = errors.New("monitor refresh must be positive")
	ErrInvalidSecondsPerCell = errors.New("monitor seconds-per-cell must be positive")
	ErrInvalidBucketWidth    = errors.New("monitor summary-bucket-wpm must be positive")
	ErrInvalidLogLevel       = errors.New("log level must be debug, info, warn or error")
	ErrInvalidLogFormat      = errors.New("log format must be console or json")
	ErrReadingState          = errors.New("failed to read state file")
	ErrWritingState          = errors.New("failed to write state file")
)
