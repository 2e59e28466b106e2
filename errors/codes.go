package errors

// ErrorCode classifies an AppError
type ErrorCode int32

const (
	ErrorCode_UNSPECIFIED ErrorCode = iota
	ErrorCode_INTERNAL
	ErrorCode_INVALID_ARGUMENT
	ErrorCode_TRANSPORT
	ErrorCode_API_FAILED
	ErrorCode_REQUEST_FAILED
	ErrorCode_DECODE_FAILED
	ErrorCode_CONFIG_INVALID
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_UNSPECIFIED:      "UNSPECIFIED",
	ErrorCode_INTERNAL:         "INTERNAL",
	ErrorCode_INVALID_ARGUMENT: "INVALID_ARGUMENT",
	ErrorCode_TRANSPORT:        "TRANSPORT",
	ErrorCode_API_FAILED:       "API_FAILED",
	ErrorCode_REQUEST_FAILED:   "REQUEST_FAILED",
	ErrorCode_DECODE_FAILED:    "DECODE_FAILED",
	ErrorCode_CONFIG_INVALID:   "CONFIG_INVALID",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
