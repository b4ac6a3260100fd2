package errors

// ErrorCode is the machine readable code carried by every AppError
type ErrorCode int32

const (
	ErrorCode_HTTP_OK           ErrorCode = 200
	ErrorCode_INTERNAL          ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT  ErrorCode = 1001
	ErrorCode_NOT_FOUND         ErrorCode = 1002
	ErrorCode_INVALID_PAYLOAD   ErrorCode = 1003
	ErrorCode_PAYLOAD_TOO_LARGE ErrorCode = 1004
	ErrorCode_TIMEOUT           ErrorCode = 1005

	// Audio
	ErrorCode_AUDIO_EMPTY               ErrorCode = 2000
	ErrorCode_AUDIO_INVALID_SAMPLE_RATE ErrorCode = 2001
	ErrorCode_AUDIO_DECODE_FAILED       ErrorCode = 2002
	ErrorCode_AUDIO_UNSUPPORTED_FORMAT  ErrorCode = 2003

	// Scoring
	ErrorCode_SCORING_FAILED             ErrorCode = 3000
	ErrorCode_SCORING_INVALID_DEFINITION ErrorCode = 3001
	ErrorCode_SCORING_CONFIG_UNAVAILABLE ErrorCode = 3002

	// Transcription
	ErrorCode_TRANSCRIPTION_FAILED      ErrorCode = 4000
	ErrorCode_TRANSCRIPTION_UNAVAILABLE ErrorCode = 4001

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 5000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 5001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 5002
	ErrorCode_DB_CONNECTION_FAILED            ErrorCode = 5100
	ErrorCode_DB_QUERY_FAILED                 ErrorCode = 5101
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "HTTP_OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_PAYLOAD_TOO_LARGE:               "PAYLOAD_TOO_LARGE",
	ErrorCode_TIMEOUT:                         "TIMEOUT",
	ErrorCode_AUDIO_EMPTY:                     "AUDIO_EMPTY",
	ErrorCode_AUDIO_INVALID_SAMPLE_RATE:       "AUDIO_INVALID_SAMPLE_RATE",
	ErrorCode_AUDIO_DECODE_FAILED:             "AUDIO_DECODE_FAILED",
	ErrorCode_AUDIO_UNSUPPORTED_FORMAT:        "AUDIO_UNSUPPORTED_FORMAT",
	ErrorCode_SCORING_FAILED:                  "SCORING_FAILED",
	ErrorCode_SCORING_INVALID_DEFINITION:      "SCORING_INVALID_DEFINITION",
	ErrorCode_SCORING_CONFIG_UNAVAILABLE:      "SCORING_CONFIG_UNAVAILABLE",
	ErrorCode_TRANSCRIPTION_FAILED:            "TRANSCRIPTION_FAILED",
	ErrorCode_TRANSCRIPTION_UNAVAILABLE:       "TRANSCRIPTION_UNAVAILABLE",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}
