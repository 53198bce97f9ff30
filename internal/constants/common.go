package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "success"
	APIStatusError APIStatus = "error"

	CachePrefixVoiceChannels CachePrefix = "VOICE_CHANNELS"
	CachePrefixEligibility   CachePrefix = "ELIG_"

	RateLimitKeyPrefix = "access_req:"
)
