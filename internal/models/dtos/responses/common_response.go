package responses

// APIResponse is the stable envelope every endpoint returns:
// {status, message, data?, errors?}.
type APIResponse struct {
	Status       string        `json:"status"`
	Message      string        `json:"message"`
	ResponseTime string        `json:"response_time,omitempty"`
	Data         any           `json:"data,omitempty"`
	Errors       *ErrorDetails `json:"errors,omitempty"`
}

// ErrorDetails carries the machine-readable code plus any structured context
// (e.g. the missing-tag list for MISSING_REQUIRED_TAGS).
type ErrorDetails struct {
	Code        string   `json:"code"`
	MissingTags []string `json:"missing_tags,omitempty"`
}
