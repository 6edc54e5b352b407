package imagehost

// HostedResult is the preferred outcome: the image lives on the remote host.
type HostedResult struct {
	URL string `json:"url"`
}

// FallbackResult keeps the image inline (base64) when hosting failed or is
// not configured. Name and Size come from the original upload.
type FallbackResult struct {
	Name string `json:"name"`
	Data string `json:"data"`
	Size int64  `json:"size"`
}

// StoreResult carries exactly one of the two outcomes.
type StoreResult struct {
	Hosted   *HostedResult
	Fallback *FallbackResult
}

type uploadResponse struct {
	URL string `json:"url"`
}
