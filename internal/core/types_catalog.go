package core

// ModelInfo is a single entry of the remote model catalog.
type ModelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ModelList is the catalog response body: {"data":[{"id":...}]}.
type ModelList struct {
	Data []ModelInfo `json:"data"`
}

// KeyExchangeRequest is the body posted to the auth/keys endpoint.
type KeyExchangeRequest struct {
	Code string `json:"code"`
}

// KeyExchangeResponse carries the durable API key issued for a code.
type KeyExchangeResponse struct {
	Key string `json:"key"`
}
