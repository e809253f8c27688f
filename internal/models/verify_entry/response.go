package models

// VerifyEntryResponse carries only digest equality. The witness signature is
// deliberately not exposed on the public verify endpoint.
type VerifyEntryResponse struct {
	OK bool `json:"ok"`
}
