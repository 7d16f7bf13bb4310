package domain

// ExternalIdentity is the profile an external provider (e.g. Google) hands
// back after its own handshake. The core exchanges it for a local User,
// creating one on first sight.
type ExternalIdentity struct {
	ID     string
	Name   string
	Email  string
	Avatar string
}
