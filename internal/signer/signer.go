package signer

// Signer interface for signing structural documents
type Signer interface {
	// SignDetached creates a detached armored signature (METS.xml.asc)
	SignDetached(data []byte) ([]byte, error)

	// GetPublicKey returns the public key
	GetPublicKey() ([]byte, error)
}
