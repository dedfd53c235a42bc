package signer

import (
	"bytes"
	"crypto"
	"fmt"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/ProtonMail/go-crypto/openpgp/packet"
)

// GPGSigner implements Signer interface using GPG
type GPGSigner struct {
	entity *openpgp.Entity
}

// NewGPGSigner creates a new GPG signer from a private key file
func NewGPGSigner(keyPath, passphrase string) (*GPGSigner, error) {
	if keyPath == "" {
		return nil, fmt.Errorf("key path is empty")
	}

	keyFile, err := os.Open(keyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open key file: %w", err)
	}
	defer keyFile.Close()

	// Try to parse as armored key first, fall back to binary
	entityList, err := openpgp.ReadArmoredKeyRing(keyFile)
	if err != nil {
		keyFile.Seek(0, 0)
		entityList, err = openpgp.ReadKeyRing(keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key: %w", err)
		}
	}

	if len(entityList) == 0 {
		return nil, fmt.Errorf("no keys found in key file")
	}

	entity := entityList[0]

	if passphrase != "" {
		if entity.PrivateKey != nil && entity.PrivateKey.Encrypted {
			if err := entity.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
				return nil, fmt.Errorf("failed to decrypt private key: %w", err)
			}
		}

		for _, subkey := range entity.Subkeys {
			if subkey.PrivateKey != nil && subkey.PrivateKey.Encrypted {
				if err := subkey.PrivateKey.Decrypt([]byte(passphrase)); err != nil {
					return nil, fmt.Errorf("failed to decrypt subkey: %w", err)
				}
			}
		}
	}

	return &GPGSigner{entity: entity}, nil
}

// SignDetached creates a detached armored signature
func (s *GPGSigner) SignDetached(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	err := openpgp.ArmoredDetachSign(&buf, s.entity, bytes.NewReader(data), &packet.Config{
		DefaultHash: crypto.SHA512,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create detached signature: %w", err)
	}

	return buf.Bytes(), nil
}

// GetPublicKey returns the public key in armored format
func (s *GPGSigner) GetPublicKey() ([]byte, error) {
	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		return nil, err
	}

	if err := s.entity.Serialize(w); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
