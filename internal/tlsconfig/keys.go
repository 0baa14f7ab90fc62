package tlsconfig

import (
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"strings"

	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/ssh"
)

// findKeyBlock returns the first PEM block whose type ends in
// "PRIVATE KEY", skipping parameter blocks and certificates.
func findKeyBlock(data []byte) *pem.Block {
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return nil
		}
		if strings.HasSuffix(block.Type, "PRIVATE KEY") {
			return block
		}
	}
}

func isLegacyEncrypted(b *pem.Block) bool {
	return strings.Contains(b.Headers["Proc-Type"], "ENCRYPTED")
}

// decryptKey returns keyPEM unchanged when it is not encrypted.  Encrypted
// keys (legacy Proc-Type PEM or PKCS#8 "ENCRYPTED PRIVATE KEY") are
// decrypted with password and re-encoded as plain PKCS#8 PEM, which
// tls.X509KeyPair understands.
func decryptKey(keyPEM []byte, password string) ([]byte, error) {
	block := findKeyBlock(keyPEM)
	if block == nil {
		return nil, ErrNoPrivateKey
	}

	var (
		key any
		err error
	)
	switch {
	case block.Type == "ENCRYPTED PRIVATE KEY":
		if password == "" {
			return nil, ErrKeyPasswordRequired
		}
		key, err = pkcs8.ParsePKCS8PrivateKey(block.Bytes, []byte(password))
	case isLegacyEncrypted(block):
		if password == "" {
			return nil, ErrKeyPasswordRequired
		}
		key, err = ssh.ParseRawPrivateKeyWithPassphrase(pem.EncodeToMemory(block), []byte(password))
	default:
		return keyPEM, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tlsconfig: decrypt private key: %w", err)
	}

	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("tlsconfig: re-encode private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
