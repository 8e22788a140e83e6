package wallet

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Signer is the opaque signing capability injected at startup. Consumers see
// the wallet's public identity and can have transactions signed; the key
// material itself never leaves this package.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(tx *solana.Transaction) error
}

type keypairSigner struct {
	priv solana.PrivateKey
	pub  solana.PublicKey
}

// NewSigner builds a Signer from a base58-encoded private key. The public
// key is derived, never supplied separately.
func NewSigner(privateKeyBase58 string) (Signer, error) {
	priv, err := solana.PrivateKeyFromBase58(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("invalid wallet private key: %w", err)
	}
	return &keypairSigner{priv: priv, pub: priv.PublicKey()}, nil
}

func (s *keypairSigner) PublicKey() solana.PublicKey { return s.pub }

// Sign attaches this wallet's signature to a decoded transaction.
func (s *keypairSigner) Sign(tx *solana.Transaction) error {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.pub) {
			return &s.priv
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sign transaction: %w", err)
	}
	return nil
}
