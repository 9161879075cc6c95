package common

import (
	"context"
	"crypto/ed25519"
	"crypto/x509"
	"encoding/pem"
	"fmt"

	kms "cloud.google.com/go/kms/apiv1"
	"cloud.google.com/go/kms/apiv1/kmspb"
	"github.com/gagliardetto/solana-go"
	gax "github.com/googleapis/gax-go/v2"
)

type GCPKeyManagementClient interface {
	Close() error
	GetPublicKey(ctx context.Context, req *kmspb.GetPublicKeyRequest, opts ...gax.CallOption) (*kmspb.PublicKey, error)
	AsymmetricSign(ctx context.Context, req *kmspb.AsymmetricSignRequest, opts ...gax.CallOption) (*kmspb.AsymmetricSignResponse, error)
	GetCryptoKeyVersion(ctx context.Context, req *kmspb.GetCryptoKeyVersionRequest, opts ...gax.CallOption) (*kmspb.CryptoKeyVersion, error)
}

// GcpKmsSigner signs with an EC_SIGN_ED25519 key version held in Cloud KMS
type GcpKmsSigner struct {
	client    GCPKeyManagementClient
	keyName   string
	publicKey solana.PublicKey
}

var _ Signer = &GcpKmsSigner{}

var NewGCPKeyManagementClient = func(ctx context.Context) (GCPKeyManagementClient, error) {
	return kms.NewKeyManagementClient(ctx)
}

func NewGcpKmsSigner(keyName string) (*GcpKmsSigner, error) {
	client, err := NewGCPKeyManagementClient(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to create KMS client: %w", err)
	}

	keyVersionDetails, err := resolveKeyVersionDetails(client, keyName)
	if err != nil {
		return nil, fmt.Errorf("failed to get key version details: %w", err)
	}

	if keyVersionDetails.Algorithm != kmspb.CryptoKeyVersion_EC_SIGN_ED25519 {
		return nil, fmt.Errorf("key algorithm is not EC_SIGN_ED25519")
	}

	publicKey, err := resolvePublicKey(client, keyName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve public key: %w", err)
	}

	return &GcpKmsSigner{
		client:    client,
		keyName:   keyName,
		publicKey: publicKey,
	}, nil
}

func (s *GcpKmsSigner) Destroy() {
	s.client.Close()
}

// Sign sends the raw message, ed25519 keys in KMS do not accept a digest
func (s *GcpKmsSigner) Sign(message []byte) (solana.Signature, error) {
	req := &kmspb.AsymmetricSignRequest{
		Name: s.keyName,
		Data: message,
	}
	resp, err := s.client.AsymmetricSign(context.Background(), req)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("asymmetric sign operation: %w", err)
	}

	if len(resp.Signature) != ed25519.SignatureSize {
		return solana.Signature{}, fmt.Errorf("signature length is not %d bytes", ed25519.SignatureSize)
	}

	signature := solana.SignatureFromBytes(resp.Signature)
	if err := VerifySignature(s.publicKey, message, signature); err != nil {
		return solana.Signature{}, fmt.Errorf("signature verification failed")
	}

	return signature, nil
}

func (s *GcpKmsSigner) PublicKey() solana.PublicKey {
	return s.publicKey
}

func resolvePublicKey(client GCPKeyManagementClient, keyName string) (solana.PublicKey, error) {
	publicKeyResp, err := client.GetPublicKey(context.Background(), &kmspb.GetPublicKeyRequest{Name: keyName})
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get public key: %w", err)
	}

	publicKeyPem := publicKeyResp.Pem

	block, _ := pem.Decode([]byte(publicKeyPem))
	if block == nil {
		return solana.PublicKey{}, fmt.Errorf("public key %q PEM empty: %.130q", keyName, publicKeyPem)
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("public key %q PEM block %q: %w", keyName, block.Type, err)
	}

	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("public key %q is not ed25519", keyName)
	}

	return solana.PublicKeyFromBytes(edKey), nil
}

func resolveKeyVersionDetails(client GCPKeyManagementClient, keyName string) (*kmspb.CryptoKeyVersion, error) {
	req := &kmspb.GetCryptoKeyVersionRequest{
		Name: keyName,
	}

	resp, err := client.GetCryptoKeyVersion(context.Background(), req)
	if err != nil {
		return nil, fmt.Errorf("failed to get key version details: %w", err)
	}

	return resp, nil
}
