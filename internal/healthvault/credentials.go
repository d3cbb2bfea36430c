package healthvault

import (
	"math/big"
	"strings"

	"github.com/go-authgate/hvgate/internal/config"
)

// credentials are the parsed application credentials shared by every Conn.
type credentials struct {
	appID       string
	thumbprint  string
	publicKey   *big.Int
	privateKey  *big.Int
	server      string
	shellServer string
}

// parseCredentials converts configured strings into usable credentials.
// Key material must be a positive decimal integer.
func parseCredentials(hv config.HealthVault) (*credentials, error) {
	public, err := parseKey(config.KeyPublicKey, hv.PublicKey)
	if err != nil {
		return nil, err
	}
	private, err := parseKey(config.KeyPrivateKey, hv.PrivateKey)
	if err != nil {
		return nil, err
	}

	return &credentials{
		appID:       strings.TrimSpace(hv.AppID),
		thumbprint:  strings.TrimSpace(hv.Thumbprint),
		publicKey:   public,
		privateKey:  private,
		server:      strings.TrimSpace(hv.Server),
		shellServer: strings.TrimSpace(hv.ShellServer),
	}, nil
}

func parseKey(name, value string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(value), 10)
	if !ok {
		return nil, &CredentialError{Key: name, Reason: "must be a decimal integer"}
	}
	if n.Sign() <= 0 {
		return nil, &CredentialError{Key: name, Reason: "must be positive"}
	}
	return n, nil
}

// baseURL accepts either a bare host name or a full URL.
func baseURL(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}
