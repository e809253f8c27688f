package commitment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// SigAlgHS256 is the only witness signature algorithm in use. It is recorded
// per entry so historical signatures stay identifiable after rotation.
const SigAlgHS256 = "HS256"

// ErrSigningUnavailable is returned when no secret exists for the requested
// key id. Callers decide whether to fail the commit or persist unsigned.
var ErrSigningUnavailable = errors.New("signing secret unavailable")

// Keyring holds the rotatable witness secrets, addressed by key id. New
// signatures always use the active kid; verification looks secrets up by the
// kid recorded on the entry so old signatures stay verifiable after rotation.
type Keyring struct {
	activeKid string
	secrets   map[string][]byte
}

// NewKeyring builds a keyring with the given active kid. Secrets may be
// empty, in which case Sign reports ErrSigningUnavailable.
func NewKeyring(activeKid string, secrets map[string][]byte) *Keyring {
	copied := make(map[string][]byte, len(secrets))
	for kid, secret := range secrets {
		copied[kid] = secret
	}
	return &Keyring{activeKid: activeKid, secrets: copied}
}

// ParseSecrets parses the HBUK_SIGNING_SECRETS format: a comma-separated
// list of kid:secret pairs, e.g. "v1:oldsecret,v2:newsecret".
func ParseSecrets(raw string) (map[string][]byte, error) {
	secrets := make(map[string][]byte)
	if strings.TrimSpace(raw) == "" {
		return secrets, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		kid, secret, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || kid == "" || secret == "" {
			return nil, fmt.Errorf("malformed signing secret pair %q", pair)
		}
		if _, dup := secrets[kid]; dup {
			return nil, fmt.Errorf("duplicate signing kid %q", kid)
		}
		secrets[kid] = []byte(secret)
	}
	return secrets, nil
}

// ActiveKid returns the key id new signatures are issued under.
func (k *Keyring) ActiveKid() string { return k.activeKid }

// Sign produces the witness signature over a digest using the active secret.
// The digest itself is already final; a signature only attests that this
// server observed it at commit time.
func (k *Keyring) Sign(digest string) (sig, alg, kid string, err error) {
	secret, ok := k.secrets[k.activeKid]
	if !ok {
		return "", "", "", fmt.Errorf("kid %q: %w", k.activeKid, ErrSigningUnavailable)
	}
	return hmacHex(secret, digest), SigAlgHS256, k.activeKid, nil
}

// Verify recomputes the signature under the secret identified by kid and
// compares in constant time. A false result is a valid negative, not an
// error; the error case is an unknown kid.
func (k *Keyring) Verify(digest, signature, kid string) (bool, error) {
	secret, ok := k.secrets[kid]
	if !ok {
		return false, fmt.Errorf("kid %q: %w", kid, ErrSigningUnavailable)
	}
	return hmac.Equal([]byte(hmacHex(secret, digest)), []byte(signature)), nil
}

func hmacHex(secret []byte, message string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return hex.EncodeToString(mac.Sum(nil))
}
