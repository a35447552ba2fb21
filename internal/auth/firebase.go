package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// certsURL serves the x509 certificates Firebase signs ID tokens with.
const certsURL = "https://www.googleapis.com/robot/v1/metadata/x509/securetoken@system.gserviceaccount.com"

// FirebaseVerifier validates Firebase ID tokens for one project without the
// admin SDK: RS256 signature against the published securetoken certificates
// plus issuer/audience checks.
type FirebaseVerifier struct {
	projectID   string
	revocations *Revocations
	client      *http.Client

	mu         sync.Mutex
	keys       map[string]*rsa.PublicKey
	keysExpiry time.Time
}

var _ Verifier = (*FirebaseVerifier)(nil)

func NewFirebaseVerifier(projectID string, revocations *Revocations) *FirebaseVerifier {
	return &FirebaseVerifier{
		projectID:   projectID,
		revocations: revocations,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Claims, error) {
	parsed, err := jwt.Parse(token, v.keyFunc(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer("https://securetoken.google.com/"+v.projectID),
		jwt.WithAudience(v.projectID),
	)
	if err != nil {
		return Claims{}, classify(err)
	}

	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}
	claims := claimsFromMap(mc)
	if claims.UID == "" {
		return Claims{}, ErrTokenInvalid
	}
	if revokedAt(v.revocations, claims.UID, mc) {
		return Claims{}, ErrTokenRevoked
	}
	return claims, nil
}

func (v *FirebaseVerifier) keyFunc(ctx context.Context) jwt.Keyfunc {
	return func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, errors.New("token has no kid header")
		}
		keys, err := v.signingKeys(ctx)
		if err != nil {
			return nil, err
		}
		key, ok := keys[kid]
		if !ok {
			return nil, fmt.Errorf("no certificate for kid %s", kid)
		}
		return key, nil
	}
}

// signingKeys returns the cached certificate set, refreshing it when the
// Cache-Control window has passed.
func (v *FirebaseVerifier) signingKeys(ctx context.Context) (map[string]*rsa.PublicKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.keys != nil && time.Now().Before(v.keysExpiry) {
		return v.keys, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, certsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build certs request: %w", err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch signing certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch signing certs: status %d", resp.StatusCode)
	}

	var certs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, fmt.Errorf("decode signing certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(certs))
	for kid, certPEM := range certs {
		block, _ := pem.Decode([]byte(certPEM))
		if block == nil {
			return nil, fmt.Errorf("bad certificate PEM for kid %s", kid)
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse certificate for kid %s: %w", kid, err)
		}
		pub, ok := cert.PublicKey.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("certificate for kid %s is not RSA", kid)
		}
		keys[kid] = pub
	}

	v.keys = keys
	v.keysExpiry = time.Now().Add(cacheWindow(resp.Header.Get("Cache-Control")))
	return keys, nil
}

// cacheWindow extracts max-age from a Cache-Control header, with a floor so a
// missing header does not hammer the certificate endpoint.
func cacheWindow(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return 5 * time.Minute
}

// classify maps library errors onto the three distinguishable token failures;
// everything else collapses to a generic invalid-token error.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	default:
		return ErrTokenInvalid
	}
}

func claimsFromMap(mc jwt.MapClaims) Claims {
	str := func(key string) string {
		s, _ := mc[key].(string)
		return s
	}
	c := Claims{
		Email:   str("email"),
		Phone:   str("phone_number"),
		Name:    str("name"),
		Picture: str("picture"),
	}
	c.UID, _ = mc.GetSubject()
	if fb, ok := mc["firebase"].(map[string]any); ok {
		c.SignInProvider, _ = fb["sign_in_provider"].(string)
	}
	return c
}

func revokedAt(r *Revocations, uid string, mc jwt.MapClaims) bool {
	iat, err := mc.GetIssuedAt()
	if err != nil || iat == nil {
		return false
	}
	return r.Revoked(uid, iat.Time)
}
