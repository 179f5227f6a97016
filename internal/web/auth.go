package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const sessionCookieName = "datepicker_session"

// sessionToken is the signed cookie payload. Sub is the browser session id.
type sessionToken struct {
	Exp int64  `json:"exp"`
	Sub string `json:"sub"`
}

func secretKeyPath(dir string) string {
	return filepath.Join(filepath.Clean(strings.TrimSpace(dir)), "web", "secret.key")
}

func loadOrInitSecretKey(dir string) ([]byte, error) {
	path := secretKeyPath(dir)
	if b, err := os.ReadFile(path); err == nil && len(strings.TrimSpace(string(b))) > 0 {
		return []byte(strings.TrimSpace(string(b))), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	enc := base64.RawURLEncoding.EncodeToString(raw)
	if err := os.WriteFile(path, []byte(enc+"\n"), 0o600); err != nil {
		return nil, err
	}
	return []byte(enc), nil
}

func signToken(secret []byte, tok sessionToken) (string, error) {
	b, err := json.Marshal(tok)
	if err != nil {
		return "", err
	}
	p := base64.RawURLEncoding.EncodeToString(b)
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	return p + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil)), nil
}

func verifyToken(secret []byte, token string, now time.Time) (sessionToken, error) {
	p, sig, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok {
		return sessionToken{}, errors.New("invalid token format")
	}
	mac := hmac.New(sha256.New, secret)
	_, _ = mac.Write([]byte(p))
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(mac.Sum(nil), got) {
		return sessionToken{}, errors.New("invalid token signature")
	}
	raw, err := base64.RawURLEncoding.DecodeString(p)
	if err != nil {
		return sessionToken{}, errors.New("invalid token payload")
	}
	var tok sessionToken
	if err := json.Unmarshal(raw, &tok); err != nil {
		return sessionToken{}, errors.New("invalid token payload")
	}
	if tok.Exp == 0 || now.Unix() > tok.Exp {
		return sessionToken{}, errors.New("token expired")
	}
	if strings.TrimSpace(tok.Sub) == "" {
		return sessionToken{}, errors.New("token missing sub")
	}
	return tok, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// sessionID returns the browser session named by the request cookie,
// issuing a fresh signed cookie when it is missing or invalid.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	now := time.Now()
	if c, err := r.Cookie(sessionCookieName); err == nil {
		if tok, err := verifyToken(s.secret, c.Value, now); err == nil {
			return tok.Sub
		}
	}
	id, err := newSessionID()
	if err != nil {
		return "anonymous"
	}
	ttl := s.cfgSnapshot().SessionTTL
	v, err := signToken(s.secret, sessionToken{Sub: id, Exp: now.Add(ttl).Unix()})
	if err != nil {
		return id
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    v,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
