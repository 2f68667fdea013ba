package hub

import "os"

// TokenSource resolves the credential used for upstream calls. It is consulted
// on every request and results are never stored by the client.
type TokenSource interface {
	Token() (string, bool)
}

// EnvTokenSource reads the token from a named environment variable.
type EnvTokenSource struct {
	Name string
}

func (s EnvTokenSource) Token() (string, bool) {
	if s.Name == "" {
		return "", false
	}
	val, ok := os.LookupEnv(s.Name)
	if !ok || val == "" {
		return "", false
	}
	return val, true
}

// StaticTokenSource returns a fixed token. Used in tests and benchmarks.
type StaticTokenSource string

func (s StaticTokenSource) Token() (string, bool) {
	return string(s), s != ""
}
