package woavsdk

// SessionRequest is the body of POST /api/auth/session.
type SessionRequest struct {
	IDToken string `json:"idToken"`
}

// StatusResponse is returned by endpoints that only report success.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusSuccess is the only Status value the server sends.
const StatusSuccess = "success"

// SessionResponse describes the caller's current session.
type SessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	UID           string `json:"uid"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`

	// Unix seconds.
	AuthTime  int64 `json:"authTime"`
	IssuedAt  int64 `json:"issuedAt"`
	ExpiresAt int64 `json:"expiresAt"`
}

// SignUpRequest creates an email/password account.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"displayName" validate:"max=64"`
}

// SignInRequest signs in with email and password.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=128"`
}

// SignInResponse carries a fresh ID token. ExpiresIn is in seconds.
type SignInResponse struct {
	IDToken   string `json:"idToken"`
	LocalID   string `json:"localId"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks lists per-dependency readiness on /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
	Identity string `json:"identity"`
	Replay   string `json:"replay"`
}

// JWK is one published verification key.
type JWK struct {
	Kty string `json:"kty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	Kid string `json:"kid,omitempty"`
	Crv string `json:"crv,omitempty"`
	X   string `json:"x,omitempty"`
	Y   string `json:"y,omitempty"`
}

// JWKSResponse is the body of /.well-known/jwks.json.
type JWKSResponse struct {
	Keys []JWK `json:"keys"`
}
