package http

import (
	"net/http"

	"github.com/woavlite/woav/pkg/httpx"
	"github.com/woavlite/woav/pkg/jwtx"
	"github.com/woavlite/woav/pkg/woavsdk"
)

// JWKSHandler publishes the keys that verify ID tokens and session cookies.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify ID tokens and session cookies.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	woavsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get]
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := woavsdk.JWKSResponse{Keys: []woavsdk.JWK{}}
		if keys != nil {
			for _, k := range keys.PublicJWKS().Keys {
				resp.Keys = append(resp.Keys, woavsdk.JWK(k))
			}
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
