// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package devicetoken gates the device server with a gateway-issued JWT.
// Device gateways sit between controllers and this service; each gateway
// carries a shared-secret HS256 token identifying it.
package devicetoken

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// Options configures the gateway token check
type Options struct {
	// Enabled disables the middleware entirely when false, for local setups
	// without a gateway in front
	Enabled bool
	Secret  string
	Issuer  string
}

type gatewayClaimsCtxKey struct{}

var gatewayClaimsKey gatewayClaimsCtxKey

// GatewayClaims are the claims of a gateway token
type GatewayClaims struct {
	Gateway string `json:"gw"`
	jwt.RegisteredClaims
}

// GatewayTokenAuthMiddleware validates the Authorization bearer token of
// every device request against the shared gateway secret.
func GatewayTokenAuthMiddleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !opts.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			tokenString := r.Header.Get("Authorization")
			if tokenString == "" {
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "missing header: Authorization")
				return
			}
			tokenString = strings.Replace(tokenString, "Bearer ", "", 1)

			claims, err := validateGatewayToken(tokenString, opts)
			if err != nil {
				slog.Error("Gateway token validation failed", "error", err)
				utils.WriteErrorResponse(w, http.StatusUnauthorized, "invalid gateway token")
				return
			}
			ctx := context.WithValue(r.Context(), gatewayClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetGatewayClaims returns the validated gateway claims of the request
func GetGatewayClaims(ctx context.Context) *GatewayClaims {
	claims, ok := ctx.Value(gatewayClaimsKey).(*GatewayClaims)
	if !ok {
		return nil
	}
	return claims
}

func validateGatewayToken(tokenString string, opts Options) (*GatewayClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GatewayClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(opts.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	claims, ok := token.Claims.(*GatewayClaims)
	if !ok {
		return nil, fmt.Errorf("failed to extract claims")
	}
	if opts.Issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || strings.TrimSpace(issuer) != strings.TrimSpace(opts.Issuer) {
			return nil, fmt.Errorf("invalid issuer: expected %s, got %s", opts.Issuer, issuer)
		}
	}
	return claims, nil
}
