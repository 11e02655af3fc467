package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"chirp/internal/cache"
	"chirp/internal/models"
)

const sessionCookieName = "chirp_session"

// sessionRecord is what the session store keeps per active login.
type sessionRecord struct {
	AccountID int    `json:"account_id"`
	Username  string `json:"username"`
	IssuedAt  int64  `json:"issued_at"`
}

// establishSession mints a signed session token for the account, stores the
// session in Redis keyed by the token's jti, and sets the session cookie.
// Best effort: a failure here is logged by callers' middleware, never
// surfaced to the client.
func (s *Server) establishSession(c *fiber.Ctx, account *models.Account) {
	token, jti, err := s.generateToken(account)
	if err != nil {
		return
	}

	ttl := time.Duration(s.config.SessionTTLMinutes) * time.Minute
	record := sessionRecord{
		AccountID: account.ID,
		Username:  account.Username,
		IssuedAt:  time.Now().Unix(),
	}
	_ = cache.SetJSON(c.UserContext(), cache.SessionKey(jti), record, ttl)

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// GetSession handles GET /session. It resolves the caller's session cookie
// back to the logged-in account, falling back to the database when the
// session store has no record (Redis flush, restart).
func (s *Server) GetSession(c *fiber.Ctx) error {
	tokenString := c.Cookies(sessionCookieName)
	if tokenString == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("No active session"))
	}

	claims, err := s.parseToken(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired session"))
	}

	accountID, err := accountIDFromClaims(claims)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired session"))
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" {
		var record sessionRecord
		found, err := cache.GetJSON(c.UserContext(), cache.SessionKey(jti), &record)
		if err == nil && found {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"id":       record.AccountID,
				"username": record.Username,
			})
		}
	}

	account, err := s.accountService.GetByID(c.UserContext(), accountID)
	if err != nil || account == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired session"))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":       account.ID,
		"username": account.Username,
	})
}

// Logout handles POST /logout. It drops the session record and clears the
// cookie. Logging out without a session is still a 200.
func (s *Server) Logout(c *fiber.Ctx) error {
	tokenString := c.Cookies(sessionCookieName)
	if tokenString != "" {
		if claims, err := s.parseToken(tokenString); err == nil {
			if jti, ok := claims["jti"].(string); ok && jti != "" {
				cache.Invalidate(c.UserContext(), cache.SessionKey(jti))
			}
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Path:     "/",
	})

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Logged out"})
}

// generateToken creates a signed session JWT for the given account and
// returns the token with its jti.
func (s *Server) generateToken(account *models.Account) (string, string, error) {
	if s.config.JWTSecret == "" {
		return "", "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	jti := uuid.New().String()
	claims := jwt.MapClaims{
		"sub": strconv.Itoa(account.ID),
		"iss": "chirp-api",
		"aud": "chirp-client",
		"exp": now.Add(time.Duration(s.config.SessionTTLMinutes) * time.Minute).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": jti,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	return signed, jti, err
}

// parseToken validates the session token's signature, issuer and audience.
func (s *Server) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	if issuer, ok := claims["iss"].(string); !ok || issuer != "chirp-api" {
		return nil, fmt.Errorf("invalid token issuer")
	}
	if audience, ok := claims["aud"].(string); !ok || audience != "chirp-client" {
		return nil, fmt.Errorf("invalid token audience")
	}

	return claims, nil
}

func accountIDFromClaims(claims jwt.MapClaims) (int, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("missing subject claim")
	}
	id, err := strconv.Atoi(sub)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject claim")
	}
	return id, nil
}
