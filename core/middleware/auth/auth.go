package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

// HeaderName is the request header carrying the API key.
const HeaderName = "X-API-Key"

// Config configures the API key middleware.
type Config struct {
	// ApiKey is the expected key. Empty disables the check.
	ApiKey string
	// Next skips the middleware when it returns true.
	Next func(c *fiber.Ctx) bool
}

// New returns a middleware rejecting requests without the configured API key.
// The key is read from the X-API-Key header or a Bearer authorization header.
func New(cfg Config) fiber.Handler {
	if cfg.ApiKey == "" {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	expected := []byte(cfg.ApiKey)
	validate := func(_ *fiber.Ctx, key string) (bool, error) {
		if subtle.ConstantTimeCompare([]byte(key), expected) == 1 {
			return true, nil
		}
		return false, keyauth.ErrMissingOrMalformedAPIKey
	}
	unauthorized := func(c *fiber.Ctx, _ error) error {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid or missing API key",
		})
	}

	header := keyauth.New(keyauth.Config{
		Next:         cfg.Next,
		KeyLookup:    "header:" + HeaderName,
		Validator:    validate,
		ErrorHandler: unauthorized,
	})
	bearer := keyauth.New(keyauth.Config{
		Next:         cfg.Next,
		KeyLookup:    "header:" + fiber.HeaderAuthorization,
		AuthScheme:   "Bearer",
		Validator:    validate,
		ErrorHandler: unauthorized,
	})

	return func(c *fiber.Ctx) error {
		if c.Get(HeaderName) == "" && c.Get(fiber.HeaderAuthorization) != "" {
			return bearer(c)
		}
		return header(c)
	}
}
