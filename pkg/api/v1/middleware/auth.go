// Package middleware provides fiber middleware for the v1 API
package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/studyforge/studyforge/pkg/types"
)

// HeaderAPIKey is the header carrying owner and worker credentials
const HeaderAPIKey = "X-API-Key"

// ownerIDLocal is the fiber locals key holding the verified owner ID
const ownerIDLocal = "owner_id"

// OwnerVerifier resolves request credentials to an owner identity. It is
// the boundary to the external authentication system; the core never sees
// raw credentials.
type OwnerVerifier interface {
	VerifyOwner(ctx context.Context, token string) (uint, error)
}

// WorkerVerifier checks pipeline worker credentials
type WorkerVerifier interface {
	VerifyWorker(ctx context.Context, token string) error
}

// StaticVerifier verifies credentials against a fixed token table, wired
// from environment variables at process start.
type StaticVerifier struct {
	owners    map[string]uint
	workerKey string
}

// NewStaticVerifier builds a verifier from an owner token table and a
// shared worker key
func NewStaticVerifier(owners map[string]uint, workerKey string) *StaticVerifier {
	return &StaticVerifier{owners: owners, workerKey: workerKey}
}

// ParseOwnerKeys parses the OWNER_API_KEYS format "token:ownerID,token:ownerID"
func ParseOwnerKeys(raw string) (map[string]uint, error) {
	owners := make(map[string]uint)
	if raw == "" {
		return owners, nil
	}
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid owner key entry: %q", pair)
		}
		ownerID, err := strconv.ParseUint(parts[1], 10, 32)
		if err != nil || ownerID == 0 {
			return nil, fmt.Errorf("invalid owner id in entry: %q", pair)
		}
		owners[parts[0]] = uint(ownerID)
	}
	return owners, nil
}

// VerifyOwner resolves an owner token to its owner ID
func (v *StaticVerifier) VerifyOwner(_ context.Context, token string) (uint, error) {
	ownerID, ok := v.owners[token]
	if !ok {
		return 0, fmt.Errorf("unknown owner token")
	}
	return ownerID, nil
}

// VerifyWorker checks the shared worker key
func (v *StaticVerifier) VerifyWorker(_ context.Context, token string) error {
	if v.workerKey == "" || token != v.workerKey {
		return fmt.Errorf("unknown worker token")
	}
	return nil
}

// OwnerAuth rejects requests without a valid owner credential and stores
// the verified owner ID for handlers
func OwnerAuth(verifier OwnerVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(HeaderAPIKey)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrUnauthorized("missing credentials"))
		}
		ownerID, err := verifier.VerifyOwner(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrUnauthorized("invalid credentials"))
		}
		c.Locals(ownerIDLocal, ownerID)
		return c.Next()
	}
}

// WorkerAuth rejects requests without the worker credential
func WorkerAuth(verifier WorkerVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get(HeaderAPIKey)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrUnauthorized("missing credentials"))
		}
		if err := verifier.VerifyWorker(c.Context(), token); err != nil {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrUnauthorized("invalid credentials"))
		}
		return c.Next()
	}
}

// OwnerID returns the owner ID stored by OwnerAuth, or 0 if absent
func OwnerID(c *fiber.Ctx) uint {
	ownerID, _ := c.Locals(ownerIDLocal).(uint)
	return ownerID
}
