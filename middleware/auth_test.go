package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminApp mounts AdminRequired behind a stub that plants the caller's
// identity the way AuthRequired would.
func adminApp(role, email string, adminEmails func() map[string]bool) *fiber.App {
	app := fiber.New()
	app.Get("/admin",
		func(c *fiber.Ctx) error {
			c.Locals("role", role)
			c.Locals("email", email)
			return c.Next()
		},
		AdminRequired(adminEmails),
		func(c *fiber.Ctx) error {
			return c.SendStatus(fiber.StatusOK)
		},
	)
	return app
}

func TestAdminRequiredRolePasses(t *testing.T) {
	app := adminApp("admin", "root@example.org", func() map[string]bool { return nil })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminRequiredRejectsRegularUser(t *testing.T) {
	app := adminApp("user", "carol@example.org", func() map[string]bool { return nil })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminRequiredAllowlistCaseInsensitive(t *testing.T) {
	emails := map[string]bool{"carol@example.org": true}
	app := adminApp("user", "Carol@Example.org", func() map[string]bool { return emails })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

// The allow-list can change at runtime through the settings endpoint, so
// the gate must consult it on every request rather than snapshot it at
// route registration.
func TestAdminRequiredReadsAllowlistLive(t *testing.T) {
	emails := map[string]bool{}
	app := adminApp("user", "carol@example.org", func() map[string]bool { return emails })

	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	emails["carol@example.org"] = true
	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	delete(emails, "carol@example.org")
	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
