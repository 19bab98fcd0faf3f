package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/middleware"
	"github.com/obidyhasan/Job-Portal-Server-with-JWT/pkg/jwt"
)

// CLI mints a session token for local testing
type CLI struct {
	Key    string        `help:"Signing key; must match the server's ACCESS_KEY." env:"ACCESS_KEY" required:""`
	Issuer string        `help:"Token issuer." env:"SESSION_ISSUER" default:"job-portal"`
	TTL    time.Duration `help:"Token lifetime." env:"SESSION_TTL" default:"5h"`
	Email  string        `help:"Email claim of the session." default:"dev@job-portal.local"`
	Claim  []string      `help:"Extra string claim as key=value; repeatable." placeholder:"KEY=VALUE"`
	JSON   bool          `help:"Output as JSON."`
	Server string        `help:"Server base URL used in the usage hint." default:"http://localhost:5000"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("session-token"),
		kong.Description("Mint a job portal session token for local testing."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	if err := cli.Run(os.Stdout); err != nil {
		kctx.Errorf("%v", err)
		os.Exit(1)
	}
}

// Run signs the token and writes it to out
func (c *CLI) Run(out io.Writer) error {
	identity, err := c.identity()
	if err != nil {
		return err
	}

	tokens, err := jwt.NewService(jwt.Config{
		Secret:     c.Key,
		Issuer:     c.Issuer,
		Expiration: c.TTL,
	})
	if err != nil {
		return fmt.Errorf("create token service: %w", err)
	}

	token, err := tokens.Sign(jwt.Claims{Identity: identity})
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	if c.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"token":      token,
			"cookie":     middleware.SessionCookie,
			"expires_in": int(c.TTL.Seconds()),
			"email":      c.Email,
		})
	}

	fmt.Fprintln(out, "Session Token Generated")
	fmt.Fprintln(out, "=======================")
	fmt.Fprintf(out, "Email:    %s\n", c.Email)
	fmt.Fprintf(out, "Expires:  %s\n", time.Now().Add(c.TTL).Format(time.RFC3339))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Token:")
	fmt.Fprintln(out, token)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  curl --cookie '%s=%s' '%s/apply-jobs?email=%s'\n", middleware.SessionCookie, token, c.Server, c.Email)
	return nil
}

// identity builds the token payload from --email and --claim
func (c *CLI) identity() (map[string]any, error) {
	identity := map[string]any{"email": c.Email}
	for _, kv := range c.Claim {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("claim %q must be key=value", kv)
		}
		identity[key] = value
	}
	if identity["email"] == "" {
		return nil, fmt.Errorf("email must not be empty")
	}
	return identity, nil
}
