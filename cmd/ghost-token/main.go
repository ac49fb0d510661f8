package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lfapurpose/ghost-gateway/config"
	"github.com/lfapurpose/ghost-gateway/internal/auth"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run mints a Ghost admin token, or verifies one with -verify.
// The admin key comes from -key or the same environment the server reads.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ghost-token", flag.ContinueOnError)
	fs.SetOutput(stderr)

	key := fs.String("key", "", "admin API key as <id>:<secretHex> (default: GHOST_ADMIN_API_KEY)")
	audience := fs.String("aud", auth.DefaultAudience, "aud claim; empty omits it")
	ttl := fs.Duration("ttl", auth.DefaultTTL, "token lifetime")
	header := fs.Bool("header", false, "print a full Authorization header value")
	verify := fs.String("verify", "", "verify this token instead of minting one and print its claims")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	combined := *key
	if combined == "" {
		cfg, err := config.New(ctx)
		if err != nil {
			fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
			return 1
		}
		combined = cfg.Ghost.AdminKey
	}
	if combined == "" {
		fmt.Fprintln(stderr, "no admin key: pass -key or set GHOST_ADMIN_API_KEY")
		return 1
	}

	adminKey, err := auth.ParseAdminKey(combined)
	if err != nil {
		fmt.Fprintf(stderr, "invalid admin key: %v\n", err)
		return 1
	}

	if *verify != "" {
		return verifyToken(*verify, adminKey, *audience, stdout, stderr)
	}

	signer := auth.NewSigner(adminKey, auth.WithAudience(*audience), auth.WithTTL(*ttl))
	token, err := signer.Token()
	if err != nil {
		fmt.Fprintf(stderr, "failed to sign token: %v\n", err)
		return 1
	}

	if *header {
		fmt.Fprintln(stdout, auth.AuthorizationHeader(token))
	} else {
		fmt.Fprintln(stdout, token)
	}
	return 0
}

func verifyToken(token string, key auth.AdminKey, audience string, stdout, stderr io.Writer) int {
	opts := []jwt.ParserOption{jwt.WithLeeway(5 * time.Second)}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}

	claims, err := auth.Verify(token, key.Secret, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "token rejected: %v\n", err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(claims); err != nil {
		fmt.Fprintf(stderr, "failed to print claims: %v\n", err)
		return 1
	}
	return 0
}
