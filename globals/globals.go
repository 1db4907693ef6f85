package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte("dev_only_secret")

func init() {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		JwtSecret = []byte(s)
	}
}

// Context keys
type ContextKey string

const PrincipalKey ContextKey = "principal"

var Ctx = context.Background()
