package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/prodline/internal/config"
	"github.com/example/prodline/internal/core/schema"
	"github.com/example/prodline/internal/ctxutil"
)

// operatorContext returns a context carrying the acting operator, resolved
// from environment, config file and OS user in that order.
func operatorContext() context.Context {
	cwd, err := os.Getwd()
	var cfg *config.Config
	if err == nil {
		// Missing config is fine; the env/user fallbacks still apply.
		cfg, _ = config.LoadConfig(cwd)
	}
	return ctxutil.WithOperator(context.Background(), config.Operator(cfg))
}

// whichFromFlag maps the --completion flag to a schema selector.
func whichFromFlag(completion bool) schema.Which {
	if completion {
		return schema.Completion
	}
	return schema.InProcess
}

// parseSetFlags parses repeated --set name=value flags.
func parseSetFlags(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", s)
		}
		values[name] = value
	}
	return values, nil
}
