package cli

import (
	"context"
	"fmt"

	"github.com/meetcute/meetcute-setup/internal/envstore"
)

// loadProcessEnv copies the variables of the env file at path into the
// process environment. Variables already set in the environment win. The
// file is read with envstore, the same parser the editor and the wizard use,
// so quotes and '#' inside a value are kept verbatim. A missing file is not
// an error.
func (a *app) loadProcessEnv(ctx context.Context, path string) error {
	vars, err := envstore.Load(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	applied := 0
	for _, k := range vars.Keys() {
		if _, set := a.lookupEnv(k); set {
			continue
		}
		v, _ := vars.Get(k)
		if err := a.setenv(k, v); err != nil {
			return fmt.Errorf("set %s: %w", k, err)
		}
		applied++
	}
	a.logger.Debug(ctx, "env file loaded", "path", path, "applied", applied, "total", vars.Len())
	return nil
}
