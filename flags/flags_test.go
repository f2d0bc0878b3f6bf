package flags

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// TestUniqueFlags asserts that no flag names or env vars collide.
func TestUniqueFlags(t *testing.T) {
	seenNames := make(map[string]struct{})
	seenEnvs := make(map[string]struct{})
	for _, f := range Flags {
		for _, name := range f.Names() {
			_, exists := seenNames[name]
			assert.False(t, exists, "duplicate flag name %s", name)
			seenNames[name] = struct{}{}
		}
		docFlag, ok := f.(cli.DocGenerationFlag)
		require.True(t, ok)
		for _, env := range docFlag.GetEnvVars() {
			_, exists := seenEnvs[env]
			assert.False(t, exists, "duplicate env var %s", env)
			seenEnvs[env] = struct{}{}
			assert.True(t, strings.HasPrefix(env, EnvVarPrefix+"_"),
				"env var %s missing prefix", env)
		}
	}
}

func TestCheckRequired(t *testing.T) {
	app := cli.NewApp()
	newCtx := func(args map[string]string) *cli.Context {
		set := flag.NewFlagSet("test", flag.ContinueOnError)
		for name, value := range args {
			set.String(name, "", "")
			require.NoError(t, set.Set(name, value))
		}
		return cli.NewContext(app, set, nil)
	}

	err := CheckRequired(newCtx(nil))
	require.ErrorContains(t, err, "plan")

	err = CheckRequired(newCtx(map[string]string{PlanFile.Name: "plan.yaml"}))
	require.NoError(t, err)
}
