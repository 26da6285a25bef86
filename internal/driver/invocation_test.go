package driver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgs_Plain(t *testing.T) {
	cfg := RuntimeInvocationConfig{Executable: "../dist/mu-shell", Flags: []string{"-p"}}
	assert.Equal(t, []string{"-p", "-e(+ 1 2)"}, cfg.Args("(+ 1 2)"))
}

func TestArgs_PreloadAndInit(t *testing.T) {
	cfg := RuntimeInvocationConfig{
		Executable: "../dist/mu-shell",
		Preload:    []string{"../dist/prelude.l"},
		Init:       []string{"(prelude:%init-ns)"},
		Flags:      []string{"-p"},
	}
	assert.Equal(t, []string{
		"-l../dist/prelude.l",
		"-q(prelude:%init-ns)",
		"-p",
		"-e(car '(1))",
	}, cfg.Args("(car '(1))"))
}

func TestArgs_CustomSpellings(t *testing.T) {
	cfg := RuntimeInvocationConfig{
		Executable: "rt",
		Preload:    []string{"core.l"},
		LoadFlag:   "--load=",
		EvalFlag:   "--eval=",
	}
	assert.Equal(t, []string{"--load=core.l", "--eval=x"}, cfg.Args("x"))
}

func TestValidate(t *testing.T) {
	var ie *InvocationError

	err := RuntimeInvocationConfig{}.Validate()
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "executable", ie.Field)

	err = RuntimeInvocationConfig{Executable: "rt", Timeout: -time.Second}.Validate()
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "timeout", ie.Field)

	err = RuntimeInvocationConfig{Executable: "rt", Env: []string{"NOPE"}}.Validate()
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "env", ie.Field)

	assert.NoError(t, RuntimeInvocationConfig{Executable: "rt", Env: []string{"A=b"}}.Validate())
}

func TestProbeExpand(t *testing.T) {
	got := Probe(DefaultStorageProbe).Expand("(+ 1 2)")
	assert.Equal(t, "(mu:%sdelta (:lambda () (+ 1 2)) :nil)", got)
}
