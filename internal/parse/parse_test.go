package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		argv []string
		bg   bool
	}{
		{"foreground", "/bin/sleep 1\n", []string{"/bin/sleep", "1"}, false},
		{"background", "/bin/sleep 5 &\n", []string{"/bin/sleep", "5"}, true},
		{"blank", "   \n", nil, false},
		{"extra spaces", "  jobs   \n", []string{"jobs"}, false},
		{"single quotes group words", "./echo 'hello world' x\n", []string{"./echo", "hello world", "x"}, false},
		{"ampersand glued to word stays", "./a b&\n", []string{"./a", "b&"}, false},
		{"word starting with ampersand", "./a &b\n", []string{"./a"}, true},
		{"lone ampersand", "&\n", []string{}, true},
		{"double ampersand", "& &\n", []string{"&"}, true},
		{"no trailing newline", "jobs", []string{"jobs"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Line(tt.line)
			require.NoError(t, err)
			if len(tt.argv) == 0 {
				assert.Empty(t, cmd.Argv)
				assert.True(t, cmd.Empty())
			} else {
				assert.Equal(t, tt.argv, cmd.Argv)
			}
			assert.Equal(t, tt.bg, cmd.Background)
			assert.Equal(t, tt.line, cmd.Line)
		})
	}
}

func TestLineUnterminatedQuote(t *testing.T) {
	cmd, err := Line("./echo 'oops\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "./echo 'oops")
	assert.True(t, cmd.Empty())
}
