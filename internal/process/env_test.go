package process

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{"PATH=/usr/bin:/bin", "PATH", "/usr/bin:/bin", true},
		{"EQ=a=b=c", "EQ", "a=b=c", true},
		{"EMPTY=", "EMPTY", "", true},
		{"=C:=C:\\Windows", "", "", false},
		{"no separator", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := ParseLine(tt.line)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.key, key)
			require.Equal(t, tt.value, value)
		})
	}
}

func TestEnvFromList_LastWriteWins(t *testing.T) {
	env := EnvFromList([]string{"A=1", "B=2", "A=3", "junk"})

	require.Equal(t, Env{"A": "3", "B": "2"}, env)
}

func TestEnv_CloneIsIndependent(t *testing.T) {
	orig := Env{"PATH": "/bin"}
	clone := orig.Clone()
	clone["PATH"] = "/changed"

	require.Equal(t, "/bin", orig["PATH"])
	require.NotNil(t, Env(nil).Clone())
}

func TestEnv_MergeAndWithout(t *testing.T) {
	base := Env{"PATH": "/bin", "HOME": "/home/ada"}

	merged := base.Merge(Env{"PATH": "/usr/bin", "LANG": "C"})
	require.Equal(t, Env{"PATH": "/usr/bin", "HOME": "/home/ada", "LANG": "C"}, merged)
	require.Equal(t, "/bin", base.Get("PATH"))

	require.Equal(t, Env{"HOME": "/home/ada"}, base.Without("PATH", "MISSING"))
}

func TestEnv_ListIsSorted(t *testing.T) {
	env := Env{"Z": "1", "A": "2"}

	require.Equal(t, []string{"A", "Z"}, env.Keys())
	require.Equal(t, []string{"A=2", "Z=1"}, env.List())
}
