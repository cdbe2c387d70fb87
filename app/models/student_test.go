package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStudentKeyFromName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Ann", want: "Ann"},
		{name: "space and punctuation", in: "Jane Doe!", want: "Jane_Doe_"},
		{name: "trims surrounding whitespace", in: "  Ann K. ", want: "Ann_K_"},
		{name: "digits kept", in: "Ann 2", want: "Ann_2"},
		{name: "empty", in: "", want: ""},
		{name: "whitespace only", in: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, StudentKeyFromName(tt.in))
		})
	}
}

func TestStudentKeyFromNameIdempotent(t *testing.T) {
	for _, in := range []string{"Jane Doe!", "Ann K.", "a-b_c", "Élodie N."} {
		once := StudentKeyFromName(in)
		require.Equal(t, once, StudentKeyFromName(once), "sanitizing %q twice", in)
	}
}

func TestStudentRecordValid(t *testing.T) {
	require.False(t, (&StudentRecord{}).Valid())
	require.True(t, (&StudentRecord{Name: "Ann"}).Valid())
}
