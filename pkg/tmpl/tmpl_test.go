package tmpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	type header struct {
		Old   string
		New   string
		Count int
	}

	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "struct data",
			tmpl: "{{ .Count }} comments on {{ .New }}",
			data: header{New: "plan.md", Count: 2},
			want: "2 comments on plan.md",
		},
		{
			name: "no actions",
			tmpl: "Please address these:",
			data: nil,
			want: "Please address these:",
		},
		{
			name: "base of a path",
			tmpl: "Feedback on {{ base .New }}",
			data: header{New: "docs/plans/plan.md"},
			want: "Feedback on plan.md",
		},
		{
			name: "upper",
			tmpl: "{{ upper .Old }}",
			data: header{Old: "main:plan.md"},
			want: "MAIN:PLAN.MD",
		},
		{
			name: "shq with single quotes",
			tmpl: "echo {{ .New | shq }}",
			data: header{New: "it's.md"},
			want: `echo 'it'\''s.md'`,
		},
		{
			name: "shq empty",
			tmpl: "echo {{ .New | shq }}",
			data: header{},
			want: "echo ''",
		},
		{
			name:    "missing map key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"New": "plan.md"},
			wantErr: true,
		},
		{
			name:    "unknown field errors",
			tmpl:    "{{ .Title }}",
			data:    header{},
			wantErr: true,
		},
		{
			name:    "invalid syntax",
			tmpl:    "{{ .New }",
			data:    header{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate("Feedback on {{ .New }}:"))
	require.NoError(t, Validate("plain text"))

	err := Validate("{{ if .New }}")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse template")
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("{{ .New }}"))
	assert.False(t, IsTemplate("Please address the following"))
}
