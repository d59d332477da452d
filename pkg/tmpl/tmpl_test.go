package tmpl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    string
		data    any
		want    string
		wantErr bool
	}{
		{
			name: "simple substitution",
			tmpl: "read {{ .Title }}",
			data: map[string]string{"Title": "moby dick"},
			want: "read moby dick",
		},
		{
			name: "struct data",
			tmpl: "{{ .ID }}\t{{ .Title }}",
			data: struct {
				ID    string
				Title string
			}{ID: "ab12cd34", Title: "walden"},
			want: "ab12cd34\twalden",
		},
		{
			name: "no variables",
			tmpl: "static string",
			data: nil,
			want: "static string",
		},
		{
			name:    "missing key errors",
			tmpl:    "{{ .Missing }}",
			data:    map[string]string{"Title": "test"},
			wantErr: true,
		},
		{
			name:    "invalid template syntax",
			tmpl:    "{{ .Title }",
			data:    map[string]string{"Title": "test"},
			wantErr: true,
		},
		{
			name: "join",
			tmpl: `{{ join .Terms ", " }}`,
			data: map[string][]string{"Terms": {"gossamer", "ineffable"}},
			want: "gossamer, ineffable",
		},
		{
			name: "case",
			tmpl: "{{ upper .A }} {{ lower .B }}",
			data: map[string]string{"A": "loud", "B": "QUIET"},
			want: "LOUD quiet",
		},
		{
			name: "truncate",
			tmpl: "{{ truncate 8 .Title }}",
			data: map[string]string{"Title": "the count of monte cristo"},
			want: "the cou…",
		},
		{
			name: "truncate short value",
			tmpl: "{{ truncate 8 .Title }}",
			data: map[string]string{"Title": "emma"},
			want: "emma",
		},
		{
			name: "bytes",
			tmpl: "{{ bytes .Size }}",
			data: map[string]int64{"Size": 1_500_000},
			want: "1.5 MB",
		},
		{
			name: "comma",
			tmpl: "{{ comma .Chars }}",
			data: map[string]int{"Chars": 1234567},
			want: "1,234,567",
		},
		{
			name: "percent",
			tmpl: "{{ percent .Fraction }}",
			data: map[string]float64{"Fraction": 0.426},
			want: "43%",
		},
		{
			name: "never read",
			tmpl: "{{ ago .LastRead }}",
			data: map[string]time.Time{"LastRead": {}},
			want: "never",
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

func TestAgo(t *testing.T) {
	got, err := Render("{{ ago .T }}", map[string]time.Time{"T": time.Now().Add(-3 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "3 hours ago", got)
}

func TestParse_Reuse(t *testing.T) {
	tpl, err := Parse("{{ .N }};")
	require.NoError(t, err)

	var out string
	for _, n := range []int{1, 2, 3} {
		s, err := tpl.Execute(map[string]int{"N": n})
		require.NoError(t, err)
		out += s
	}
	assert.Equal(t, "1;2;3;", out)
}
