package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("PAHEQ_T_DIR", "/srv/anime")
	t.Setenv("PAHEQ_T_EMPTY", "")
	t.Setenv("PAHEQ_T_THREADS", "8")

	tests := []struct {
		name        string
		in          string
		want        string
		wantMissing []string
	}{
		{"plain text untouched", `work_dir = "/data"`, `work_dir = "/data"`, nil},
		{"set variable", `work_dir = "${PAHEQ_T_DIR}"`, `work_dir = "/srv/anime"`, nil},
		{"unset variable reported", `work_dir = "${PAHEQ_T_UNSET}"`, `work_dir = "${PAHEQ_T_UNSET}"`, []string{"PAHEQ_T_UNSET"}},
		{"default used when unset", `threads = ${PAHEQ_T_UNSET:-16}`, `threads = 16`, nil},
		{"default used when empty", `work_dir = "${PAHEQ_T_EMPTY:-.}"`, `work_dir = "."`, nil},
		{"value beats default", `threads = ${PAHEQ_T_THREADS:-16}`, `threads = 8`, nil},
		{"required with message", `script = "${PAHEQ_T_EMPTY:?set the script path}"`, `script = "${PAHEQ_T_EMPTY:?set the script path}"`, []string{"PAHEQ_T_EMPTY: set the script path"}},
		{"required and set", `work_dir = "${PAHEQ_T_DIR:?needed}"`, `work_dir = "/srv/anime"`, nil},
		{"comment line skipped", "# use ${PAHEQ_T_UNSET:?x}\nthreads = 1", "# use ${PAHEQ_T_UNSET:?x}\nthreads = 1", nil},
		{"several on one line", `"${PAHEQ_T_DIR}/${PAHEQ_T_UNSET}/${PAHEQ_T_EMPTY:-x}"`, `"/srv/anime/${PAHEQ_T_UNSET}/x"`, []string{"PAHEQ_T_UNSET"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, missing := substituteEnvVars(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMissing, missing)
		})
	}
}
