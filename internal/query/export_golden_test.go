package query

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func renderMatrix(t *testing.T, m Matrix) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	require.NoError(t, w.Write(m.Header))
	require.NoError(t, w.WriteAll(m.Rows))
	return buf.Bytes()
}

// TestExportGoldens pins the rendered CSV bytes of both cross-tab
// exports, since the downstream pipeline consumes the files verbatim.
func TestExportGoldens(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	snap := fixtureSnapshot()
	g.Assert(t, "component_technology_matrix", renderMatrix(t, ComponentTechnologyMatrix(snap)))
	g.Assert(t, "class_component_matrix", renderMatrix(t, ClassComponentMatrix(snap)))
}
