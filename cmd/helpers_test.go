package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ademuri/chart-tools/internal/catalog"
	"github.com/ademuri/chart-tools/internal/store"
	"github.com/ademuri/chart-tools/internal/window"
)

const testCatalogue = `Track_Name,Artist,Label,Release_Date,YouTube_Views
First,A,L1,2021-01-05,
Second,"A, B",,2020-12-01,
`

func loadTestCatalogue(t *testing.T) []catalog.Track {
	t.Helper()
	loaded, err := catalog.LoadCSV(strings.NewReader(testCatalogue))
	require.NoError(t, err)
	for i := range loaded.Tracks {
		loaded.Tracks[i].Counts = catalog.Counts{catalog.YouTubeViews: int64(10 * (i + 1))}
	}
	return loaded.Tracks
}

// relWorkbook is the workbook path of a 2021 window, relative to the output
// directory.
func relWorkbook(w window.Window) string {
	return store.WorkbookPath("", 2021, w)
}
