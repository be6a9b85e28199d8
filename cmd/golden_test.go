package cmd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/stepgen/internal/testutil"
)

func TestGoldenDataset(t *testing.T) {
	dataset := testutil.LoadGoldenDataset(t)
	require.NotEmpty(t, dataset.Tests)

	for _, tc := range dataset.Tests {
		t.Run(tc.Name, func(t *testing.T) {
			// GIVEN a golden protocol
			p := loadTestProtocol(t, testutil.RepoPath(t, tc.Protocol))

			// WHEN it is simulated with the recorded options
			tl, _, err := SimulateProtocol(p, Settings{Validate: tc.Validate, StripNoOps: tc.StripNoOps})
			require.NoError(t, err)

			// THEN frames, warnings and halt match exactly
			assert.Equal(t, tc.Expected.FrameIndices, frameIndices(tl))
			kinds := []string{}
			for _, w := range tl.Warnings() {
				kinds = append(kinds, string(w.Kind))
			}
			assert.Equal(t, tc.Expected.WarningKinds, kinds)
			if tc.Expected.HaltIndex == nil {
				assert.Nil(t, tl.Error)
			} else {
				require.NotNil(t, tl.Error)
				assert.Equal(t, *tc.Expected.HaltIndex, tl.Error.CommandIndex)
				assert.Equal(t, tc.Expected.HaltError, string(tl.Error.Errors[0].Kind))
			}

			// AND the final well volumes match
			final := tl.FinalState(p.Initial)
			for labware, wells := range tc.Expected.FinalVolumes {
				for well, want := range wells {
					got := final.WellContents(labware, well).Total()
					testutil.AssertFloat64Equal(t, fmt.Sprintf("%s/%s", labware, well), want, got, 1e-9)
				}
			}
		})
	}
}
