package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/rlsim/internal/dynamo"
)

// WriteCSV writes a "time,current" header followed by one row per sample.
// Values use the shortest representation that round-trips.
func WriteCSV(w io.Writer, traj *dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"time", "current"}); err != nil {
		return err
	}
	for _, s := range traj.Samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'g', -1, 64),
			strconv.FormatFloat(s.Current, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
