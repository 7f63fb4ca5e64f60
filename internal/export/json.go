package export

import (
	"encoding/json"
	"io"
	"math"

	"github.com/san-kum/rlsim/internal/circuit"
	"github.com/san-kum/rlsim/internal/dynamo"
	"github.com/san-kum/rlsim/internal/source"
)

type ExportData struct {
	Circuit  circuit.Params     `json:"circuit"`
	Source   source.SquareWave  `json:"source"`
	H        float64            `json:"h"`
	TMax     float64            `json:"t_max"`
	Steps    int                `json:"steps"`
	Edges    []float64          `json:"edges,omitempty"`
	Metrics  map[string]Number  `json:"metrics,omitempty"`
	Samples  []dynamo.Sample    `json:"samples"`
	Unstable bool               `json:"unstable"`
}

// Number is a float that encodes NaN and infinities as null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func numbers(m map[string]float64) map[string]Number {
	if m == nil {
		return nil
	}
	out := make(map[string]Number, len(m))
	for k, v := range m {
		out[k] = Number(v)
	}
	return out
}

func NewExportData(p circuit.Params, wave source.SquareWave, traj *dynamo.Trajectory) ExportData {
	return ExportData{
		Circuit:  p,
		Source:   wave,
		H:        traj.Dt,
		TMax:     traj.Duration,
		Steps:    traj.Len(),
		Edges:    wave.Edges(traj.Duration),
		Metrics:  numbers(traj.Metrics),
		Samples:  traj.Samples,
		Unstable: circuit.CheckStability(p, traj.Dt) != nil,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
