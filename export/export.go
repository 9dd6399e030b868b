// Package export writes curves and aligned tracks to CSV and parquet files.
package export

import (
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/vincentdavis/cycling-dynamics/criticalpower"
	"github.com/vincentdavis/cycling-dynamics/series"
)

type curveParquetRow struct {
	Seconds int64   `parquet:"name=seconds, type=INT64"`
	Index   int64   `parquet:"name=index, type=INT64"`
	CP      float64 `parquet:"name=cp, type=DOUBLE"`
	Std     float64 `parquet:"name=std, type=DOUBLE"`
	Max     float64 `parquet:"name=max, type=DOUBLE"`
	Min     float64 `parquet:"name=min, type=DOUBLE"`
	Slope   float64 `parquet:"name=slope, type=DOUBLE"`
}

// WriteCurveParquet writes the core curve columns to a snappy parquet file.
// Extra-column aggregates are CSV-only, their key set not being fixed.
func WriteCurveParquet(path string, curve *criticalpower.Curve) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(curveParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, p := range curve.Points() {
		row := curveParquetRow{
			Seconds: int64(p.Seconds),
			Index:   int64(p.Index),
			CP:      p.CP,
			Std:     p.Std,
			Max:     p.Max,
			Min:     p.Min,
			Slope:   p.Slope,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// WriteCurveCSV writes the curve, including any extra-column aggregates,
// to a CSV file. Extra keys are sorted for a stable header.
func WriteCurveCSV(path string, curve *criticalpower.Curve) error {
	points := curve.Points()
	extraKeys := collectExtraKeys(points)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{"seconds", "index", "cp", "std", "max", "min", "slope"}, extraKeys...)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, p := range points {
		row := []string{
			strconv.Itoa(p.Seconds),
			strconv.Itoa(p.Index),
			formatFloat(p.CP),
			formatFloat(p.Std),
			formatFloat(p.Max),
			formatFloat(p.Min),
			formatFloat(p.Slope),
		}
		for _, k := range extraKeys {
			v, ok := p.Extra[k]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func collectExtraKeys(points []criticalpower.CPPoint) []string {
	seen := make(map[string]struct{})
	for _, p := range points {
		for k := range p.Extra {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type trackParquetRow struct {
	Ride     int64   `parquet:"name=ride, type=INT64"`
	Seconds  float64 `parquet:"name=seconds, type=DOUBLE"`
	Distance float64 `parquet:"name=distance, type=DOUBLE"`
	Power    float64 `parquet:"name=power, type=DOUBLE"`
	Speed    float64 `parquet:"name=speed, type=DOUBLE"`
	Altitude float64 `parquet:"name=altitude, type=DOUBLE"`
	Lat      float64 `parquet:"name=position_lat, type=DOUBLE"`
	Long     float64 `parquet:"name=position_long, type=DOUBLE"`
}

// WriteTracksParquet writes aligned tracks to one snappy parquet file, one
// row per sample with its ride tag. Absent columns become NaN.
func WriteTracksParquet(path string, tracks []*series.Activity) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(trackParquetRow), 4)
	if err != nil {
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for ride, track := range tracks {
		get := columnOrNaN(track)
		for i := 0; i < track.Len(); i++ {
			row := trackParquetRow{
				Ride:     rideTag(track, ride, i),
				Seconds:  get(series.ColSeconds, i),
				Distance: get(series.ColDistance, i),
				Power:    get(series.ColPower, i),
				Speed:    get(series.ColSpeed, i),
				Altitude: get(series.ColAltitude, i),
				Lat:      get(series.ColLat, i),
				Long:     get(series.ColLong, i),
			}
			if err := pw.Write(row); err != nil {
				_ = pw.WriteStop()
				_ = fw.Close()
				return err
			}
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

// WriteTracksCSV writes aligned tracks to one CSV file. Absent columns are
// left empty.
func WriteTracksCSV(path string, tracks []*series.Activity) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"ride", "seconds", "distance", "power", "speed", "altitude", "position_lat", "position_long"}
	if err := w.Write(header); err != nil {
		return err
	}
	names := header[1:]
	for ride, track := range tracks {
		get := columnOrNaN(track)
		for i := 0; i < track.Len(); i++ {
			row := make([]string, 0, len(header))
			row = append(row, strconv.FormatInt(rideTag(track, ride, i), 10))
			for _, name := range names {
				v := get(name, i)
				if math.IsNaN(v) {
					row = append(row, "")
					continue
				}
				row = append(row, formatFloat(v))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// WriteActivityCSV writes every column of an activity in insertion order,
// one row per sample, NaN as empty. Used for open-ended column sets like the
// power simulator output.
func WriteActivityCSV(path string, act *series.Activity) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := act.Names()
	if err := w.Write(names); err != nil {
		return err
	}
	for i := 0; i < act.Len(); i++ {
		row := make([]string, 0, len(names))
		for _, name := range names {
			v := act.Column(name)[i]
			if math.IsNaN(v) {
				row = append(row, "")
				continue
			}
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func columnOrNaN(track *series.Activity) func(name string, i int) float64 {
	return func(name string, i int) float64 {
		col := track.Column(name)
		if col == nil {
			return math.NaN()
		}
		return col[i]
	}
}

func rideTag(track *series.Activity, fallback, i int) int64 {
	if col := track.Column(series.ColRide); col != nil && !math.IsNaN(col[i]) {
		return int64(col[i])
	}
	return int64(fallback)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
