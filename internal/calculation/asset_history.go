package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/finpath/projection-engine/internal/domain"
	"github.com/shopspring/decimal"
)

// HistoricalDataPoint is one year's annual return for an asset
type HistoricalDataPoint struct {
	Year   int             `json:"year"`
	Return decimal.Decimal `json:"return"`
}

// HistoricalStatistics summarizes an asset's return history
type HistoricalStatistics struct {
	Mean   decimal.Decimal `json:"mean"`
	StdDev decimal.Decimal `json:"std_dev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// AssetHistory is the parsed return series for one asset class
type AssetHistory struct {
	Asset      domain.AssetName      `json:"asset"`
	Source     string                `json:"source"`
	DataPoints []HistoricalDataPoint `json:"data_points"`
	MinYear    int                   `json:"min_year"`
	MaxYear    int                   `json:"max_year"`
	Statistics HistoricalStatistics  `json:"statistics"`
}

// LoadAssetHistory reads <asset>.csv files (columns: year,return) from dir for
// every asset in catalog. Missing files are skipped; a file with no usable
// rows is an error.
func LoadAssetHistory(dir string, catalog *Catalog) (map[domain.AssetName]*AssetHistory, error) {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	out := make(map[domain.AssetName]*AssetHistory)
	for _, asset := range catalog.assets {
		path := filepath.Join(dir, string(asset.Name)+".csv")
		h, err := loadReturnsCSV(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s history: %w", asset.Name, err)
		}
		h.Asset = asset.Name
		out[asset.Name] = h
	}
	return out, nil
}

func loadReturnsCSV(path string) (*AssetHistory, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("invalid CSV format: expected at least 2 columns")
	}

	var points []HistoricalDataPoint
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		if len(record) < 2 {
			continue
		}
		year, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		value, err := decimal.NewFromString(record[1])
		if err != nil {
			continue
		}
		points = append(points, HistoricalDataPoint{Year: year, Return: value})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no valid data points found in %s", path)
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return &AssetHistory{
		Source:     path,
		DataPoints: points,
		MinYear:    points[0].Year,
		MaxYear:    points[len(points)-1].Year,
		Statistics: historyStatistics(points),
	}, nil
}

// historyStatistics uses the population standard deviation
func historyStatistics(points []HistoricalDataPoint) HistoricalStatistics {
	values := make([]decimal.Decimal, len(points))
	for i, p := range points {
		values[i] = p.Return
	}
	avg := mean(values)
	lo, hi := values[0], values[0]
	variance := decimal.Zero
	for _, v := range values {
		lo = decimal.Min(lo, v)
		hi = decimal.Max(hi, v)
		diff := v.Sub(avg)
		variance = variance.Add(diff.Mul(diff))
	}
	variance = variance.Div(decimal.NewFromInt(int64(len(values))))
	return HistoricalStatistics{
		Mean:   avg,
		StdDev: decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64())),
		Min:    lo,
		Max:    hi,
		Count:  len(values),
	}
}

// CalibrateCatalog replaces each asset's return and volatility with the
// historical mean and standard deviation where history exists
func CalibrateCatalog(catalog *Catalog, history map[domain.AssetName]*AssetHistory) *Catalog {
	overrides := make(map[domain.AssetName]domain.AssetClass, len(history))
	for name, h := range history {
		overrides[name] = domain.AssetClass{
			Name:             name,
			AnnualReturn:     h.Statistics.Mean,
			AnnualVolatility: h.Statistics.StdDev,
		}
	}
	return catalog.WithAssumptions(overrides)
}
