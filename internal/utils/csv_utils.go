package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/coincortex/coincortex/internal/models"
)

// CSVManager persists market data bars under basePath/csv/market/<symbol>/.
type CSVManager struct {
	basePath string
}

func NewCSVManager(basePath string) *CSVManager {
	return &CSVManager{basePath: basePath}
}

func (c *CSVManager) symbolDir(symbol string) string {
	return filepath.Join(c.basePath, "csv", "market", strings.ToUpper(symbol))
}

// WriteMarketDataToCSV writes bars for symbol into a timestamped CSV file.
func (c *CSVManager) WriteMarketDataToCSV(symbol string, data []*models.MarketData) error {
	if len(data) == 0 {
		return nil
	}

	dirPath := c.symbolDir(symbol)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	filename := fmt.Sprintf("%s_bars_%s.csv", strings.ToUpper(symbol), time.Now().Format("20060102_150405"))
	filePath := filepath.Join(dirPath, filename)

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("create cache file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Symbol", "Date", "Open", "High", "Low", "Close", "Volume"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	for _, bar := range data {
		row := []string{
			bar.Symbol,
			bar.Date,
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatInt(bar.Volume, 10),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write bar: %w", err)
		}
	}
	return nil
}

// FindLatestCSV returns the newest cached CSV file for symbol.
func (c *CSVManager) FindLatestCSV(symbol string) (string, error) {
	dirPath := c.symbolDir(symbol)
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return "", err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".csv") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return "", fmt.Errorf("no cached data for %s", symbol)
	}

	// Timestamped filenames sort chronologically.
	sort.Strings(names)
	return filepath.Join(dirPath, names[len(names)-1]), nil
}

// ReadMarketDataFromCSV loads bars from a cache file. The file's
// modification time is returned so callers can apply a TTL.
func (c *CSVManager) ReadMarketDataFromCSV(path string) ([]*models.MarketData, time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, time.Time{}, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read cache file: %w", err)
	}
	if len(rows) < 2 {
		return nil, info.ModTime(), nil
	}

	bars := make([]*models.MarketData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 7 {
			continue
		}
		open, err1 := strconv.ParseFloat(row[2], 64)
		high, err2 := strconv.ParseFloat(row[3], 64)
		low, err3 := strconv.ParseFloat(row[4], 64)
		closePx, err4 := strconv.ParseFloat(row[5], 64)
		volume, err5 := strconv.ParseInt(row[6], 10, 64)
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
			continue
		}
		bars = append(bars, &models.MarketData{
			Symbol: row[0],
			Date:   row[1],
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePx,
			Volume: volume,
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date < bars[j].Date })
	return bars, info.ModTime(), nil
}

// WriteIndicatorResultToCSV exports computed indicator series for symbol.
func (c *CSVManager) WriteIndicatorResultToCSV(symbol string, indicators map[string][]models.IndicatorValue) error {
	dirPath := filepath.Join(c.basePath, "csv", "indicators", strings.ToUpper(symbol))
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return fmt.Errorf("create indicator directory: %w", err)
	}

	filename := fmt.Sprintf("%s_indicators_%s.csv", strings.ToUpper(symbol), time.Now().Format("20060102_150405"))
	file, err := os.Create(filepath.Join(dirPath, filename))
	if err != nil {
		return fmt.Errorf("create indicator file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Indicator", "Date", "Value"}); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}

	names := make([]string, 0, len(indicators))
	for name := range indicators {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range indicators[name] {
			row := []string{name, value.Date, strconv.FormatFloat(value.Value, 'f', 6, 64)}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("write indicator row: %w", err)
			}
		}
	}
	return nil
}

// CleanOldCSVFiles removes cache files older than maxAge.
func (c *CSVManager) CleanOldCSVFiles(maxAge time.Duration) error {
	root := filepath.Join(c.basePath, "csv")
	cutoff := time.Now().Add(-maxAge)

	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".csv") {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			return os.Remove(path)
		}
		return nil
	})
}
